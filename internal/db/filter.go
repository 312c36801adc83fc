package db

import (
	"time"

	"github.com/go-pg/pg/v10/orm"
)

// PostFilter narrows a post listing. Nil fields are not applied.
type PostFilter struct {
	AuthorID   *int
	CategoryID *int
	// VisibleAt restricts the listing to posts visible to the public at that moment.
	VisibleAt *time.Time
}

// PublishedFilter keeps posts that are published, not dated after now and either
// uncategorized or in a published category. The query must join the Category relation.
func PublishedFilter(q *orm.Query, now time.Time) *orm.Query {
	return q.
		Where(`"t"."is_published" = TRUE`).
		Where(`"t"."pub_date" <= ?`, now).
		Where(`("t"."category_id" IS NULL OR "category"."is_published" = TRUE)`)
}

func (f PostFilter) apply(q *orm.Query) *orm.Query {
	if f.AuthorID != nil {
		q = q.Where(`"t"."author_id" = ?`, *f.AuthorID)
	}

	if f.CategoryID != nil {
		q = q.Where(`"t"."category_id" = ?`, *f.CategoryID)
	}

	if f.VisibleAt != nil {
		q = PublishedFilter(q, *f.VisibleAt)
	}

	return q
}
