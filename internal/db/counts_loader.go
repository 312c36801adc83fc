package db

import (
	"context"
	"fmt"

	"github.com/go-pg/pg/v10"
)

type commentCount struct {
	PostID       int
	CommentCount int
}

// attachCommentCounts fills CommentCount for every post with a single grouped query.
func (r *Repository) attachCommentCounts(ctx context.Context, posts []Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	counts, err := r.loadCommentCounts(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to count comments: %w", err)
	}

	for i := range posts {
		posts[i].CommentCount = counts[posts[i].ID]
	}

	return nil
}

func (r *Repository) loadCommentCounts(ctx context.Context, postIDs []int) (map[int]int, error) {
	var rows []commentCount
	err := r.db.ModelContext(ctx, (*Comment)(nil)).
		ColumnExpr(`"t"."post_id"`).
		ColumnExpr(`count(*) AS comment_count`).
		Where(`"t"."post_id" IN (?)`, pg.In(postIDs)).
		GroupExpr(`"t"."post_id"`).
		Select(&rows)
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		counts[row.PostID] = row.CommentCount
	}

	return counts, nil
}
