package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
)

const uniqueViolation = "23505"

// ErrDuplicate is returned when an insert or update hits a unique constraint.
var ErrDuplicate = errors.New("duplicate value")

type Repository struct {
	db pg.DBI
}

func New(db pg.DBI) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Ping(ctx context.Context) error {
	if db, ok := r.db.(*pg.DB); ok {
		if err := db.Ping(ctx); err != nil {
			return err
		}
		return nil
	}

	return nil
}

func (r *Repository) Close() error {
	if db, ok := r.db.(*pg.DB); ok {
		if err := db.Close(); err != nil {
			return err
		}
		return nil
	}

	return nil
}

func (r *Repository) postsQuery(ctx context.Context, model interface{}) *orm.Query {
	return r.db.ModelContext(ctx, model).
		Relation(Columns.Post.Author).
		Relation(Columns.Post.Category).
		Relation(Columns.Post.Location)
}

// Posts returns one page of posts matching the filter together with the total number of matches.
// Author, category and location are joined, comment counts are attached, newest pub_date first.
func (r *Repository) Posts(ctx context.Context, filter PostFilter, page, pageSize int) ([]Post, int, error) {
	if page < 1 || pageSize < 1 {
		return nil, 0, fmt.Errorf(
			"page or pageSize must be greater than 0: page=%d, pageSize=%d",
			page, pageSize,
		)
	}

	offset := (page - 1) * pageSize

	var posts []Post
	query := filter.apply(r.postsQuery(ctx, &posts))

	total, err := query.
		OrderExpr(`"t"."pub_date" DESC`).
		OrderExpr(`"t"."id" DESC`).
		Limit(pageSize).
		Offset(offset).
		SelectAndCount()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query posts: %w", err)
	}

	if err := r.attachCommentCounts(ctx, posts); err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// PostByID returns the post regardless of its visibility, or nil if it does not exist.
func (r *Repository) PostByID(ctx context.Context, postID int) (*Post, error) {
	post := &Post{}
	err := r.postsQuery(ctx, post).
		Where(`"t"."id" = ?`, postID).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}

	posts := []Post{*post}
	if err := r.attachCommentCounts(ctx, posts); err != nil {
		return nil, err
	}

	return &posts[0], nil
}

func (r *Repository) CreatePost(ctx context.Context, post *Post) error {
	if _, err := r.db.ModelContext(ctx, post).Insert(); err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

func (r *Repository) UpdatePost(ctx context.Context, post *Post) error {
	_, err := r.db.ModelContext(ctx, post).
		Column(
			Columns.Post.Title,
			Columns.Post.Text,
			Columns.Post.PubDate,
			Columns.Post.Image,
			Columns.Post.IsPublished,
			Columns.Post.CategoryID,
			Columns.Post.LocationID,
		).
		WherePK().
		Update()
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	return nil
}

// DeletePost removes the post; its comments go with it through the foreign key cascade.
func (r *Repository) DeletePost(ctx context.Context, postID int) error {
	if _, err := r.db.ModelContext(ctx, &Post{ID: postID}).WherePK().Delete(); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	return nil
}

// Comments returns the comments of a post with their authors, oldest first.
func (r *Repository) Comments(ctx context.Context, postID int) ([]Comment, error) {
	var comments []Comment
	err := r.db.ModelContext(ctx, &comments).
		Relation(Columns.Comment.Author).
		Where(`"t"."post_id" = ?`, postID).
		OrderExpr(`"t"."created_at" ASC`).
		OrderExpr(`"t"."id" ASC`).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}

	return comments, nil
}

// CommentByID returns the comment only if it belongs to the given post.
func (r *Repository) CommentByID(ctx context.Context, postID, commentID int) (*Comment, error) {
	comment := &Comment{}
	err := r.db.ModelContext(ctx, comment).
		Relation(Columns.Comment.Author).
		Where(`"t"."id" = ?`, commentID).
		Where(`"t"."post_id" = ?`, postID).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get comment by id: %w", err)
	}

	return comment, nil
}

func (r *Repository) CreateComment(ctx context.Context, comment *Comment) error {
	if _, err := r.db.ModelContext(ctx, comment).Insert(); err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	return nil
}

func (r *Repository) UpdateComment(ctx context.Context, comment *Comment) error {
	_, err := r.db.ModelContext(ctx, comment).
		Column(Columns.Comment.Text).
		WherePK().
		Update()
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	return nil
}

func (r *Repository) DeleteComment(ctx context.Context, commentID int) error {
	if _, err := r.db.ModelContext(ctx, &Comment{ID: commentID}).WherePK().Delete(); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

// CategoryBySlug returns the category whatever its published state, or nil if the slug is unknown.
func (r *Repository) CategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	category := &Category{}
	err := r.db.ModelContext(ctx, category).
		Where(`"t"."slug" = ?`, slug).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}

	return category, nil
}

func (r *Repository) PublishedCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := r.db.ModelContext(ctx, &categories).
		Where(`"t"."is_published" = TRUE`).
		OrderExpr(`"t"."title" ASC`).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}

	return categories, nil
}

func (r *Repository) CreateCategory(ctx context.Context, category *Category) error {
	if _, err := r.db.ModelContext(ctx, category).Insert(); err != nil {
		return fmt.Errorf("failed to insert category: %w", mapUniqueViolation(err))
	}

	return nil
}

func (r *Repository) PublishedLocations(ctx context.Context) ([]Location, error) {
	var locations []Location
	err := r.db.ModelContext(ctx, &locations).
		Where(`"t"."is_published" = TRUE`).
		OrderExpr(`"t"."name" ASC`).
		Select()

	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}

	return locations, nil
}

func (r *Repository) CreateLocation(ctx context.Context, location *Location) error {
	if _, err := r.db.ModelContext(ctx, location).Insert(); err != nil {
		return fmt.Errorf("failed to insert location: %w", err)
	}

	return nil
}

func (r *Repository) UserByID(ctx context.Context, userID int) (*User, error) {
	user := &User{}
	err := r.db.ModelContext(ctx, user).
		Where(`"t"."id" = ?`, userID).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *Repository) UserByUsername(ctx context.Context, username string) (*User, error) {
	user := &User{}
	err := r.db.ModelContext(ctx, user).
		Where(`"t"."username" = ?`, username).
		Select()

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *User) error {
	if _, err := r.db.ModelContext(ctx, user).Insert(); err != nil {
		return fmt.Errorf("failed to insert user: %w", mapUniqueViolation(err))
	}

	return nil
}

// UpdateUser saves the profile fields; the password hash is left untouched.
func (r *Repository) UpdateUser(ctx context.Context, user *User) error {
	_, err := r.db.ModelContext(ctx, user).
		Column(
			Columns.User.Username,
			Columns.User.FirstName,
			Columns.User.LastName,
			Columns.User.Email,
		).
		WherePK().
		Update()
	if err != nil {
		return fmt.Errorf("failed to update user: %w", mapUniqueViolation(err))
	}

	return nil
}

func mapUniqueViolation(err error) error {
	var pgErr pg.Error
	if errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.Field('n'))
	}

	return err
}
