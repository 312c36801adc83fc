package blog

import (
	"context"
	"fmt"
	"slices"

	"github.com/daniilsolovey/blogicum/internal/db"
)

// PostDetail returns a post visible to actor with its comments, oldest first.
// Hidden posts are reported as ErrNotFound to everyone but their author.
func (m *Manager) PostDetail(ctx context.Context, actor *User, postID int) (*Post, []Comment, error) {
	post, err := m.visiblePost(ctx, actor, postID)
	if err != nil {
		return nil, nil, err
	}

	rows, err := m.db.Comments(ctx, postID)
	if err != nil {
		return nil, nil, fmt.Errorf("db get comments: %w", err)
	}

	return post, NewComments(rows), nil
}

func (m *Manager) visiblePost(ctx context.Context, actor *User, postID int) (*Post, error) {
	row, err := m.db.PostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("db get post: %w", err)
	} else if row == nil {
		return nil, ErrNotFound
	}

	post := NewPost(row)
	if !post.VisibleTo(actor, m.now()) {
		return nil, ErrNotFound
	}

	return &post, nil
}

// ownPost loads the post and checks that actor wrote it.
func (m *Manager) ownPost(ctx context.Context, actor *User, postID int) (*db.Post, error) {
	row, err := m.db.PostByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("db get post: %w", err)
	} else if row == nil {
		return nil, ErrNotFound
	}

	if !IsAuthor(actor, row.AuthorID) {
		return nil, ErrNotAuthor
	}

	return row, nil
}

// PostForEdit returns the post for its edit or delete form.
func (m *Manager) PostForEdit(ctx context.Context, actor *User, postID int) (*Post, error) {
	row, err := m.ownPost(ctx, actor, postID)
	if err != nil {
		return nil, err
	}

	post := NewPost(row)
	return &post, nil
}

func (m *Manager) CreatePost(ctx context.Context, actor *User, in PostInput) (*Post, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	row := &db.Post{
		AuthorID:  actor.ID,
		CreatedAt: m.now(),
	}

	if err := m.checkChoices(ctx, in); err != nil {
		return nil, err
	}
	applyPostInput(row, in)

	if in.Image != nil {
		key, err := m.images.SaveImage(ctx, in.Image.Filename, in.Image.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to save image: %w", err)
		}
		row.Image = &key
	}

	if err := m.db.CreatePost(ctx, row); err != nil {
		if row.Image != nil {
			m.deleteImage(ctx, *row.Image)
		}
		return nil, fmt.Errorf("db create post: %w", err)
	}

	post := NewPost(row)
	post.Author = *actor
	return &post, nil
}

// EditPost applies in to a post owned by actor. A replaced or cleared image is removed from storage.
func (m *Manager) EditPost(ctx context.Context, actor *User, postID int, in PostInput) (*Post, error) {
	row, err := m.ownPost(ctx, actor, postID)
	if err != nil {
		return nil, err
	}

	if err := m.checkChoices(ctx, in); err != nil {
		return nil, err
	}
	applyPostInput(row, in)

	var stale string
	if row.Image != nil && (in.ClearImage || in.Image != nil) {
		stale = *row.Image
		row.Image = nil
	}

	if in.Image != nil {
		key, err := m.images.SaveImage(ctx, in.Image.Filename, in.Image.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to save image: %w", err)
		}
		row.Image = &key
	}

	if err := m.db.UpdatePost(ctx, row); err != nil {
		if in.Image != nil && row.Image != nil {
			m.deleteImage(ctx, *row.Image)
		}
		return nil, fmt.Errorf("db update post: %w", err)
	}

	if stale != "" {
		m.deleteImage(ctx, stale)
	}

	post := NewPost(row)
	return &post, nil
}

// DeletePost removes a post owned by actor together with its comments and image.
func (m *Manager) DeletePost(ctx context.Context, actor *User, postID int) error {
	row, err := m.ownPost(ctx, actor, postID)
	if err != nil {
		return err
	}

	if err := m.db.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("db delete post: %w", err)
	}

	if row.Image != nil {
		m.deleteImage(ctx, *row.Image)
	}

	return nil
}

func (m *Manager) deleteImage(ctx context.Context, key string) {
	if err := m.images.Delete(ctx, key); err != nil {
		m.log.WarnContext(ctx, "failed to delete post image", "key", key, "error", err)
	}
}

// checkChoices accepts only published categories and locations, the ones the post form offers.
func (m *Manager) checkChoices(ctx context.Context, in PostInput) error {
	if in.CategoryID != 0 {
		list, err := m.db.PublishedCategories(ctx)
		if err != nil {
			return fmt.Errorf("db get categories: %w", err)
		}
		if !slices.ContainsFunc(list, func(c db.Category) bool { return c.ID == in.CategoryID }) {
			return ErrInvalidCategory
		}
	}

	if in.LocationID != 0 {
		list, err := m.db.PublishedLocations(ctx)
		if err != nil {
			return fmt.Errorf("db get locations: %w", err)
		}
		if !slices.ContainsFunc(list, func(l db.Location) bool { return l.ID == in.LocationID }) {
			return ErrInvalidLocation
		}
	}

	return nil
}

func applyPostInput(row *db.Post, in PostInput) {
	row.Title = in.Title
	row.Text = in.Text
	row.PubDate = in.PubDate
	row.IsPublished = in.IsPublished
	row.CategoryID = optionalID(in.CategoryID)
	row.LocationID = optionalID(in.LocationID)
	// relations are reloaded on the next read
	row.Category = nil
	row.Location = nil
}
