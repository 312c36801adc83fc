package blog

import (
	"context"
	"fmt"

	"github.com/daniilsolovey/blogicum/internal/db"
)

// AddComment attaches a comment by actor to a post the actor can see.
func (m *Manager) AddComment(ctx context.Context, actor *User, postID int, text string) (*Comment, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	if _, err := m.visiblePost(ctx, actor, postID); err != nil {
		return nil, err
	}

	row := &db.Comment{
		Text:      text,
		CreatedAt: m.now(),
		AuthorID:  actor.ID,
		PostID:    postID,
	}

	if err := m.db.CreateComment(ctx, row); err != nil {
		return nil, fmt.Errorf("db create comment: %w", err)
	}

	comment := NewComment(row)
	comment.Author = *actor
	return &comment, nil
}

func (m *Manager) ownComment(ctx context.Context, actor *User, postID, commentID int) (*db.Comment, error) {
	row, err := m.db.CommentByID(ctx, postID, commentID)
	if err != nil {
		return nil, fmt.Errorf("db get comment: %w", err)
	} else if row == nil {
		return nil, ErrNotFound
	}

	if !IsAuthor(actor, row.AuthorID) {
		return nil, ErrNotAuthor
	}

	return row, nil
}

// CommentForEdit returns a comment of postID owned by actor.
func (m *Manager) CommentForEdit(ctx context.Context, actor *User, postID, commentID int) (*Comment, error) {
	row, err := m.ownComment(ctx, actor, postID, commentID)
	if err != nil {
		return nil, err
	}

	comment := NewComment(row)
	return &comment, nil
}

func (m *Manager) EditComment(ctx context.Context, actor *User, postID, commentID int, text string) (*Comment, error) {
	row, err := m.ownComment(ctx, actor, postID, commentID)
	if err != nil {
		return nil, err
	}

	row.Text = text
	if err := m.db.UpdateComment(ctx, row); err != nil {
		return nil, fmt.Errorf("db update comment: %w", err)
	}

	comment := NewComment(row)
	return &comment, nil
}

func (m *Manager) DeleteComment(ctx context.Context, actor *User, postID, commentID int) error {
	if _, err := m.ownComment(ctx, actor, postID, commentID); err != nil {
		return err
	}

	if err := m.db.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("db delete comment: %w", err)
	}

	return nil
}
