package blog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/daniilsolovey/blogicum/internal/db"
	"golang.org/x/crypto/bcrypt"
)

const DefaultPageSize = 10

// LastPage asks a feed for its last page, whatever its number.
const LastPage = -1

// Store is the persistence the Manager needs; *db.Repository implements it.
// Lookups return nil, nil when the row does not exist.
type Store interface {
	Posts(ctx context.Context, filter db.PostFilter, page, pageSize int) ([]db.Post, int, error)
	PostByID(ctx context.Context, postID int) (*db.Post, error)
	CreatePost(ctx context.Context, post *db.Post) error
	UpdatePost(ctx context.Context, post *db.Post) error
	DeletePost(ctx context.Context, postID int) error

	Comments(ctx context.Context, postID int) ([]db.Comment, error)
	CommentByID(ctx context.Context, postID, commentID int) (*db.Comment, error)
	CreateComment(ctx context.Context, comment *db.Comment) error
	UpdateComment(ctx context.Context, comment *db.Comment) error
	DeleteComment(ctx context.Context, commentID int) error

	CategoryBySlug(ctx context.Context, slug string) (*db.Category, error)
	PublishedCategories(ctx context.Context) ([]db.Category, error)
	PublishedLocations(ctx context.Context) ([]db.Location, error)

	UserByID(ctx context.Context, userID int) (*db.User, error)
	UserByUsername(ctx context.Context, username string) (*db.User, error)
	CreateUser(ctx context.Context, user *db.User) error
	UpdateUser(ctx context.Context, user *db.User) error
}

// ImageStore persists post images and hands back the key stored on the post.
type ImageStore interface {
	SaveImage(ctx context.Context, filename string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

type Manager struct {
	db       Store
	images   ImageStore
	log      *slog.Logger
	now      func() time.Time
	pageSize int
	hashCost int
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func WithPageSize(size int) Option {
	return func(m *Manager) {
		if size > 0 {
			m.pageSize = size
		}
	}
}

func WithHashCost(cost int) Option {
	return func(m *Manager) {
		m.hashCost = cost
	}
}

func NewManager(store Store, images ImageStore, log *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		db:       store,
		images:   images,
		log:      log,
		now:      time.Now,
		pageSize: DefaultPageSize,
		hashCost: bcrypt.DefaultCost,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Feed returns a page of the public feed.
func (m *Manager) Feed(ctx context.Context, page int) (*PostPage, error) {
	now := m.now()
	return m.postPage(ctx, db.PostFilter{VisibleAt: &now}, page)
}

// CategoryFeed returns a page of public posts of a published category.
func (m *Manager) CategoryFeed(ctx context.Context, slug string, page int) (*Category, *PostPage, error) {
	row, err := m.db.CategoryBySlug(ctx, slug)
	if err != nil {
		return nil, nil, fmt.Errorf("db get category: %w", err)
	} else if row == nil || !row.IsPublished {
		return nil, nil, ErrNotFound
	}

	now := m.now()
	result, err := m.postPage(ctx, db.PostFilter{CategoryID: &row.ID, VisibleAt: &now}, page)
	if err != nil {
		return nil, nil, err
	}

	category := NewCategory(row)
	return &category, result, nil
}

// ProfileFeed returns the posts of username. The owner also sees hidden posts.
func (m *Manager) ProfileFeed(ctx context.Context, actor *User, username string, page int) (*User, *PostPage, error) {
	row, err := m.db.UserByUsername(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("db get user: %w", err)
	} else if row == nil {
		return nil, nil, ErrNotFound
	}

	filter := db.PostFilter{AuthorID: &row.ID}
	if !IsAuthor(actor, row.ID) {
		now := m.now()
		filter.VisibleAt = &now
	}

	result, err := m.postPage(ctx, filter, page)
	if err != nil {
		return nil, nil, err
	}

	profile := NewUser(row)
	return &profile, result, nil
}

func (m *Manager) postPage(ctx context.Context, filter db.PostFilter, page int) (*PostPage, error) {
	if page == LastPage {
		_, total, err := m.db.Posts(ctx, filter, 1, m.pageSize)
		if err != nil {
			return nil, fmt.Errorf("db get posts: %w", err)
		}
		page = PostPage{Size: m.pageSize, Total: total}.NumPages()
	}

	if page < 1 {
		return nil, ErrNotFound
	}

	rows, total, err := m.db.Posts(ctx, filter, page, m.pageSize)
	if err != nil {
		return nil, fmt.Errorf("db get posts: %w", err)
	}

	result := &PostPage{
		Posts:  NewPosts(rows),
		Number: page,
		Size:   m.pageSize,
		Total:  total,
	}

	if page > result.NumPages() {
		return nil, ErrNotFound
	}

	return result, nil
}

// Categories lists the categories a post may be filed under.
func (m *Manager) Categories(ctx context.Context) ([]Category, error) {
	list, err := m.db.PublishedCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("db get categories: %w", err)
	}

	return NewCategories(list), nil
}

func (m *Manager) Locations(ctx context.Context) ([]Location, error) {
	list, err := m.db.PublishedLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("db get locations: %w", err)
	}

	return NewLocations(list), nil
}

func optionalID(id int) *int {
	if id == 0 {
		return nil
	}
	return &id
}

// Now is the manager's clock, used for form defaults.
func (m *Manager) Now() time.Time {
	return m.now()
}
