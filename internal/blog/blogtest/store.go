// Package blogtest provides in-memory implementations of the blog collaborators for tests.
package blogtest

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/daniilsolovey/blogicum/internal/blog"
	"github.com/daniilsolovey/blogicum/internal/db"
)

// Store is an in-memory blog.Store with the same filtering and ordering rules as db.Repository.
type Store struct {
	mu sync.Mutex

	lastID     int
	users      map[int]db.User
	categories map[int]db.Category
	locations  map[int]db.Location
	posts      map[int]db.Post
	comments   map[int]db.Comment

	// UpdatePostErr, when set, is returned by UpdatePost.
	UpdatePostErr error
}

var _ blog.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		users:      make(map[int]db.User),
		categories: make(map[int]db.Category),
		locations:  make(map[int]db.Location),
		posts:      make(map[int]db.Post),
		comments:   make(map[int]db.Comment),
	}
}

func (s *Store) nextID() int {
	s.lastID++
	return s.lastID
}

// AddUser seeds a user with the given username.
func (s *Store) AddUser(username string) db.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := db.User{ID: s.nextID(), Username: username, Email: username + "@example.com"}
	s.users[u.ID] = u
	return u
}

func (s *Store) AddCategory(c db.Category) db.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextID()
	s.categories[c.ID] = c
	return c
}

func (s *Store) AddLocation(l db.Location) db.Location {
	s.mu.Lock()
	defer s.mu.Unlock()

	l.ID = s.nextID()
	s.locations[l.ID] = l
	return l
}

func (s *Store) AddPost(p db.Post) db.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextID()
	s.posts[p.ID] = stripPost(p)
	return p
}

func (s *Store) AddComment(c db.Comment) db.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextID()
	c.Author = nil
	s.comments[c.ID] = c
	return c
}

// Post returns the stored row without relations, for assertions.
func (s *Store) Post(id int) (db.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	return p, ok
}

func (s *Store) Comment(id int) (db.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	return c, ok
}

func (s *Store) Posts(_ context.Context, filter db.PostFilter, page, pageSize int) ([]db.Post, int, error) {
	if page < 1 || pageSize < 1 {
		return nil, 0, fmt.Errorf("page or pageSize must be greater than 0: page=%d, pageSize=%d", page, pageSize)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []db.Post
	for _, p := range s.posts {
		if filter.AuthorID != nil && p.AuthorID != *filter.AuthorID {
			continue
		}
		if filter.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *filter.CategoryID) {
			continue
		}

		full := s.annotate(p)
		if filter.VisibleAt != nil && !blog.NewPost(&full).IsPublic(*filter.VisibleAt) {
			continue
		}
		matched = append(matched, full)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].PubDate.Equal(matched[j].PubDate) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].PubDate.After(matched[j].PubDate)
	})

	total := len(matched)
	start := (page - 1) * pageSize
	if start >= total {
		return []db.Post{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

func (s *Store) PostByID(_ context.Context, postID int) (*db.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok {
		return nil, nil
	}

	full := s.annotate(p)
	return &full, nil
}

func (s *Store) CreatePost(_ context.Context, post *db.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[post.AuthorID]; !ok {
		return fmt.Errorf("failed to insert post: unknown author %d", post.AuthorID)
	}

	post.ID = s.nextID()
	s.posts[post.ID] = stripPost(*post)
	return nil
}

func (s *Store) UpdatePost(_ context.Context, post *db.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.UpdatePostErr != nil {
		return s.UpdatePostErr
	}

	if _, ok := s.posts[post.ID]; !ok {
		return fmt.Errorf("failed to update post: %d not found", post.ID)
	}

	s.posts[post.ID] = stripPost(*post)
	return nil
}

func (s *Store) DeletePost(_ context.Context, postID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.posts, postID)
	for id, c := range s.comments {
		if c.PostID == postID {
			delete(s.comments, id)
		}
	}
	return nil
}

func (s *Store) Comments(_ context.Context, postID int) ([]db.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []db.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, s.withAuthor(c))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (s *Store) CommentByID(_ context.Context, postID, commentID int) (*db.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[commentID]
	if !ok || c.PostID != postID {
		return nil, nil
	}

	full := s.withAuthor(c)
	return &full, nil
}

func (s *Store) CreateComment(_ context.Context, comment *db.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[comment.PostID]; !ok {
		return fmt.Errorf("failed to insert comment: unknown post %d", comment.PostID)
	}

	comment.ID = s.nextID()
	c := *comment
	c.Author = nil
	s.comments[c.ID] = c
	return nil
}

func (s *Store) UpdateComment(_ context.Context, comment *db.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[comment.ID]
	if !ok {
		return fmt.Errorf("failed to update comment: %d not found", comment.ID)
	}

	c.Text = comment.Text
	s.comments[c.ID] = c
	return nil
}

func (s *Store) DeleteComment(_ context.Context, commentID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.comments, commentID)
	return nil
}

func (s *Store) CategoryBySlug(_ context.Context, slug string) (*db.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.categories {
		if c.Slug == slug {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Store) PublishedCategories(_ context.Context) ([]db.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []db.Category
	for _, c := range s.categories {
		if c.IsPublished {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *Store) PublishedLocations(_ context.Context) ([]db.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []db.Location
	for _, l := range s.locations {
		if l.IsPublished {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UserByID(_ context.Context, userID int) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *Store) UserByUsername(_ context.Context, username string) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateUser(_ context.Context, user *db.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usernameTaken(user.Username, 0) {
		return fmt.Errorf("failed to insert user: %w", db.ErrDuplicate)
	}

	user.ID = s.nextID()
	s.users[user.ID] = *user
	return nil
}

func (s *Store) UpdateUser(_ context.Context, user *db.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[user.ID]
	if !ok {
		return fmt.Errorf("failed to update user: %d not found", user.ID)
	}
	if s.usernameTaken(user.Username, user.ID) {
		return fmt.Errorf("failed to update user: %w", db.ErrDuplicate)
	}

	stored.Username = user.Username
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.Email = user.Email
	s.users[user.ID] = stored
	return nil
}

func (s *Store) usernameTaken(username string, exceptID int) bool {
	for id, u := range s.users {
		if id != exceptID && u.Username == username {
			return true
		}
	}
	return false
}

// annotate joins the relations and the comment count the way the repository does.
func (s *Store) annotate(p db.Post) db.Post {
	if u, ok := s.users[p.AuthorID]; ok {
		p.Author = &u
	}
	if p.CategoryID != nil {
		if c, ok := s.categories[*p.CategoryID]; ok {
			p.Category = &c
		}
	}
	if p.LocationID != nil {
		if l, ok := s.locations[*p.LocationID]; ok {
			p.Location = &l
		}
	}

	p.CommentCount = 0
	for _, c := range s.comments {
		if c.PostID == p.ID {
			p.CommentCount++
		}
	}

	return p
}

func (s *Store) withAuthor(c db.Comment) db.Comment {
	if u, ok := s.users[c.AuthorID]; ok {
		c.Author = &u
	}
	return c
}

func stripPost(p db.Post) db.Post {
	p.Author = nil
	p.Category = nil
	p.Location = nil
	p.CommentCount = 0
	return p
}

// Images is an in-memory blog.ImageStore.
type Images struct {
	mu      sync.Mutex
	lastID  int
	Objects map[string][]byte
	Deleted []string
}

var _ blog.ImageStore = (*Images)(nil)

func NewImages() *Images {
	return &Images{Objects: make(map[string][]byte)}
}

func (i *Images) SaveImage(_ context.Context, filename string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	i.lastID++
	key := fmt.Sprintf("posts/%d-%s", i.lastID, filename)
	i.Objects[key] = data
	return key, nil
}

func (i *Images) Delete(_ context.Context, key string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	delete(i.Objects, key)
	i.Deleted = append(i.Deleted, key)
	return nil
}
