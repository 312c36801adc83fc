package blog

import (
	"io"
	"strings"
	"time"
)

const (
	representationLength = 30
	commentLength        = 20
)

type User struct {
	ID        int
	Username  string
	FirstName string
	LastName  string
	Email     string
	CreatedAt time.Time
}

// FullName falls back to the username when no name is set.
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func (u User) String() string {
	return u.Username
}

type Category struct {
	ID          int
	Title       string
	Description string
	Slug        string
	IsPublished bool
	CreatedAt   time.Time
}

func (c Category) String() string {
	return truncate(c.Title, representationLength)
}

type Location struct {
	ID          int
	Name        string
	IsPublished bool
	CreatedAt   time.Time
}

func (l Location) String() string {
	return truncate(l.Name, representationLength)
}

type Post struct {
	ID          int
	Title       string
	Text        string
	PubDate     time.Time
	Image       string
	IsPublished bool
	CreatedAt   time.Time

	Author   User
	Category *Category
	Location *Location

	CommentCount int
}

func (p Post) String() string {
	return truncate(p.Title, representationLength)
}

type Comment struct {
	ID        int
	Text      string
	CreatedAt time.Time
	PostID    int

	Author User
}

func (c Comment) String() string {
	return truncate(c.Text, commentLength)
}

// PostInput carries the editable fields of a post. Zero CategoryID or LocationID means none.
type PostInput struct {
	Title       string
	Text        string
	PubDate     time.Time
	IsPublished bool
	CategoryID  int
	LocationID  int

	Image      *Upload
	ClearImage bool
}

// Upload is an image submitted with a post form.
type Upload struct {
	Filename string
	Body     io.Reader
}

type ProfileInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
}

type RegistrationInput struct {
	Username string
	Email    string
	Password string
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
