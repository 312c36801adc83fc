package blog

import "github.com/daniilsolovey/blogicum/internal/db"

func NewUser(u *db.User) User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func NewCategory(c *db.Category) Category {
	return Category{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Slug:        c.Slug,
		IsPublished: c.IsPublished,
		CreatedAt:   c.CreatedAt,
	}
}

func NewLocation(l *db.Location) Location {
	return Location{
		ID:          l.ID,
		Name:        l.Name,
		IsPublished: l.IsPublished,
		CreatedAt:   l.CreatedAt,
	}
}

func NewPost(p *db.Post) Post {
	post := Post{
		ID:           p.ID,
		Title:        p.Title,
		Text:         p.Text,
		PubDate:      p.PubDate,
		IsPublished:  p.IsPublished,
		CreatedAt:    p.CreatedAt,
		CommentCount: p.CommentCount,
		Author:       User{ID: p.AuthorID},
	}

	if p.Image != nil {
		post.Image = *p.Image
	}

	if p.Author != nil {
		post.Author = NewUser(p.Author)
	}

	if p.Category != nil {
		c := NewCategory(p.Category)
		post.Category = &c
	}

	if p.Location != nil {
		l := NewLocation(p.Location)
		post.Location = &l
	}

	return post
}

func NewComment(c *db.Comment) Comment {
	comment := Comment{
		ID:        c.ID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		PostID:    c.PostID,
		Author:    User{ID: c.AuthorID},
	}

	if c.Author != nil {
		comment.Author = NewUser(c.Author)
	}

	return comment
}
