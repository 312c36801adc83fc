package blog

import "github.com/daniilsolovey/blogicum/internal/db"

func NewPosts(in []db.Post) []Post {
	out := make([]Post, len(in))
	for i := range in {
		out[i] = NewPost(&in[i])
	}
	return out
}

func NewComments(in []db.Comment) []Comment {
	out := make([]Comment, len(in))
	for i := range in {
		out[i] = NewComment(&in[i])
	}
	return out
}

func NewCategories(in []db.Category) []Category {
	out := make([]Category, len(in))
	for i := range in {
		out[i] = NewCategory(&in[i])
	}
	return out
}

func NewLocations(in []db.Location) []Location {
	out := make([]Location, len(in))
	for i := range in {
		out[i] = NewLocation(&in[i])
	}
	return out
}
