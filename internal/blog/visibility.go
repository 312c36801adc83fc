package blog

import "time"

// IsPublic reports whether viewers other than the author may see the post at now.
func (p Post) IsPublic(now time.Time) bool {
	return p.IsPublished &&
		!p.PubDate.After(now) &&
		(p.Category == nil || p.Category.IsPublished)
}

// VisibleTo reports whether actor may see the post. A nil actor is an anonymous viewer.
func (p Post) VisibleTo(actor *User, now time.Time) bool {
	return IsAuthor(actor, p.Author.ID) || p.IsPublic(now)
}

// FilterPublic returns the posts that are public at now, keeping their order.
func FilterPublic(posts []Post, now time.Time) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.IsPublic(now) {
			out = append(out, p)
		}
	}
	return out
}
