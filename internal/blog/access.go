package blog

// IsAuthor reports whether actor owns a resource authored by authorID.
// Anonymous actors own nothing.
func IsAuthor(actor *User, authorID int) bool {
	return actor != nil && actor.ID != 0 && actor.ID == authorID
}
