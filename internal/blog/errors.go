package blog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers missing rows and resources hidden from the actor.
	ErrNotFound           = errors.New("not found")
	ErrNotAuthor          = errors.New("actor is not the author")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username is already taken")

	// ErrInvalidChoice is wrapped by ErrInvalidCategory and ErrInvalidLocation.
	ErrInvalidChoice   = errors.New("invalid choice")
	ErrInvalidCategory = fmt.Errorf("category: %w", ErrInvalidChoice)
	ErrInvalidLocation = fmt.Errorf("location: %w", ErrInvalidChoice)
)
