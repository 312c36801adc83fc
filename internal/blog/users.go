package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/daniilsolovey/blogicum/internal/db"
	"golang.org/x/crypto/bcrypt"
)

func (m *Manager) Register(ctx context.Context, in RegistrationInput) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), m.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	row := &db.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    m.now(),
	}

	if err := m.db.CreateUser(ctx, row); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("db create user: %w", err)
	}

	user := NewUser(row)
	return &user, nil
}

// Authenticate checks the credentials; an unknown user and a wrong password look the same.
func (m *Manager) Authenticate(ctx context.Context, username, password string) (*User, error) {
	row, err := m.db.UserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("db get user: %w", err)
	} else if row == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user := NewUser(row)
	return &user, nil
}

func (m *Manager) UserByID(ctx context.Context, userID int) (*User, error) {
	row, err := m.db.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("db get user: %w", err)
	} else if row == nil {
		return nil, ErrNotFound
	}

	user := NewUser(row)
	return &user, nil
}

// UpdateProfile saves the profile fields of the actor's own account.
func (m *Manager) UpdateProfile(ctx context.Context, actor *User, in ProfileInput) (*User, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	row, err := m.db.UserByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("db get user: %w", err)
	} else if row == nil {
		return nil, ErrNotFound
	}

	row.Username = in.Username
	row.FirstName = in.FirstName
	row.LastName = in.LastName
	row.Email = in.Email

	if err := m.db.UpdateUser(ctx, row); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("db update user: %w", err)
	}

	user := NewUser(row)
	return &user, nil
}
