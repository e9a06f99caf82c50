package identity

import "context"

// UserRepository defines persistence for users
type UserRepository interface {
	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}
