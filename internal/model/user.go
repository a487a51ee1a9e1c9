package model

import "context"

// UserStore defines the in-memory user collection operations.
type UserStore interface {
	Create(ctx context.Context, params UserParams) (User, error)
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id int) (User, error)
	Update(ctx context.Context, id int, params UserParams) (User, error)
	Delete(ctx context.Context, id int) error
}

// User represents a stored user record.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserParams contains the client supplied fields of a user.
type UserParams struct {
	Name  string
	Email string
}
