package postgres

import (
	"context"
	"fmt"

	"github.com/dtroode/userkeeper-server/internal/model"
)

var _ model.Snapshotter = (*UserRepository)(nil)

const (
	selectUsersQuery = `SELECT id, name, email FROM users ORDER BY position`
	deleteUsersQuery = `DELETE FROM users`
	insertUserQuery  = `INSERT INTO users (position, id, name, email) VALUES ($1, $2, $3, $4)`
)

// UserRepository mirrors the user collection into the users table.
type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// Load returns all rows in insertion order.
func (r *UserRepository) Load(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUsersQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// Save replaces every row with users inside one transaction.
func (r *UserRepository) Save(ctx context.Context, users []model.User) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteUsersQuery); err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}

	for i, user := range users {
		if _, err = tx.ExecContext(ctx, insertUserQuery, i, user.ID, user.Name, user.Email); err != nil {
			return fmt.Errorf("failed to insert user %d: %w", user.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit users: %w", err)
	}
	return nil
}
