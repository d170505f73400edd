package user

import (
	"context"
	"fmt"
	"time"

	"github.com/irsalhamdi/eduverse/database"
	"github.com/jmoiron/sqlx"
)

const columns = `user_id, name, email, role, password_hash, created_at, updated_at`

func Create(ctx context.Context, db sqlx.ExtContext, u User) error {
	const q = `
	INSERT INTO users (user_id, name, email, role, password_hash, created_at, updated_at)
	VALUES (:user_id, :name, :email, :role, :password_hash, :created_at, :updated_at)`

	data := map[string]any{
		"user_id":       u.ID,
		"name":          u.Name,
		"email":         u.Email,
		"role":          u.Role,
		"password_hash": string(u.PasswordHash),
		"created_at":    u.CreatedAt,
		"updated_at":    u.UpdatedAt,
	}

	if _, err := database.NamedExecContext(ctx, db, q, data); err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (User, error) {
	q := `SELECT ` + columns + ` FROM users WHERE user_id = :user_id`

	var u User
	if err := database.NamedQueryStruct(ctx, db, q, map[string]any{"user_id": id}, &u); err != nil {
		return User{}, fmt.Errorf("selecting user[%s]: %w", id, err)
	}
	return u, nil
}

func FetchByEmail(ctx context.Context, db sqlx.ExtContext, email string) (User, error) {
	q := `SELECT ` + columns + ` FROM users WHERE email = :email`

	var u User
	if err := database.NamedQueryStruct(ctx, db, q, map[string]any{"email": email}, &u); err != nil {
		return User{}, fmt.Errorf("selecting user by email: %w", err)
	}
	return u, nil
}

func UpdateRole(ctx context.Context, db sqlx.ExtContext, id string, role string, now time.Time) error {
	const q = `UPDATE users SET role = :role, updated_at = :updated_at WHERE user_id = :user_id`

	data := map[string]any{"user_id": id, "role": role, "updated_at": now}
	n, err := database.NamedExecContext(ctx, db, q, data)
	if err != nil {
		return fmt.Errorf("updating role of user[%s]: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("updating role of user[%s]: %w", id, database.ErrDBNotFound)
	}
	return nil
}
