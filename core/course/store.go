package course

import (
	"context"
	"fmt"
	"strings"

	"github.com/irsalhamdi/eduverse/database"
	"github.com/jmoiron/sqlx"
)

const columns = `course_id, instructor_id, title, description, image_url, price, category, created_at, updated_at, version`

func Create(ctx context.Context, db sqlx.ExtContext, c Course) error {
	const q = `
	INSERT INTO courses (course_id, instructor_id, title, description, image_url, price, category, created_at, updated_at, version)
	VALUES (:course_id, :instructor_id, :title, :description, :image_url, :price, :category, :created_at, :updated_at, :version)`

	if _, err := database.NamedExecContext(ctx, db, q, c); err != nil {
		return fmt.Errorf("inserting course: %w", err)
	}
	return nil
}

// Update stores c if its version still matches the stored one and bumps
// the version. database.ErrDBNotFound means the course is gone or stale.
func Update(ctx context.Context, db sqlx.ExtContext, c Course) error {
	const q = `
	UPDATE courses SET
		title = :title,
		description = :description,
		image_url = :image_url,
		price = :price,
		category = :category,
		updated_at = :updated_at,
		version = version + 1
	WHERE course_id = :course_id AND version = :version`

	n, err := database.NamedExecContext(ctx, db, q, c)
	if err != nil {
		return fmt.Errorf("updating course[%s]: %w", c.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("updating course[%s] at version %d: %w", c.ID, c.Version, database.ErrDBNotFound)
	}
	return nil
}

func Delete(ctx context.Context, db sqlx.ExtContext, id string) error {
	const q = `DELETE FROM courses WHERE course_id = :course_id`

	n, err := database.NamedExecContext(ctx, db, q, map[string]any{"course_id": id})
	if err != nil {
		return fmt.Errorf("deleting course[%s]: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("deleting course[%s]: %w", id, database.ErrDBNotFound)
	}
	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Course, error) {
	q := `SELECT ` + columns + ` FROM courses WHERE course_id = :course_id`

	var c Course
	if err := database.NamedQueryStruct(ctx, db, q, map[string]any{"course_id": id}, &c); err != nil {
		return Course{}, fmt.Errorf("selecting course[%s]: %w", id, err)
	}
	return c, nil
}

// Query searches title and description case-insensitively, newest first.
func Query(ctx context.Context, db sqlx.ExtContext, f Filter) ([]Course, error) {
	var (
		where []string
		data  = map[string]any{}
	)

	if q := strings.TrimSpace(f.Query); q != "" {
		where = append(where, `(LOWER(title) LIKE :query OR LOWER(description) LIKE :query)`)
		data["query"] = "%" + strings.ToLower(q) + "%"
	}
	if f.Category != "" {
		where = append(where, `category = :category`)
		data["category"] = f.Category
	}

	q := `SELECT ` + columns + ` FROM courses`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at DESC`

	var cc []Course
	if err := database.NamedQuerySlice(ctx, db, q, data, &cc); err != nil {
		return nil, fmt.Errorf("selecting courses: %w", err)
	}
	return cc, nil
}

func QueryByInstructor(ctx context.Context, db sqlx.ExtContext, instructorID string) ([]Course, error) {
	q := `SELECT ` + columns + ` FROM courses WHERE instructor_id = :instructor_id ORDER BY created_at DESC`

	var cc []Course
	if err := database.NamedQuerySlice(ctx, db, q, map[string]any{"instructor_id": instructorID}, &cc); err != nil {
		return nil, fmt.Errorf("selecting courses of instructor[%s]: %w", instructorID, err)
	}
	return cc, nil
}
