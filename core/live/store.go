package live

import (
	"context"
	"fmt"
	"strings"

	"github.com/irsalhamdi/eduverse/database"
	"github.com/jmoiron/sqlx"
)

const columns = `live_class_id, instructor_id, title, description, image_url, price, start_time, created_at, updated_at`

func Create(ctx context.Context, db sqlx.ExtContext, c Class) error {
	const q = `
	INSERT INTO live_classes (live_class_id, instructor_id, title, description, image_url, price, start_time, created_at, updated_at)
	VALUES (:live_class_id, :instructor_id, :title, :description, :image_url, :price, :start_time, :created_at, :updated_at)`

	if _, err := database.NamedExecContext(ctx, db, q, c); err != nil {
		return fmt.Errorf("inserting live class: %w", err)
	}
	return nil
}

func Update(ctx context.Context, db sqlx.ExtContext, c Class) error {
	const q = `
	UPDATE live_classes SET
		title = :title,
		description = :description,
		image_url = :image_url,
		price = :price,
		start_time = :start_time,
		updated_at = :updated_at
	WHERE live_class_id = :live_class_id`

	n, err := database.NamedExecContext(ctx, db, q, c)
	if err != nil {
		return fmt.Errorf("updating live class[%s]: %w", c.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("updating live class[%s]: %w", c.ID, database.ErrDBNotFound)
	}
	return nil
}

func Delete(ctx context.Context, db sqlx.ExtContext, id string) error {
	const q = `DELETE FROM live_classes WHERE live_class_id = :live_class_id`

	n, err := database.NamedExecContext(ctx, db, q, map[string]any{"live_class_id": id})
	if err != nil {
		return fmt.Errorf("deleting live class[%s]: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("deleting live class[%s]: %w", id, database.ErrDBNotFound)
	}
	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Class, error) {
	q := `SELECT ` + columns + ` FROM live_classes WHERE live_class_id = :live_class_id`

	var c Class
	if err := database.NamedQueryStruct(ctx, db, q, map[string]any{"live_class_id": id}, &c); err != nil {
		return Class{}, fmt.Errorf("selecting live class[%s]: %w", id, err)
	}
	return c, nil
}

// Query lists live classes by start time, optionally filtered on title.
func Query(ctx context.Context, db sqlx.ExtContext, search string) ([]Class, error) {
	q := `SELECT ` + columns + ` FROM live_classes`
	data := map[string]any{}

	if s := strings.TrimSpace(search); s != "" {
		q += ` WHERE LOWER(title) LIKE :query`
		data["query"] = "%" + strings.ToLower(s) + "%"
	}
	q += ` ORDER BY start_time`

	var cc []Class
	if err := database.NamedQuerySlice(ctx, db, q, data, &cc); err != nil {
		return nil, fmt.Errorf("selecting live classes: %w", err)
	}
	return cc, nil
}

func QueryByInstructor(ctx context.Context, db sqlx.ExtContext, instructorID string) ([]Class, error) {
	q := `SELECT ` + columns + ` FROM live_classes WHERE instructor_id = :instructor_id ORDER BY start_time DESC`

	var cc []Class
	if err := database.NamedQuerySlice(ctx, db, q, map[string]any{"instructor_id": instructorID}, &cc); err != nil {
		return nil, fmt.Errorf("selecting live classes of instructor[%s]: %w", instructorID, err)
	}
	return cc, nil
}
