package module

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/eduverse/database"
	"github.com/jmoiron/sqlx"
)

const columns = `module_id, course_id, title, description, position, created_at`

func Create(ctx context.Context, db sqlx.ExtContext, m Module) error {
	const q = `
	INSERT INTO modules (module_id, course_id, title, description, position, created_at)
	VALUES (:module_id, :course_id, :title, :description, :position, :created_at)`

	if _, err := database.NamedExecContext(ctx, db, q, m); err != nil {
		return fmt.Errorf("inserting module: %w", err)
	}
	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Module, error) {
	q := `SELECT ` + columns + ` FROM modules WHERE module_id = :module_id`

	var m Module
	if err := database.NamedQueryStruct(ctx, db, q, map[string]any{"module_id": id}, &m); err != nil {
		return Module{}, fmt.Errorf("selecting module[%s]: %w", id, err)
	}
	return m, nil
}

// QueryByCourse returns the modules of a course in reading order.
func QueryByCourse(ctx context.Context, db sqlx.ExtContext, courseID string) ([]Module, error) {
	q := `SELECT ` + columns + ` FROM modules WHERE course_id = :course_id ORDER BY position, created_at`

	var mm []Module
	if err := database.NamedQuerySlice(ctx, db, q, map[string]any{"course_id": courseID}, &mm); err != nil {
		return nil, fmt.Errorf("selecting modules of course[%s]: %w", courseID, err)
	}
	return mm, nil
}
