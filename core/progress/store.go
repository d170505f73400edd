package progress

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/eduverse/core/content"
	"github.com/irsalhamdi/eduverse/database"
	"github.com/jmoiron/sqlx"
)

// Create stores rec once. Completing an item again keeps the first
// completion time and reports false.
func Create(ctx context.Context, db sqlx.ExtContext, rec Record) (bool, error) {
	const q = `
	INSERT INTO progress (user_id, content_kind, content_id, completed_at)
	VALUES (:user_id, :content_kind, :content_id, :completed_at)
	ON CONFLICT (user_id, content_kind, content_id) DO NOTHING`

	n, err := database.NamedExecContext(ctx, db, q, rec)
	if err != nil {
		return false, fmt.Errorf("inserting progress: %w", err)
	}
	return n == 1, nil
}

// QueryCompleted returns the refs of every item the user completed.
func QueryCompleted(ctx context.Context, db sqlx.ExtContext, userID string) (content.Set, error) {
	const q = `SELECT content_kind, content_id FROM progress WHERE user_id = :user_id`

	var refs []content.Ref
	if err := database.NamedQuerySlice(ctx, db, q, map[string]any{"user_id": userID}, &refs); err != nil {
		return nil, fmt.Errorf("selecting progress of user[%s]: %w", userID, err)
	}
	return content.NewSet(refs...), nil
}
