package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/irsalhamdi/eduverse/database"
	"github.com/jmoiron/sqlx"
)

const columns = `review_id, user_id, target_kind, target_id, rating, comment, created_at`

// Create inserts rv unless the user already reviewed the target.
func Create(ctx context.Context, db sqlx.ExtContext, rv Review) (bool, error) {
	const q = `
	INSERT INTO reviews (review_id, user_id, target_kind, target_id, rating, comment, created_at)
	VALUES (:review_id, :user_id, :target_kind, :target_id, :rating, :comment, :created_at)
	ON CONFLICT (user_id, target_kind, target_id) DO NOTHING`

	n, err := database.NamedExecContext(ctx, db, q, rv)
	if err != nil {
		return false, fmt.Errorf("inserting review: %w", err)
	}
	return n == 1, nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, userID string, kind TargetKind, targetID string) (Review, error) {
	q := `SELECT ` + columns + ` FROM reviews WHERE user_id = :user_id AND target_kind = :target_kind AND target_id = :target_id`

	data := map[string]any{"user_id": userID, "target_kind": kind, "target_id": targetID}

	var rv Review
	if err := database.NamedQueryStruct(ctx, db, q, data, &rv); err != nil {
		return Review{}, fmt.Errorf("selecting review of user[%s] on %s[%s]: %w", userID, kind, targetID, err)
	}
	return rv, nil
}

// Reviewed reports whether userID already reviewed the target.
func Reviewed(ctx context.Context, db sqlx.ExtContext, userID string, kind TargetKind, targetID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	_, err := Fetch(ctx, db, userID, kind, targetID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, database.ErrDBNotFound):
		return false, nil
	default:
		return false, err
	}
}

func QueryByTarget(ctx context.Context, db sqlx.ExtContext, kind TargetKind, targetID string) ([]Review, error) {
	q := `SELECT ` + columns + ` FROM reviews WHERE target_kind = :target_kind AND target_id = :target_id ORDER BY created_at DESC`

	data := map[string]any{"target_kind": kind, "target_id": targetID}

	var rr []Review
	if err := database.NamedQuerySlice(ctx, db, q, data, &rr); err != nil {
		return nil, fmt.Errorf("selecting reviews of %s[%s]: %w", kind, targetID, err)
	}
	return rr, nil
}

func Summarize(ctx context.Context, db sqlx.ExtContext, kind TargetKind, targetID string) (Summary, error) {
	const q = `
	SELECT COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average
	FROM reviews WHERE target_kind = :target_kind AND target_id = :target_id`

	data := map[string]any{"target_kind": kind, "target_id": targetID}

	var s Summary
	if err := database.NamedQueryStruct(ctx, db, q, data, &s); err != nil {
		return Summary{}, fmt.Errorf("summarizing reviews of %s[%s]: %w", kind, targetID, err)
	}
	return s, nil
}
