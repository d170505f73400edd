package teacher

import (
	"context"
	"fmt"
	"time"

	"github.com/irsalhamdi/eduverse/database"
	"github.com/jmoiron/sqlx"
)

const columns = `application_id, user_id, full_name, email, expertise, years_experience, bio, linkedin_url, status, submitted_at, processed_at`

func Create(ctx context.Context, db sqlx.ExtContext, a Application) error {
	const q = `
	INSERT INTO teacher_applications (application_id, user_id, full_name, email, expertise, years_experience, bio, linkedin_url, status, submitted_at)
	VALUES (:application_id, :user_id, :full_name, :email, :expertise, :years_experience, :bio, :linkedin_url, :status, :submitted_at)`

	if _, err := database.NamedExecContext(ctx, db, q, a); err != nil {
		return fmt.Errorf("inserting teacher application: %w", err)
	}
	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (Application, error) {
	q := `SELECT ` + columns + ` FROM teacher_applications WHERE application_id = :application_id`

	var a Application
	if err := database.NamedQueryStruct(ctx, db, q, map[string]any{"application_id": id}, &a); err != nil {
		return Application{}, fmt.Errorf("selecting teacher application[%s]: %w", id, err)
	}
	return a, nil
}

// FetchLatest returns the most recent application of userID.
func FetchLatest(ctx context.Context, db sqlx.ExtContext, userID string) (Application, error) {
	q := `SELECT ` + columns + ` FROM teacher_applications WHERE user_id = :user_id ORDER BY submitted_at DESC LIMIT 1`

	var a Application
	if err := database.NamedQueryStruct(ctx, db, q, map[string]any{"user_id": userID}, &a); err != nil {
		return Application{}, fmt.Errorf("selecting latest application of user[%s]: %w", userID, err)
	}
	return a, nil
}

// QueryByStatus lists applications oldest first; an empty status lists all.
func QueryByStatus(ctx context.Context, db sqlx.ExtContext, status Status) ([]Application, error) {
	q := `SELECT ` + columns + ` FROM teacher_applications`
	if status != "" {
		q += ` WHERE status = :status`
	}
	q += ` ORDER BY submitted_at`

	var aa []Application
	if err := database.NamedQuerySlice(ctx, db, q, map[string]any{"status": status}, &aa); err != nil {
		return nil, fmt.Errorf("selecting teacher applications: %w", err)
	}
	return aa, nil
}

// Process moves a pending application to status and reports false when it
// was already processed.
func Process(ctx context.Context, db sqlx.ExtContext, id string, status Status, now time.Time) (bool, error) {
	const q = `
	UPDATE teacher_applications SET status = :status, processed_at = :processed_at
	WHERE application_id = :application_id AND status = 'pending'`

	data := map[string]any{"application_id": id, "status": status, "processed_at": now}

	n, err := database.NamedExecContext(ctx, db, q, data)
	if err != nil {
		return false, fmt.Errorf("processing teacher application[%s]: %w", id, err)
	}
	return n == 1, nil
}
