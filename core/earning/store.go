package earning

import (
	"context"
	"fmt"
	"time"

	"github.com/irsalhamdi/eduverse/database"
	"github.com/jmoiron/sqlx"
)

const (
	earningColumns    = `earning_id, instructor_id, amount, source_kind, enrollment_id, created_at`
	withdrawalColumns = `withdrawal_id, instructor_id, amount, status, requested_at, processed_at`
)

// Create appends e. An enrollment is credited at most once.
func Create(ctx context.Context, db sqlx.ExtContext, e Earning) (bool, error) {
	const q = `
	INSERT INTO earnings (earning_id, instructor_id, amount, source_kind, enrollment_id, created_at)
	VALUES (:earning_id, :instructor_id, :amount, :source_kind, :enrollment_id, :created_at)
	ON CONFLICT (source_kind, enrollment_id) DO NOTHING`

	n, err := database.NamedExecContext(ctx, db, q, e)
	if err != nil {
		return false, fmt.Errorf("inserting earning: %w", err)
	}
	return n == 1, nil
}

func QueryRecent(ctx context.Context, db sqlx.ExtContext, instructorID string, limit int) ([]Earning, error) {
	q := `SELECT ` + earningColumns + ` FROM earnings WHERE instructor_id = :instructor_id ORDER BY created_at DESC LIMIT :limit`

	data := map[string]any{"instructor_id": instructorID, "limit": limit}

	var ee []Earning
	if err := database.NamedQuerySlice(ctx, db, q, data, &ee); err != nil {
		return nil, fmt.Errorf("selecting earnings of instructor[%s]: %w", instructorID, err)
	}
	return ee, nil
}

func QueryByEnrollment(ctx context.Context, db sqlx.ExtContext, kind SourceKind, enrollmentID string) ([]Earning, error) {
	q := `SELECT ` + earningColumns + ` FROM earnings WHERE source_kind = :source_kind AND enrollment_id = :enrollment_id`

	data := map[string]any{"source_kind": kind, "enrollment_id": enrollmentID}

	var ee []Earning
	if err := database.NamedQuerySlice(ctx, db, q, data, &ee); err != nil {
		return nil, fmt.Errorf("selecting earnings of %s enrollment[%s]: %w", kind, enrollmentID, err)
	}
	return ee, nil
}

func SumEarnings(ctx context.Context, db sqlx.ExtContext, instructorID string) (int, error) {
	const q = `SELECT COALESCE(SUM(amount), 0) AS total FROM earnings WHERE instructor_id = :instructor_id`

	var s database.Sum
	if err := database.NamedQueryStruct(ctx, db, q, map[string]any{"instructor_id": instructorID}, &s); err != nil {
		return 0, fmt.Errorf("summing earnings of instructor[%s]: %w", instructorID, err)
	}
	return s.Total, nil
}

func SumWithdrawals(ctx context.Context, db sqlx.ExtContext, instructorID string, status Status) (int, error) {
	const q = `
	SELECT COALESCE(SUM(amount), 0) AS total FROM withdrawals
	WHERE instructor_id = :instructor_id AND status = :status`

	data := map[string]any{"instructor_id": instructorID, "status": status}

	var s database.Sum
	if err := database.NamedQueryStruct(ctx, db, q, data, &s); err != nil {
		return 0, fmt.Errorf("summing %s withdrawals of instructor[%s]: %w", status, instructorID, err)
	}
	return s.Total, nil
}

func CreateWithdrawal(ctx context.Context, db sqlx.ExtContext, wd Withdrawal) error {
	const q = `
	INSERT INTO withdrawals (withdrawal_id, instructor_id, amount, status, requested_at, processed_at)
	VALUES (:withdrawal_id, :instructor_id, :amount, :status, :requested_at, :processed_at)`

	if _, err := database.NamedExecContext(ctx, db, q, wd); err != nil {
		return fmt.Errorf("inserting withdrawal: %w", err)
	}
	return nil
}

func FetchWithdrawal(ctx context.Context, db sqlx.ExtContext, id string) (Withdrawal, error) {
	q := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE withdrawal_id = :withdrawal_id`

	var wd Withdrawal
	if err := database.NamedQueryStruct(ctx, db, q, map[string]any{"withdrawal_id": id}, &wd); err != nil {
		return Withdrawal{}, fmt.Errorf("selecting withdrawal[%s]: %w", id, err)
	}
	return wd, nil
}

func QueryWithdrawals(ctx context.Context, db sqlx.ExtContext, instructorID string) ([]Withdrawal, error) {
	q := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE instructor_id = :instructor_id ORDER BY requested_at DESC`

	var ww []Withdrawal
	if err := database.NamedQuerySlice(ctx, db, q, map[string]any{"instructor_id": instructorID}, &ww); err != nil {
		return nil, fmt.Errorf("selecting withdrawals of instructor[%s]: %w", instructorID, err)
	}
	return ww, nil
}

// QueryWithdrawalsByStatus lists withdrawals oldest first; an empty status
// lists all of them.
func QueryWithdrawalsByStatus(ctx context.Context, db sqlx.ExtContext, status Status) ([]Withdrawal, error) {
	q := `SELECT ` + withdrawalColumns + ` FROM withdrawals`
	data := map[string]any{}

	if status != "" {
		q += ` WHERE status = :status`
		data["status"] = status
	}
	q += ` ORDER BY requested_at`

	var ww []Withdrawal
	if err := database.NamedQuerySlice(ctx, db, q, data, &ww); err != nil {
		return nil, fmt.Errorf("selecting withdrawals: %w", err)
	}
	return ww, nil
}

// Process moves a pending withdrawal to status. It reports false when the
// withdrawal was not pending anymore.
func Process(ctx context.Context, db sqlx.ExtContext, id string, status Status, now time.Time) (bool, error) {
	const q = `
	UPDATE withdrawals SET status = :status, processed_at = :processed_at
	WHERE withdrawal_id = :withdrawal_id AND status = :pending`

	data := map[string]any{
		"withdrawal_id": id,
		"status":        status,
		"processed_at":  now,
		"pending":       Pending,
	}

	n, err := database.NamedExecContext(ctx, db, q, data)
	if err != nil {
		return false, fmt.Errorf("processing withdrawal[%s]: %w", id, err)
	}
	return n == 1, nil
}
