package earning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/eduverse/database"
	"github.com/irsalhamdi/eduverse/validate"
	"github.com/jmoiron/sqlx"
)

var (
	ErrInsufficientBalance = errors.New("amount exceeds the available balance")
	ErrNotPending          = errors.New("withdrawal already processed")
)

const recentLimit = 10

// Balance is what an instructor can still withdraw: every earning minus
// approved and pending withdrawals.
func Balance(ctx context.Context, db sqlx.ExtContext, instructorID string) (int, error) {
	earned, err := SumEarnings(ctx, db, instructorID)
	if err != nil {
		return 0, err
	}

	approved, err := SumWithdrawals(ctx, db, instructorID, Approved)
	if err != nil {
		return 0, err
	}

	pending, err := SumWithdrawals(ctx, db, instructorID, Pending)
	if err != nil {
		return 0, err
	}

	return earned - approved - pending, nil
}

func Summarize(ctx context.Context, db sqlx.ExtContext, instructorID string) (Summary, error) {
	earned, err := SumEarnings(ctx, db, instructorID)
	if err != nil {
		return Summary{}, err
	}

	approved, err := SumWithdrawals(ctx, db, instructorID, Approved)
	if err != nil {
		return Summary{}, err
	}

	pending, err := SumWithdrawals(ctx, db, instructorID, Pending)
	if err != nil {
		return Summary{}, err
	}

	recent, err := QueryRecent(ctx, db, instructorID, recentLimit)
	if err != nil {
		return Summary{}, err
	}

	ww, err := QueryWithdrawals(ctx, db, instructorID)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		TotalEarned:    earned,
		TotalWithdrawn: approved,
		Pending:        pending,
		Balance:        earned - approved - pending,
		Recent:         recent,
		Withdrawals:    ww,
	}, nil
}

// RequestWithdrawal appends a pending withdrawal of amount when the balance
// covers it.
func RequestWithdrawal(ctx context.Context, db *sqlx.DB, instructorID string, amount int, now time.Time) (Withdrawal, error) {
	wd := Withdrawal{
		ID:           validate.GenerateID(),
		InstructorID: instructorID,
		Amount:       amount,
		Status:       Pending,
		RequestedAt:  now,
	}

	err := database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		bal, err := Balance(ctx, tx, instructorID)
		if err != nil {
			return fmt.Errorf("computing balance: %w", err)
		}

		if amount > bal {
			return fmt.Errorf("requesting %d with balance %d: %w", amount, bal, ErrInsufficientBalance)
		}

		return CreateWithdrawal(ctx, tx, wd)
	})
	if err != nil {
		return Withdrawal{}, err
	}

	return wd, nil
}

// Decide approves or rejects a pending withdrawal.
func Decide(ctx context.Context, db sqlx.ExtContext, id string, status Status, now time.Time) (Withdrawal, error) {
	ok, err := Process(ctx, db, id, status, now)
	if err != nil {
		return Withdrawal{}, err
	}

	wd, err := FetchWithdrawal(ctx, db, id)
	if err != nil {
		return Withdrawal{}, err
	}

	if !ok {
		return wd, fmt.Errorf("withdrawal[%s] is %s: %w", id, wd.Status, ErrNotPending)
	}
	return wd, nil
}
