package teacher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/eduverse/core/claims"
	"github.com/irsalhamdi/eduverse/core/user"
	"github.com/irsalhamdi/eduverse/database"
	"github.com/irsalhamdi/eduverse/validate"
	"github.com/jmoiron/sqlx"
)

var (
	ErrAlreadyPending  = errors.New("an application is already waiting for review")
	ErrAlreadyTeaching = errors.New("user is already an instructor")
	ErrNotPending      = errors.New("application already processed")
)

// Submit files a new application for u unless one is still pending.
func Submit(ctx context.Context, db *sqlx.DB, u user.User, an ApplicationNew, now time.Time) (Application, error) {
	if u.Role == claims.RoleInstructor || u.Role == claims.RoleAdmin {
		return Application{}, ErrAlreadyTeaching
	}

	a := Application{
		ID:              validate.GenerateID(),
		UserID:          u.ID,
		FullName:        an.FullName,
		Email:           an.Email,
		Expertise:       an.Expertise,
		YearsExperience: an.YearsExperience,
		Bio:             an.Bio,
		LinkedinURL:     an.LinkedinURL,
		Status:          Pending,
		SubmittedAt:     now,
	}

	err := database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		latest, err := FetchLatest(ctx, tx, u.ID)
		switch {
		case errors.Is(err, database.ErrDBNotFound):
		case err != nil:
			return err
		case latest.Status == Pending:
			return ErrAlreadyPending
		}

		return Create(ctx, tx, a)
	})
	if err != nil {
		return Application{}, err
	}

	return a, nil
}

// Decide approves or rejects a pending application. Approval promotes the
// applicant to instructor in the same transaction.
func Decide(ctx context.Context, db *sqlx.DB, id string, status Status, now time.Time) (Application, error) {
	var a Application

	err := database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		ok, err := Process(ctx, tx, id, status, now)
		if err != nil {
			return err
		}

		a, err = Fetch(ctx, tx, id)
		if err != nil {
			return err
		}

		if !ok {
			return fmt.Errorf("application[%s] is %s: %w", id, a.Status, ErrNotPending)
		}

		if status != Approved {
			return nil
		}

		return user.UpdateRole(ctx, tx, a.UserID, claims.RoleInstructor, now)
	})
	if err != nil {
		return Application{}, err
	}

	return a, nil
}
