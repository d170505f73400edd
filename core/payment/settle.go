package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/eduverse/core/earning"
	"github.com/irsalhamdi/eduverse/core/enrollment"
	"github.com/irsalhamdi/eduverse/core/user"
	"github.com/irsalhamdi/eduverse/database"
	"github.com/irsalhamdi/eduverse/validate"
	"github.com/jmoiron/sqlx"
)

// Settlement describes the outcome of a successful payment.
type Settlement struct {
	Transaction  Transaction
	Product      Product
	EnrollmentID string
	Created      bool
	Paid         int
	Share        int
	Fee          int
}

// Resolve decodes tranID and loads the buyer and the product it names.
func Resolve(ctx context.Context, db sqlx.ExtContext, tranID string) (Transaction, Product, error) {
	t, err := ParseTransaction(tranID)
	if err != nil {
		return Transaction{}, Product{}, err
	}

	if _, err := user.Fetch(ctx, db, t.UserID); err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return Transaction{}, Product{}, fmt.Errorf("tran_id %q: unknown user: %w", tranID, ErrInvalidTransaction)
		}
		return Transaction{}, Product{}, fmt.Errorf("fetching buyer: %w", err)
	}

	p, err := FetchProduct(ctx, db, t.Kind, t.ProductID)
	if err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return Transaction{}, Product{}, fmt.Errorf("tran_id %q: unknown %s: %w", tranID, t.Kind, ErrInvalidTransaction)
		}
		return Transaction{}, Product{}, fmt.Errorf("fetching product: %w", err)
	}

	return t, p, nil
}

// Settle enrolls the buyer of tranID. The enrollment, the instructor
// earning and the payment status are written in one transaction, and only
// when the enrollment did not exist yet: delivering the same or another
// success for an existing enrollment changes nothing. The split is taken
// from the amount recorded at checkout, or the current price when there
// was no checkout.
func Settle(ctx context.Context, db *sqlx.DB, tranID string, now time.Time) (Settlement, error) {
	t, p, err := Resolve(ctx, db, tranID)
	if err != nil {
		return Settlement{}, err
	}

	s := Settlement{Transaction: t, Product: p, Paid: p.Price}

	intent, err := FetchByTranID(ctx, db, tranID)
	switch {
	case err == nil:
		s.Paid = intent.Amount
	case !errors.Is(err, database.ErrDBNotFound):
		return Settlement{}, fmt.Errorf("fetching payment: %w", err)
	}
	s.Share, s.Fee = Split(s.Paid)

	err = database.Transaction(ctx, db, func(tx sqlx.ExtContext) error {
		id, created, err := enroll(ctx, tx, t, p, s.Paid, s.Share, s.Fee, now)
		if err != nil {
			return err
		}

		s.EnrollmentID = id
		s.Created = created
		if !created {
			return nil
		}

		if s.Share > 0 {
			e := earning.Earning{
				ID:           validate.GenerateID(),
				InstructorID: p.InstructorID,
				Amount:       s.Share,
				SourceKind:   earning.SourceKind(p.Kind),
				EnrollmentID: id,
				CreatedAt:    now,
			}
			if _, err := earning.Create(ctx, tx, e); err != nil {
				return fmt.Errorf("crediting instructor: %w", err)
			}
		}

		return MarkSucceeded(ctx, tx, tranID, now)
	})
	if err != nil {
		return Settlement{}, fmt.Errorf("settling %s: %w", tranID, err)
	}

	return s, nil
}

func enroll(ctx context.Context, tx sqlx.ExtContext, t Transaction, p Product, paid, share, fee int, now time.Time) (string, bool, error) {
	switch p.Kind {
	case KindCourse:
		e := enrollment.Enrollment{
			ID:              validate.GenerateID(),
			UserID:          t.UserID,
			CourseID:        p.ID,
			AmountPaid:      paid,
			InstructorShare: share,
			PlatformFee:     fee,
			EnrolledAt:      now,
		}

		created, err := enrollment.CreateCourse(ctx, tx, e)
		if err != nil {
			return "", false, err
		}
		if created {
			return e.ID, true, nil
		}

		existing, err := enrollment.FetchCourse(ctx, tx, t.UserID, p.ID)
		if err != nil {
			return "", false, err
		}
		return existing.ID, false, nil

	case KindLive:
		e := enrollment.LiveEnrollment{
			ID:              validate.GenerateID(),
			UserID:          t.UserID,
			LiveClassID:     p.ID,
			AmountPaid:      paid,
			InstructorShare: share,
			PlatformFee:     fee,
			EnrolledAt:      now,
		}

		created, err := enrollment.CreateLive(ctx, tx, e)
		if err != nil {
			return "", false, err
		}
		if created {
			return e.ID, true, nil
		}

		existing, err := enrollment.FetchLive(ctx, tx, t.UserID, p.ID)
		if err != nil {
			return "", false, err
		}
		return existing.ID, false, nil
	}

	return "", false, fmt.Errorf("enrolling in unknown kind %q", p.Kind)
}

// Enrolled reports whether userID already holds an enrollment for p.
func Enrolled(ctx context.Context, db sqlx.ExtContext, userID string, p Product) (bool, error) {
	switch p.Kind {
	case KindCourse:
		return enrollment.InCourse(ctx, db, userID, p.ID)
	case KindLive:
		return enrollment.InLive(ctx, db, userID, p.ID)
	}
	return false, fmt.Errorf("unknown kind %q", p.Kind)
}
