package earning

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/irsalhamdi/eduverse/api/web"
	"github.com/irsalhamdi/eduverse/api/weberr"
	"github.com/irsalhamdi/eduverse/core/claims"
	"github.com/irsalhamdi/eduverse/database"
	"github.com/irsalhamdi/eduverse/validate"
	"github.com/jmoiron/sqlx"
)

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		s, err := Summarize(ctx, db, claims.UserID(ctx))
		if err != nil {
			return fmt.Errorf("summarizing earnings: %w", err)
		}

		return web.Respond(ctx, w, s, http.StatusOK)
	}
}

func HandleRequestWithdrawal(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var wn WithdrawalNew
		if err := web.Decode(w, r, &wn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(wn); err != nil {
			return weberr.InvalidInput(err)
		}

		wd, err := RequestWithdrawal(ctx, db, claims.UserID(ctx), wn.Amount, time.Now().UTC())
		if errors.Is(err, ErrInsufficientBalance) {
			return weberr.Unprocessable(ErrInsufficientBalance)
		}
		if err != nil {
			return fmt.Errorf("requesting withdrawal: %w", err)
		}

		return web.Respond(ctx, w, wd, http.StatusCreated)
	}
}

func HandleListWithdrawals(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		status := Status(r.URL.Query().Get("status"))
		switch status {
		case "", Pending, Approved, Rejected:
		default:
			return weberr.InvalidInput(fmt.Errorf("unknown status %q", status))
		}

		ww, err := QueryWithdrawalsByStatus(ctx, db, status)
		if err != nil {
			return fmt.Errorf("querying withdrawals: %w", err)
		}

		return web.Respond(ctx, w, ww, http.StatusOK)
	}
}

// HandleDecide serves the admin approve and reject actions.
func HandleDecide(db *sqlx.DB, status Status) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NotFound(err)
		}

		wd, err := Decide(ctx, db, id, status, time.Now().UTC())
		switch {
		case errors.Is(err, database.ErrDBNotFound):
			return weberr.NotFound(err)
		case errors.Is(err, ErrNotPending):
			return weberr.NewError(err, ErrNotPending.Error(), http.StatusConflict)
		case err != nil:
			return fmt.Errorf("processing withdrawal: %w", err)
		}

		return web.Respond(ctx, w, wd, http.StatusOK)
	}
}
