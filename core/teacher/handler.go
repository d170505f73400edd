package teacher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/irsalhamdi/eduverse/api/web"
	"github.com/irsalhamdi/eduverse/api/weberr"
	"github.com/irsalhamdi/eduverse/core/claims"
	"github.com/irsalhamdi/eduverse/core/user"
	"github.com/irsalhamdi/eduverse/database"
	"github.com/irsalhamdi/eduverse/validate"
	"github.com/jmoiron/sqlx"
)

func HandleSubmit(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var an ApplicationNew
		if err := web.Decode(w, r, &an); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(an); err != nil {
			return weberr.InvalidInput(err)
		}

		u, err := user.Fetch(ctx, db, claims.UserID(ctx))
		if err != nil {
			return fmt.Errorf("fetching applicant: %w", err)
		}

		a, err := Submit(ctx, db, u, an, time.Now().UTC())
		switch {
		case errors.Is(err, ErrAlreadyPending), errors.Is(err, ErrAlreadyTeaching):
			return weberr.NewError(err, err.Error(), http.StatusConflict)
		case err != nil:
			return fmt.Errorf("submitting teacher application: %w", err)
		}

		return web.Respond(ctx, w, a, http.StatusCreated)
	}
}

func HandleLatest(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		a, err := FetchLatest(ctx, db, claims.UserID(ctx))
		if errors.Is(err, database.ErrDBNotFound) {
			return weberr.NotFound(err)
		}
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, a, http.StatusOK)
	}
}

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		status := Status(r.URL.Query().Get("status"))
		if status != "" && !status.Valid() {
			return weberr.InvalidInput(fmt.Errorf("unknown status %q", status))
		}

		aa, err := QueryByStatus(ctx, db, status)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, aa, http.StatusOK)
	}
}

// HandleDecide serves the admin approve and reject actions.
func HandleDecide(db *sqlx.DB, status Status) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NotFound(err)
		}

		a, err := Decide(ctx, db, id, status, time.Now().UTC())
		switch {
		case errors.Is(err, database.ErrDBNotFound):
			return weberr.NotFound(err)
		case errors.Is(err, ErrNotPending):
			return weberr.NewError(err, ErrNotPending.Error(), http.StatusConflict)
		case err != nil:
			return fmt.Errorf("processing teacher application: %w", err)
		}

		return web.Respond(ctx, w, a, http.StatusOK)
	}
}
