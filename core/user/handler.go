package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/eduverse/api/web"
	"github.com/irsalhamdi/eduverse/api/weberr"
	"github.com/irsalhamdi/eduverse/core/claims"
	"github.com/irsalhamdi/eduverse/database"
	"github.com/irsalhamdi/eduverse/validate"
	"github.com/jmoiron/sqlx"
)

func HandleShowCurrent(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		u, err := Fetch(ctx, db, clm.UserID)
		if err != nil {
			return fmt.Errorf("fetching current user: %w", err)
		}

		return web.Respond(ctx, w, u, http.StatusOK)
	}
}

// HandleShow exposes a user to itself and to admins only.
func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")

		if err := validate.CheckID(id); err != nil {
			return weberr.NotFound(err)
		}

		if !claims.IsAdmin(ctx) && !claims.IsUser(ctx, id) {
			return weberr.Forbidden(fmt.Errorf("user[%s] is not allowed to look up user[%s]", claims.UserID(ctx), id),
				"you are not authorized to view this user")
		}

		u, err := Fetch(ctx, db, id)
		if errors.Is(err, database.ErrDBNotFound) {
			return weberr.NotFound(err)
		}
		if err != nil {
			return fmt.Errorf("fetching user: %w", err)
		}

		return web.Respond(ctx, w, u, http.StatusOK)
	}
}
