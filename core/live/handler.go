package live

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

func Authorize(ctx context.Context, c Class) error {
	if claims.IsAdmin(ctx) || claims.IsUser(ctx, c.InstructorID) {
		return nil
	}

	err := fmt.Errorf("user[%s] does not own live class[%s]", claims.UserID(ctx), c.ID)
	return weberr.Forbidden(err, "only the class instructor can do this")
}

func Load(ctx context.Context, db sqlx.ExtContext, id string) (Class, error) {
	if err := validate.CheckID(id); err != nil {
		return Class{}, weberr.NotFound(err)
	}

	c, err := Fetch(ctx, db, id)
	if errors.Is(err, database.ErrDBNotFound) {
		return Class{}, weberr.NotFound(err)
	}
	if err != nil {
		return Class{}, fmt.Errorf("fetching live class: %w", err)
	}
	return c, nil
}

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cc, err := Query(ctx, db, r.URL.Query().Get("q"))
		if err != nil {
			return fmt.Errorf("querying live classes: %w", err)
		}

		return web.Respond(ctx, w, cc, http.StatusOK)
	}
}

func HandleListManaged(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cc, err := QueryByInstructor(ctx, db, claims.UserID(ctx))
		if err != nil {
			return fmt.Errorf("querying managed live classes: %w", err)
		}

		return web.Respond(ctx, w, cc, http.StatusOK)
	}
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var cn ClassNew
		if err := web.Decode(w, r, &cn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(cn); err != nil {
			return weberr.InvalidInput(err)
		}

		now := time.Now().UTC()
		c := Class{
			ID:           validate.GenerateID(),
			InstructorID: claims.UserID(ctx),
			Title:        cn.Title,
			Description:  cn.Description,
			ImageURL:     cn.ImageURL,
			Price:        cn.Price,
			StartTime:    cn.StartTime.UTC(),
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := Create(ctx, db, c); err != nil {
			return fmt.Errorf("creating live class: %w", err)
		}

		return web.Respond(ctx, w, c, http.StatusCreated)
	}
}

func HandleUpdate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := Load(ctx, db, web.Param(r, "id"))
		if err != nil {
			return err
		}

		if err := Authorize(ctx, c); err != nil {
			return err
		}

		var cu ClassUp
		if err := web.Decode(w, r, &cu); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(cu); err != nil {
			return weberr.InvalidInput(err)
		}

		if cu.Title != nil {
			c.Title = *cu.Title
		}
		if cu.Description != nil {
			c.Description = *cu.Description
		}
		if cu.ImageURL != nil {
			c.ImageURL = *cu.ImageURL
		}
		if cu.Price != nil {
			c.Price = *cu.Price
		}
		if cu.StartTime != nil {
			c.StartTime = cu.StartTime.UTC()
		}
		c.UpdatedAt = time.Now().UTC()

		if err := Update(ctx, db, c); err != nil {
			return fmt.Errorf("updating live class: %w", err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleDelete(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := Load(ctx, db, web.Param(r, "id"))
		if err != nil {
			return err
		}

		if err := Authorize(ctx, c); err != nil {
			return err
		}

		if err := Delete(ctx, db, c.ID); err != nil {
			return fmt.Errorf("deleting live class: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
