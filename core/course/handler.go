package course

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

// Authorize fails unless the caller owns c or is an admin.
func Authorize(ctx context.Context, c Course) error {
	if claims.IsAdmin(ctx) || claims.IsUser(ctx, c.InstructorID) {
		return nil
	}

	err := fmt.Errorf("user[%s] does not own course[%s]", claims.UserID(ctx), c.ID)
	return weberr.Forbidden(err, "only the course instructor can do this")
}

// Load fetches the course named by the path parameter, mapping a missing
// or malformed id to 404.
func Load(ctx context.Context, db sqlx.ExtContext, id string) (Course, error) {
	if err := validate.CheckID(id); err != nil {
		return Course{}, weberr.NotFound(err)
	}

	c, err := Fetch(ctx, db, id)
	if errors.Is(err, database.ErrDBNotFound) {
		return Course{}, weberr.NotFound(err)
	}
	if err != nil {
		return Course{}, fmt.Errorf("fetching course: %w", err)
	}
	return c, nil
}

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		f := Filter{
			Query:    r.URL.Query().Get("q"),
			Category: Category(r.URL.Query().Get("category")),
		}

		cc, err := Query(ctx, db, f)
		if err != nil {
			return fmt.Errorf("querying courses: %w", err)
		}

		return web.Respond(ctx, w, cc, http.StatusOK)
	}
}

func HandleCategories() web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, Categories, http.StatusOK)
	}
}

func HandleListManaged(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		cc, err := QueryByInstructor(ctx, db, claims.UserID(ctx))
		if err != nil {
			return fmt.Errorf("querying managed courses: %w", err)
		}

		return web.Respond(ctx, w, cc, http.StatusOK)
	}
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var cn CourseNew
		if err := web.Decode(w, r, &cn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(cn); err != nil {
			return weberr.InvalidInput(err)
		}

		if cn.Category == "" {
			cn.Category = Other
		}

		now := time.Now().UTC()
		c := Course{
			ID:           validate.GenerateID(),
			InstructorID: claims.UserID(ctx),
			Title:        cn.Title,
			Description:  cn.Description,
			ImageURL:     cn.ImageURL,
			Price:        cn.Price,
			Category:     cn.Category,
			CreatedAt:    now,
			UpdatedAt:    now,
			Version:      1,
		}

		if err := Create(ctx, db, c); err != nil {
			return fmt.Errorf("creating course: %w", err)
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

		var cu CourseUp
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
		if cu.Price != nil {
			c.Price = *cu.Price
		}
		if cu.ImageURL != nil {
			c.ImageURL = *cu.ImageURL
		}
		if cu.Category != nil {
			c.Category = *cu.Category
		}
		c.Version = cu.Version
		c.UpdatedAt = time.Now().UTC()

		err = Update(ctx, db, c)
		if errors.Is(err, database.ErrDBNotFound) {
			return weberr.Conflict(err)
		}
		if err != nil {
			return fmt.Errorf("updating course: %w", err)
		}
		c.Version++

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
			return fmt.Errorf("deleting course: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
