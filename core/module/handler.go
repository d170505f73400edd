package module

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/irsalhamdi/eduverse/api/web"
	"github.com/irsalhamdi/eduverse/api/weberr"
	"github.com/irsalhamdi/eduverse/core/course"
	"github.com/irsalhamdi/eduverse/database"
	"github.com/irsalhamdi/eduverse/validate"
	"github.com/jmoiron/sqlx"
)

// Load fetches a module and the course owning it.
func Load(ctx context.Context, db sqlx.ExtContext, id string) (Module, course.Course, error) {
	if err := validate.CheckID(id); err != nil {
		return Module{}, course.Course{}, weberr.NotFound(err)
	}

	m, err := Fetch(ctx, db, id)
	if errors.Is(err, database.ErrDBNotFound) {
		return Module{}, course.Course{}, weberr.NotFound(err)
	}
	if err != nil {
		return Module{}, course.Course{}, fmt.Errorf("fetching module: %w", err)
	}

	c, err := course.Fetch(ctx, db, m.CourseID)
	if err != nil {
		return Module{}, course.Course{}, fmt.Errorf("fetching course of module[%s]: %w", m.ID, err)
	}

	return m, c, nil
}

func HandleCreate(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := course.Load(ctx, db, web.Param(r, "id"))
		if err != nil {
			return err
		}

		if err := course.Authorize(ctx, c); err != nil {
			return err
		}

		var mn ModuleNew
		if err := web.Decode(w, r, &mn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(mn); err != nil {
			return weberr.InvalidInput(err)
		}

		m := Module{
			ID:          validate.GenerateID(),
			CourseID:    c.ID,
			Title:       mn.Title,
			Description: mn.Description,
			Position:    mn.Position,
			CreatedAt:   time.Now().UTC(),
		}

		if err := Create(ctx, db, m); err != nil {
			return fmt.Errorf("creating module: %w", err)
		}

		return web.Respond(ctx, w, m, http.StatusCreated)
	}
}

func HandleList(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := course.Load(ctx, db, web.Param(r, "id"))
		if err != nil {
			return err
		}

		mm, err := QueryByCourse(ctx, db, c.ID)
		if err != nil {
			return fmt.Errorf("querying modules: %w", err)
		}

		return web.Respond(ctx, w, mm, http.StatusOK)
	}
}
