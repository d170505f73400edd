package content

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/irsalhamdi/eduverse/api/web"
	"github.com/irsalhamdi/eduverse/api/weberr"
	"github.com/irsalhamdi/eduverse/core/course"
	"github.com/irsalhamdi/eduverse/core/module"
	"github.com/irsalhamdi/eduverse/validate"
	"github.com/jmoiron/sqlx"
)

func HandleCreateVideo(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		m, c, err := module.Load(ctx, db, web.Param(r, "id"))
		if err != nil {
			return err
		}

		if err := course.Authorize(ctx, c); err != nil {
			return err
		}

		var vn VideoNew
		if err := web.Decode(w, r, &vn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(vn); err != nil {
			return weberr.InvalidInput(err)
		}

		v := Video{
			ID:        validate.GenerateID(),
			ModuleID:  m.ID,
			Title:     vn.Title,
			URL:       vn.URL,
			CreatedAt: time.Now().UTC(),
		}

		if err := CreateVideo(ctx, db, v); err != nil {
			return fmt.Errorf("creating video: %w", err)
		}

		return web.Respond(ctx, w, v, http.StatusCreated)
	}
}

func HandleCreateText(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		m, c, err := module.Load(ctx, db, web.Param(r, "id"))
		if err != nil {
			return err
		}

		if err := course.Authorize(ctx, c); err != nil {
			return err
		}

		var tn TextNew
		if err := web.Decode(w, r, &tn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(tn); err != nil {
			return weberr.InvalidInput(err)
		}

		t := Text{
			ID:        validate.GenerateID(),
			ModuleID:  m.ID,
			Title:     tn.Title,
			Body:      tn.Body,
			CreatedAt: time.Now().UTC(),
		}

		if err := CreateText(ctx, db, t); err != nil {
			return fmt.Errorf("creating text: %w", err)
		}

		return web.Respond(ctx, w, t, http.StatusCreated)
	}
}
