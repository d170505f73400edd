package messaging

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/irsalhamdi/eduverse/api/background"
	"github.com/irsalhamdi/eduverse/api/web"
	"github.com/irsalhamdi/eduverse/api/weberr"
	"github.com/irsalhamdi/eduverse/core/claims"
	"github.com/irsalhamdi/eduverse/core/enrollment"
	"github.com/irsalhamdi/eduverse/core/live"
	"github.com/irsalhamdi/eduverse/database"
	"github.com/irsalhamdi/eduverse/validate"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

func HandleStart(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := live.Load(ctx, db, web.Param(r, "id"))
		if err != nil {
			return err
		}

		userID := claims.UserID(ctx)

		enrolled, err := enrollment.InLive(ctx, db, userID, c.ID)
		if err != nil {
			return fmt.Errorf("checking live enrollment: %w", err)
		}
		if !enrolled {
			err := fmt.Errorf("user[%s] is not enrolled in live class[%s]", userID, c.ID)
			return weberr.Forbidden(err, "you must enroll in this class before messaging the instructor")
		}

		conv, created, err := Start(ctx, db, c, userID, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("starting conversation: %w", err)
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		return web.Respond(ctx, w, conv, status)
	}
}

func HandleInbox(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		ee, err := QueryInbox(ctx, db, claims.UserID(ctx))
		if err != nil {
			return fmt.Errorf("querying inbox: %w", err)
		}

		return web.Respond(ctx, w, ee, http.StatusOK)
	}
}

func HandleShow(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		conv, err := load(ctx, db, web.Param(r, "id"))
		if err != nil {
			return err
		}

		userID := claims.UserID(ctx)

		if _, err := MarkRead(ctx, db, conv.ID, userID); err != nil {
			return err
		}

		mm, err := QueryMessages(ctx, db, conv.ID)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, Thread{Conversation: conv, Messages: mm}, http.StatusOK)
	}
}

func HandleSend(db *sqlx.DB, bg *background.Background, n Notifier, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		conv, err := load(ctx, db, web.Param(r, "id"))
		if err != nil {
			return err
		}

		var mn MessageNew
		if err := web.Decode(w, r, &mn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(mn); err != nil {
			return weberr.InvalidInput(err)
		}

		msg, first, err := Send(ctx, db, conv, claims.UserID(ctx), mn.Content, time.Now().UTC())
		if err != nil {
			return err
		}

		if first && n != nil {
			err := bg.Run("first-message-notice", func(ctx context.Context) error {
				return n.FirstMessage(ctx, conv, msg)
			})
			if err != nil {
				log.WithField("conversation_id", conv.ID).Warnf("first message notice not scheduled: %v", err)
			}
		}

		return web.Respond(ctx, w, msg, http.StatusCreated)
	}
}

// load fetches a conversation the caller takes part in.
func load(ctx context.Context, db *sqlx.DB, id string) (Conversation, error) {
	if err := validate.CheckID(id); err != nil {
		return Conversation{}, weberr.NotFound(err)
	}

	conv, err := Fetch(ctx, db, id)
	if errors.Is(err, database.ErrDBNotFound) {
		return Conversation{}, weberr.NotFound(err)
	}
	if err != nil {
		return Conversation{}, err
	}

	userID := claims.UserID(ctx)
	if !conv.HasParticipant(userID) {
		err := fmt.Errorf("user[%s] is not part of conversation[%s]", userID, conv.ID)
		return Conversation{}, weberr.Forbidden(err, "you are not part of this conversation")
	}

	return conv, nil
}
