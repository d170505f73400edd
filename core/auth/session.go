// Package auth binds sessions to requests. Authentication itself is kept
// to email and password: it only exists to give requests an identity.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/eduverse/api/web"
	"github.com/irsalhamdi/eduverse/api/weberr"
	"github.com/irsalhamdi/eduverse/core/claims"
	"github.com/irsalhamdi/eduverse/core/user"
	"github.com/irsalhamdi/eduverse/database"
	"github.com/jmoiron/sqlx"
)

const sessionUserID = "userID"

// NewSession builds a session manager bound to one cookie name.
func NewSession(cookie string, lifetime time.Duration, secure bool) *scs.SessionManager {
	s := scs.New()
	s.Lifetime = lifetime
	s.Cookie.Name = cookie
	s.Cookie.HttpOnly = true
	s.Cookie.SameSite = http.SameSiteLaxMode
	s.Cookie.Secure = secure
	return s
}

// LoadAndSave adapts scs' middleware to the web.Handler chain.
func LoadAndSave(sess *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var err error

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				err = handler(r.Context(), w, r)
			})
			sess.LoadAndSave(next).ServeHTTP(w, r.WithContext(ctx))

			return err
		}
		return h
	}
	return m
}

// identify loads the session user. The role is read from the database so
// that a teacher approval takes effect on the next request.
func identify(ctx context.Context, db *sqlx.DB, sess *scs.SessionManager) (claims.Claims, error) {
	id := sess.GetString(ctx, sessionUserID)
	if id == "" {
		return claims.Claims{}, claims.ErrMissing
	}

	u, err := user.Fetch(ctx, db, id)
	if err != nil {
		return claims.Claims{}, err
	}

	return claims.Claims{UserID: u.ID, Role: u.Role}, nil
}

// Identify attaches claims when a session exists and lets anonymous
// requests through.
func Identify(db *sqlx.DB, sess *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			clm, err := identify(ctx, db, sess)
			switch {
			case err == nil:
				ctx = claims.Set(ctx, clm)
			case errors.Is(err, claims.ErrMissing), errors.Is(err, database.ErrDBNotFound):
			default:
				return fmt.Errorf("identifying session: %w", err)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

func Authenticate(db *sqlx.DB, sess *scs.SessionManager) web.Middleware {
	return require(db, sess, "", "")
}

func Instructor(db *sqlx.DB, sess *scs.SessionManager) web.Middleware {
	return require(db, sess, claims.RoleInstructor, "you must be an approved teacher to do this")
}

func Admin(db *sqlx.DB, sess *scs.SessionManager) web.Middleware {
	return require(db, sess, claims.RoleAdmin, "admin access required")
}

func require(db *sqlx.DB, sess *scs.SessionManager, role string, msg string) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			clm, err := identify(ctx, db, sess)
			if errors.Is(err, claims.ErrMissing) || errors.Is(err, database.ErrDBNotFound) {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}
			if err != nil {
				return fmt.Errorf("identifying session: %w", err)
			}

			ctx = claims.Set(ctx, clm)

			switch role {
			case claims.RoleAdmin:
				if !claims.IsAdmin(ctx) {
					return weberr.Forbidden(fmt.Errorf("user[%s] with role %s is not an admin", clm.UserID, clm.Role), msg)
				}
			case claims.RoleInstructor:
				if !claims.IsInstructor(ctx) {
					return weberr.Forbidden(fmt.Errorf("user[%s] with role %s is not an instructor", clm.UserID, clm.Role), msg)
				}
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
