package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/eduverse/api/web"
	"github.com/irsalhamdi/eduverse/api/weberr"
	"github.com/irsalhamdi/eduverse/core/claims"
	"github.com/irsalhamdi/eduverse/core/user"
	"github.com/irsalhamdi/eduverse/database"
	"github.com/irsalhamdi/eduverse/validate"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

var errBadCredentials = errors.New("email or password is incorrect")

// NewUser hashes the password and returns a user ready to be stored.
func NewUser(name, email, password, role string, now time.Time) (user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hashing password: %w", err)
	}

	return user.User{
		ID:           validate.GenerateID(),
		Name:         name,
		Email:        strings.ToLower(email),
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func HandleSignup(db *sqlx.DB, sess *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in user.UserSignup
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.InvalidInput(err)
		}

		u, err := NewUser(in.Name, in.Email, in.Password, claims.RoleUser, time.Now().UTC())
		if err != nil {
			return err
		}

		err = user.Create(ctx, db, u)
		if errors.Is(err, database.ErrDBDuplicatedEntry) {
			return weberr.NewError(err, "email already taken", http.StatusConflict)
		}
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}

		if err := login(ctx, sess, u.ID); err != nil {
			return err
		}

		return web.Respond(ctx, w, u, http.StatusCreated)
	}
}

// HandleLogin starts a session. When roles are given the user must hold
// one of them, the admin site uses this to keep regular users out.
func HandleLogin(db *sqlx.DB, sess *scs.SessionManager, roles ...string) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in user.UserLogin
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.InvalidInput(err)
		}

		u, err := user.FetchByEmail(ctx, db, strings.ToLower(in.Email))
		if errors.Is(err, database.ErrDBNotFound) {
			return weberr.NewError(err, errBadCredentials.Error(), http.StatusUnauthorized)
		}
		if err != nil {
			return fmt.Errorf("fetching user: %w", err)
		}

		if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(in.Password)); err != nil {
			return weberr.NewError(err, errBadCredentials.Error(), http.StatusUnauthorized)
		}

		if len(roles) > 0 && !hasRole(u.Role, roles) {
			err := fmt.Errorf("user[%s] with role %s cannot log in here", u.ID, u.Role)
			return weberr.Forbidden(err, "this account cannot sign in here")
		}

		if err := login(ctx, sess, u.ID); err != nil {
			return err
		}

		return web.Respond(ctx, w, u, http.StatusOK)
	}
}

func HandleLogout(sess *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := sess.Destroy(ctx); err != nil {
			return fmt.Errorf("destroying session: %w", err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func login(ctx context.Context, sess *scs.SessionManager, userID string) error {
	if err := sess.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	sess.Put(ctx, sessionUserID, userID)
	return nil
}

func hasRole(role string, roles []string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
