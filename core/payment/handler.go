package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/irsalhamdi/eduverse/api/web"
	"github.com/irsalhamdi/eduverse/api/weberr"
	"github.com/irsalhamdi/eduverse/config"
	"github.com/irsalhamdi/eduverse/core/claims"
	"github.com/irsalhamdi/eduverse/core/user"
	"github.com/irsalhamdi/eduverse/database"
	"github.com/irsalhamdi/eduverse/validate"
	"github.com/jmoiron/sqlx"
)

// Page is the outcome shown to the buyer after a payment step.
type Page struct {
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	TranID       string `json:"tranId,omitempty"`
	ProductKind  Kind   `json:"productKind,omitempty"`
	ProductID    string `json:"productId,omitempty"`
	EnrollmentID string `json:"enrollmentId,omitempty"`
	GatewayURL   string `json:"gatewayUrl,omitempty"`
	OrderID      string `json:"orderId,omitempty"`
}

const (
	PageRedirect = "redirect"
	PageEnrolled = "enrolled"
	PageSuccess  = "success"
	PageFailed   = "failed"
)

func invalid(err error) error {
	return weberr.NewError(err, "invalid transaction", http.StatusBadRequest)
}

func successPage(s Settlement) Page {
	msg := "payment successful, you are now enrolled"
	if !s.Created {
		msg = "you were already enrolled"
	}

	return Page{
		Status:       PageSuccess,
		Message:      msg,
		TranID:       s.Transaction.String(),
		ProductKind:  s.Product.Kind,
		ProductID:    s.Product.ID,
		EnrollmentID: s.EnrollmentID,
	}
}

// loadProduct reads the product named by the kind and id path parameters.
func loadProduct(ctx context.Context, db sqlx.ExtContext, r *http.Request) (Product, error) {
	kind, err := ParseKind(web.Param(r, "kind"))
	if err != nil {
		return Product{}, weberr.NotFound(err)
	}

	id := web.Param(r, "id")
	if err := validate.CheckID(id); err != nil {
		return Product{}, weberr.NotFound(err)
	}

	p, err := FetchProduct(ctx, db, kind, id)
	if errors.Is(err, database.ErrDBNotFound) {
		return Product{}, weberr.NotFound(err)
	}
	if err != nil {
		return Product{}, fmt.Errorf("fetching product: %w", err)
	}
	return p, nil
}

// precheck answers checkouts that need no gateway: products the caller
// already owns and free ones, which are settled on the spot.
func precheck(ctx context.Context, w http.ResponseWriter, db *sqlx.DB, userID string, p Product) (bool, error) {
	enrolled, err := Enrolled(ctx, db, userID, p)
	if err != nil {
		return true, fmt.Errorf("checking enrollment: %w", err)
	}

	if enrolled {
		page := Page{Status: PageEnrolled, Message: "you are already enrolled", ProductKind: p.Kind, ProductID: p.ID}
		return true, web.Respond(ctx, w, page, http.StatusOK)
	}

	if p.Price > 0 {
		return false, nil
	}

	t := NewTransaction(p.Kind, userID, p.ID)
	s, err := Settle(ctx, db, t.String(), time.Now().UTC())
	if err != nil {
		return true, fmt.Errorf("enrolling for free: %w", err)
	}

	page := successPage(s)
	page.Status = PageEnrolled
	return true, web.Respond(ctx, w, page, http.StatusOK)
}

func record(ctx context.Context, db sqlx.ExtContext, t Transaction, provider Provider, ref string, p Product) error {
	now := time.Now().UTC()
	pay := Payment{
		ID:          validate.GenerateID(),
		TranID:      t.String(),
		Provider:    provider,
		ProviderRef: ref,
		UserID:      t.UserID,
		ProductKind: p.Kind,
		ProductID:   p.ID,
		Amount:      p.Price,
		Status:      Pending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := Create(ctx, db, pay); err != nil {
		return fmt.Errorf("recording %s checkout: %w", provider, err)
	}
	return nil
}

// HandleInitiate opens a hosted checkout session for the product.
func HandleInitiate(db *sqlx.DB, gw Gateway) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		p, err := loadProduct(ctx, db, r)
		if err != nil {
			return err
		}

		userID := claims.UserID(ctx)

		if handled, err := precheck(ctx, w, db, userID, p); handled {
			return err
		}

		u, err := user.Fetch(ctx, db, userID)
		if err != nil {
			return fmt.Errorf("fetching buyer: %w", err)
		}

		t := NewTransaction(p.Kind, u.ID, p.ID)

		sess, err := gw.InitSession(ctx, Checkout{
			TranID:        t.String(),
			Amount:        p.Price,
			Product:       p,
			CustomerName:  u.Name,
			CustomerEmail: u.Email,
		})
		if err != nil {
			return weberr.NewError(err, "the payment gateway is unavailable, try again later", http.StatusBadGateway)
		}

		if err := record(ctx, db, t, SSLCommerzProvider, sess.Key, p); err != nil {
			return err
		}

		page := Page{
			Status:      PageRedirect,
			TranID:      t.String(),
			ProductKind: p.Kind,
			ProductID:   p.ID,
			GatewayURL:  sess.GatewayURL,
		}

		return web.Respond(ctx, w, page, http.StatusOK)
	}
}

// HandleSuccess receives the gateway's success callback. Anything that
// does not check out is answered as an invalid transaction and nothing is
// written.
func HandleSuccess(db *sqlx.DB, gw Gateway, cfg config.SSLCommerz) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := web.DecodeForm(w, r); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode form: %w", err))
		}
		form := r.PostForm

		if err := VerifySignature(form, cfg.StorePassword, CallbackKeys...); err != nil {
			return invalid(err)
		}

		switch form.Get("status") {
		case "VALID", "VALIDATED":
		default:
			return invalid(fmt.Errorf("callback status %q", form.Get("status")))
		}

		tranID := form.Get("tran_id")

		if _, _, err := Resolve(ctx, db, tranID); err != nil {
			if errors.Is(err, ErrInvalidTransaction) {
				return invalid(err)
			}
			return fmt.Errorf("resolving transaction: %w", err)
		}

		// The amount is checked against what initiate billed, the price may
		// have changed since.
		intent, err := FetchByTranID(ctx, db, tranID)
		if errors.Is(err, database.ErrDBNotFound) {
			return invalid(fmt.Errorf("tran_id %q was never initiated", tranID))
		}
		if err != nil {
			return fmt.Errorf("fetching payment: %w", err)
		}
		if intent.Provider != SSLCommerzProvider {
			return invalid(fmt.Errorf("tran_id %q belongs to %s", tranID, intent.Provider))
		}

		paid, err := ParseAmount(form.Get("amount"))
		if err != nil {
			return invalid(err)
		}
		if paid != intent.Amount {
			return invalid(fmt.Errorf("paid %d for a checkout of %d", paid, intent.Amount))
		}

		if cfg.ValidateRemote {
			v, err := gw.Validate(ctx, form.Get("val_id"))
			if err != nil {
				return weberr.NewError(err, "the payment gateway is unavailable, try again later", http.StatusBadGateway)
			}
			if !v.Valid() || v.TranID != tranID {
				return invalid(fmt.Errorf("gateway reports %q for %q", v.Status, v.TranID))
			}
			if amt, err := ParseAmount(v.Amount); err != nil || amt != intent.Amount {
				return invalid(fmt.Errorf("gateway validated %q for a checkout of %d", v.Amount, intent.Amount))
			}
		}

		s, err := Settle(ctx, db, tranID, time.Now().UTC())
		if errors.Is(err, ErrInvalidTransaction) {
			return invalid(err)
		}
		if err != nil {
			return fmt.Errorf("settling payment: %w", err)
		}

		return web.Respond(ctx, w, successPage(s), http.StatusOK)
	}
}

// HandleFailure answers the fail and cancel callbacks without touching
// any state.
func HandleFailure(msg string) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := web.DecodeForm(w, r); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode form: %w", err))
		}

		page := Page{
			Status:  PageFailed,
			Message: msg,
			TranID:  r.PostForm.Get("tran_id"),
		}

		return web.Respond(ctx, w, page, http.StatusOK)
	}
}
