package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/irsalhamdi/eduverse/api/web"
	"github.com/irsalhamdi/eduverse/api/weberr"
	"github.com/irsalhamdi/eduverse/config"
	"github.com/irsalhamdi/eduverse/core/claims"
	"github.com/jmoiron/sqlx"
	"github.com/stripe/stripe-go/v74"
	stripecl "github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"
)

var errStripeWebhookSecret = errors.New("stripe webhook secret not configured")

// Without a webhook secret no paid session can ever be settled, so
// checkouts are refused as well.
func stripeDisabled() error {
	return weberr.NewError(errStripeWebhookSecret, "stripe payments are not available", http.StatusServiceUnavailable)
}

func HandleStripeCheckout(db *sqlx.DB, strp *stripecl.API, cfg config.Stripe) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if cfg.WebhookSecret == "" {
			return stripeDisabled()
		}

		p, err := loadProduct(ctx, db, r)
		if err != nil {
			return err
		}

		userID := claims.UserID(ctx)

		if handled, err := precheck(ctx, w, db, userID, p); handled {
			return err
		}

		t := NewTransaction(p.Kind, userID, p.ID)

		params := &stripe.CheckoutSessionParams{
			SuccessURL:        stripe.String(cfg.SuccessURL),
			CancelURL:         stripe.String(cfg.CancelURL),
			Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
			ClientReferenceID: stripe.String(t.String()),
			LineItems: []*stripe.CheckoutSessionLineItemParams{{
				Quantity: stripe.Int64(1),

				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String("usd"),
					TaxBehavior: stripe.String("inclusive"),
					UnitAmount:  stripe.Int64(int64(p.Price)),

					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(p.Title),
						Description: stripe.String(p.Description),
					},
				},
			}},
		}
		params.Context = ctx

		s, err := strp.CheckoutSessions.New(params)
		if err != nil {
			return fmt.Errorf("creating stripe session: %w", err)
		}

		if err := record(ctx, db, t, StripeProvider, s.ID, p); err != nil {
			return err
		}

		page := Page{
			Status:      PageRedirect,
			TranID:      t.String(),
			ProductKind: p.Kind,
			ProductID:   p.ID,
			GatewayURL:  s.URL,
		}

		return web.Respond(ctx, w, page, http.StatusOK)
	}
}

// HandleStripeWebhook settles completed checkout sessions. The session's
// client reference carries the tran_id.
func HandleStripeWebhook(db *sqlx.DB, cfg config.Stripe) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		// An empty secret would accept events signed with an empty key.
		if cfg.WebhookSecret == "" {
			return weberr.BadRequest(errStripeWebhookSecret)
		}

		b, err := io.ReadAll(r.Body)
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("cannot read the request body: %w", err))
		}

		sig := r.Header.Get("Stripe-Signature")
		if sig == "" {
			return weberr.BadRequest(errors.New("received stripe event is not signed"))
		}

		event, err := webhook.ConstructEvent(b, sig, cfg.WebhookSecret)
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("cannot construct stripe event: %w", err))
		}

		if event.Type != "checkout.session.completed" {
			return web.Respond(ctx, w, nil, http.StatusNoContent)
		}

		var session stripe.CheckoutSession
		if err = json.Unmarshal(event.Data.Raw, &session); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode stripe event: %w", err))
		}

		if session.Mode != stripe.CheckoutSessionModePayment {
			return web.Respond(ctx, w, nil, http.StatusNoContent)
		}

		if session.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
			return web.Respond(ctx, w, nil, http.StatusNoContent)
		}

		if _, err := Settle(ctx, db, session.ClientReferenceID, time.Now().UTC()); err != nil {
			if errors.Is(err, ErrInvalidTransaction) {
				return invalid(err)
			}
			return fmt.Errorf("the session[%s] was paid but its settlement failed: %w", session.ID, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
