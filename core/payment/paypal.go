package payment

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
	"github.com/jmoiron/sqlx"
	"github.com/plutov/paypal/v4"
)

var errPaypalDisabled = errors.New("paypal client not configured")

func paypalDisabled() error {
	return weberr.NewError(errPaypalDisabled, "paypal payments are not available", http.StatusServiceUnavailable)
}

func HandlePaypalCheckout(db *sqlx.DB, pp *paypal.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if pp == nil {
			return paypalDisabled()
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
		amount := FormatAmount(p.Price)

		units := []paypal.PurchaseUnitRequest{{
			ReferenceID: p.ID,
			CustomID:    t.String(),
			Description: p.Title,

			Items: []paypal.Item{{
				Quantity:    "1",
				Name:        p.Title,
				Description: p.Description,

				UnitAmount: &paypal.Money{
					Currency: "USD",
					Value:    amount,
				},
			}},

			Amount: &paypal.PurchaseUnitAmount{
				Currency: "USD",
				Value:    amount,

				Breakdown: &paypal.PurchaseUnitAmountBreakdown{ItemTotal: &paypal.Money{
					Currency: "USD",
					Value:    amount,
				}},
			},
		}}

		ord, err := pp.CreateOrder(ctx, "CAPTURE", units, nil, &paypal.ApplicationContext{})
		if err != nil {
			return fmt.Errorf("creating paypal order: %w", err)
		}

		if err := record(ctx, db, t, PaypalProvider, ord.ID, p); err != nil {
			return err
		}

		page := Page{
			Status:      PageRedirect,
			TranID:      t.String(),
			ProductKind: p.Kind,
			ProductID:   p.ID,
			OrderID:     ord.ID,
		}

		return web.Respond(ctx, w, page, http.StatusOK)
	}
}

// HandlePaypalCapture captures an approved order and settles the checkout
// it was created for.
func HandlePaypalCapture(db *sqlx.DB, pp *paypal.Client) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if pp == nil {
			return paypalDisabled()
		}

		orderID := web.Param(r, "orderID")

		pay, err := FetchByProviderRef(ctx, db, PaypalProvider, orderID)
		if errors.Is(err, database.ErrDBNotFound) {
			return weberr.NotFound(err)
		}
		if err != nil {
			return fmt.Errorf("fetching checkout: %w", err)
		}

		if !claims.IsUser(ctx, pay.UserID) {
			err := fmt.Errorf("user[%s] cannot capture the order[%s] of user[%s]", claims.UserID(ctx), orderID, pay.UserID)
			return weberr.Forbidden(err, "this order belongs to someone else")
		}

		if pay.Status != Success {
			resp, err := pp.CaptureOrder(ctx, orderID, paypal.CaptureOrderRequest{})
			if err != nil {
				return fmt.Errorf("capturing paypal order[%s]: %w", orderID, err)
			}

			if resp.Status != "COMPLETED" {
				err := fmt.Errorf("captured order[%s] with status[%s] different from 'COMPLETED'", orderID, resp.Status)
				return weberr.NewError(err, "the payment was not completed", http.StatusUnprocessableEntity)
			}
		}

		s, err := Settle(ctx, db, pay.TranID, time.Now().UTC())
		if errors.Is(err, ErrInvalidTransaction) {
			return invalid(err)
		}
		if err != nil {
			return fmt.Errorf("the order[%s] was paid but its settlement failed: %w", orderID, err)
		}

		return web.Respond(ctx, w, successPage(s), http.StatusOK)
	}
}
