package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/irsalhamdi/eduverse/api/web"
	"github.com/irsalhamdi/eduverse/core/payment"
	"github.com/plutov/paypal/v4"
	mock "github.com/stripe/stripe-mock/param"
)

// fakeGateway stands in for the SSLCommerz session API.
type fakeGateway struct {
	mu        sync.Mutex
	checkouts []payment.Checkout
	fail      bool
}

func (g *fakeGateway) InitSession(ctx context.Context, c payment.Checkout) (payment.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.fail {
		return payment.Session{}, payment.ErrGateway
	}

	g.checkouts = append(g.checkouts, c)
	key := fmt.Sprintf("SESSION-%d", len(g.checkouts))
	return payment.Session{Key: key, GatewayURL: "https://gateway.test/pay/" + key}, nil
}

func (g *fakeGateway) Validate(ctx context.Context, valID string) (payment.Validation, error) {
	return payment.Validation{}, fmt.Errorf("remote validation is disabled in tests: %w", payment.ErrGateway)
}

type mockPaypal struct {
	mu        sync.Mutex
	orders    map[string]paypal.PurchaseUnitRequest
	captured  int
	expectAmt string
}

func (m *mockPaypal) handle() http.Handler {
	token := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tk := map[string]any{"access_token": "A21AA-test", "token_type": "Bearer", "expires_in": 32400}
		web.Respond(context.Background(), w, tk, 200)
	})

	checkout := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var pu struct {
			Units []paypal.PurchaseUnitRequest `json:"purchase_units"`
		}
		if err := json.NewDecoder(r.Body).Decode(&pu); err != nil {
			web.Respond(context.Background(), w, nil, 400)
			return
		}

		if len(pu.Units) != 1 || pu.Units[0].CustomID == "" {
			web.Respond(context.Background(), w, nil, 400)
			return
		}

		if pu.Units[0].Amount == nil || pu.Units[0].Amount.Value != m.expectAmt {
			web.Respond(context.Background(), w, nil, 400)
			return
		}

		m.mu.Lock()
		if m.orders == nil {
			m.orders = make(map[string]paypal.PurchaseUnitRequest)
		}
		id := fmt.Sprintf("paypal-%d", len(m.orders)+1)
		m.orders[id] = pu.Units[0]
		m.mu.Unlock()

		ord := paypal.Order{ID: id, Status: "CREATED"}
		web.Respond(context.Background(), w, ord, 200)
	})

	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		m.mu.Lock()
		_, ok := m.orders[id]
		if ok {
			m.captured++
		}
		m.mu.Unlock()

		if !ok {
			web.Respond(context.Background(), w, nil, 404)
			return
		}

		ord := paypal.CaptureOrderResponse{ID: id, Status: "COMPLETED"}
		web.Respond(context.Background(), w, ord, 201)
	})

	r := mux.NewRouter()
	r.Handle("/v1/oauth2/token", token).Methods("POST")
	r.Handle("/v2/checkout/orders", checkout).Methods("POST")
	r.Handle("/v2/checkout/orders/{id}/capture", capture).Methods("POST")
	return r
}

type mockStripe struct {
	mu          sync.Mutex
	expectPrice string
	references  map[string]string
}

func (m *mockStripe) handle() http.Handler {
	checkout := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params, err := mock.ParseParams(r)
		if err != nil {
			web.Respond(context.Background(), w, nil, 400)
			return
		}

		ref, _ := params["client_reference_id"].(string)
		if ref == "" {
			web.Respond(context.Background(), w, nil, 400)
			return
		}

		lines, _ := params["line_items"].(map[string]any)
		if len(lines) != 1 {
			web.Respond(context.Background(), w, nil, 400)
			return
		}

		for _, li := range lines {
			it := li.(map[string]any)
			if it["quantity"] != "1" {
				web.Respond(context.Background(), w, nil, 400)
				return
			}

			pd := it["price_data"].(map[string]any)
			if pd["unit_amount"] != m.expectPrice {
				web.Respond(context.Background(), w, nil, 400)
				return
			}
		}

		m.mu.Lock()
		if m.references == nil {
			m.references = make(map[string]string)
		}
		id := fmt.Sprintf("cs_test_%d", len(m.references)+1)
		m.references[id] = ref
		m.mu.Unlock()

		sess := map[string]any{
			"id":                  id,
			"object":              "checkout.session",
			"url":                 "https://checkout.stripe.test/" + id,
			"mode":                "payment",
			"client_reference_id": ref,
		}
		web.Respond(context.Background(), w, sess, 200)
	})

	r := mux.NewRouter()
	r.Handle("/v1/checkout/sessions", checkout).Methods("POST")
	return r
}
