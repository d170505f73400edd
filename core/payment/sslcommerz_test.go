package payment_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/irsalhamdi/eduverse/api/web"
	"github.com/irsalhamdi/eduverse/config"
	"github.com/irsalhamdi/eduverse/core/payment"
)

func signedForm(fields map[string]string, password string) url.Values {
	form := url.Values{}
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		form.Set(k, v)
		keys = append(keys, k)
	}

	form.Set("verify_key", strings.Join(keys, ","))
	form.Set("verify_sign", payment.Sign(form, keys, password))
	return form
}

func TestVerifySignature(t *testing.T) {
	const password = "qwerty"

	fields := map[string]string{
		"tran_id": "course_a_b_c",
		"amount":  "100.00",
		"status":  "VALID",
		"val_id":  "230101abc",
	}

	form := signedForm(fields, password)
	if err := payment.VerifySignature(form, password); err != nil {
		t.Fatalf("expected a valid signature, got %v", err)
	}

	upper := signedForm(fields, password)
	upper.Set("verify_sign", strings.ToUpper(upper.Get("verify_sign")))
	if err := payment.VerifySignature(upper, password); err != nil {
		t.Errorf("signature comparison should ignore case, got %v", err)
	}

	tampered := signedForm(fields, password)
	tampered.Set("amount", "1.00")
	if err := payment.VerifySignature(tampered, password); !errors.Is(err, payment.ErrBadSignature) {
		t.Errorf("expected ErrBadSignature for a tampered amount, got %v", err)
	}

	if err := payment.VerifySignature(form, "other"); !errors.Is(err, payment.ErrBadSignature) {
		t.Errorf("expected ErrBadSignature for another store password, got %v", err)
	}

	unsigned := url.Values{"tran_id": {"course_a_b_c"}}
	if err := payment.VerifySignature(unsigned, password); !errors.Is(err, payment.ErrUnsigned) {
		t.Errorf("expected ErrUnsigned, got %v", err)
	}
}

func TestVerifySignatureRequiredKeys(t *testing.T) {
	const password = "qwerty"

	form := signedForm(map[string]string{"amount": "100.00", "status": "VALID"}, password)
	form.Set("tran_id", "course_a_b_c")

	if err := payment.VerifySignature(form, password); err != nil {
		t.Fatalf("expected the listed keys to verify, got %v", err)
	}
	if err := payment.VerifySignature(form, password, payment.CallbackKeys...); !errors.Is(err, payment.ErrUnsignedKey) {
		t.Errorf("expected ErrUnsignedKey for an unsigned tran_id, got %v", err)
	}

	full := signedForm(map[string]string{"tran_id": "course_a_b_c", "amount": "100.00", "status": "VALID"}, password)
	if err := payment.VerifySignature(full, password, payment.CallbackKeys...); err != nil {
		t.Errorf("expected a fully signed callback to verify, got %v", err)
	}
}

func TestSignIgnoresUnlistedFields(t *testing.T) {
	form := url.Values{"a": {"1"}, "b": {"2"}}
	sig := payment.Sign(form, []string{"a", "b"}, "pw")

	form.Set("extra", "x")
	if got := payment.Sign(form, []string{"b", "a"}, "pw"); got != sig {
		t.Errorf("signature depends on key order or unlisted fields: %s != %s", got, sig)
	}
}

type gatewayMock struct {
	status string
	form   url.Values
}

func (m *gatewayMock) handler() http.Handler {
	session := func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		m.form = r.PostForm

		resp := map[string]string{"status": m.status}
		if m.status == "SUCCESS" {
			resp["sessionkey"] = "SESSION-1"
			resp["GatewayPageURL"] = "https://gateway.example.com/pay/SESSION-1"
		} else {
			resp["failedreason"] = "store credential error"
		}
		web.Respond(context.Background(), w, resp, http.StatusOK)
	}

	validation := func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("store_id") != "teststore" || q.Get("format") != "json" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		resp := map[string]string{
			"status":  "VALID",
			"val_id":  q.Get("val_id"),
			"tran_id": "course_x_y_z",
			"amount":  "100.00",
		}
		web.Respond(context.Background(), w, resp, http.StatusOK)
	}

	r := mux.NewRouter()
	r.HandleFunc("/gwprocess/v4/api.php", session).Methods(http.MethodPost)
	r.HandleFunc("/validator/api/validationserverAPI.php", validation).Methods(http.MethodGet)
	return r
}

func newGateway(t *testing.T, m *gatewayMock) *payment.SSLCommerz {
	srv := httptest.NewServer(m.handler())
	t.Cleanup(srv.Close)

	return payment.NewSSLCommerz(config.SSLCommerz{
		StoreID:       "teststore",
		StorePassword: "secret",
		URL:           srv.URL,
		SuccessURL:    "http://localhost/payments/success",
		FailURL:       "http://localhost/payments/fail",
		CancelURL:     "http://localhost/payments/cancel",
		Currency:      "BDT",
		Timeout:       5 * time.Second,
	})
}

func TestSSLCommerzInitSession(t *testing.T) {
	m := &gatewayMock{status: "SUCCESS"}
	gw := newGateway(t, m)

	c := payment.Checkout{
		TranID:        "course_x_y_z",
		Amount:        10000,
		Product:       payment.Product{Kind: payment.KindCourse, ID: "y", Title: "Go"},
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
	}

	sess, err := gw.InitSession(context.Background(), c)
	if err != nil {
		t.Fatalf("opening session: %v", err)
	}
	if sess.Key != "SESSION-1" || sess.GatewayURL != "https://gateway.example.com/pay/SESSION-1" {
		t.Errorf("unexpected session %+v", sess)
	}

	for k, want := range map[string]string{
		"store_id":     "teststore",
		"total_amount": "100.00",
		"currency":     "BDT",
		"tran_id":      "course_x_y_z",
		"cus_email":    "ada@example.com",
	} {
		if got := m.form.Get(k); got != want {
			t.Errorf("gateway got %s=%q, want %q", k, got, want)
		}
	}
}

func TestSSLCommerzInitSessionRefused(t *testing.T) {
	gw := newGateway(t, &gatewayMock{status: "FAILED"})

	_, err := gw.InitSession(context.Background(), payment.Checkout{TranID: "t", Amount: 100})
	if !errors.Is(err, payment.ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}
}

func TestSSLCommerzValidate(t *testing.T) {
	gw := newGateway(t, &gatewayMock{status: "SUCCESS"})

	v, err := gw.Validate(context.Background(), "VAL-1")
	if err != nil {
		t.Fatalf("validating: %v", err)
	}
	if !v.Valid() || v.TranID != "course_x_y_z" || v.ValID != "VAL-1" {
		t.Errorf("unexpected validation %+v", v)
	}
}
