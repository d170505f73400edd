package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/irsalhamdi/eduverse/api"
	"github.com/irsalhamdi/eduverse/api/background"
	"github.com/irsalhamdi/eduverse/config"
	"github.com/irsalhamdi/eduverse/core/auth"
	"github.com/irsalhamdi/eduverse/core/coretest"
	"github.com/irsalhamdi/eduverse/core/messaging"
	"github.com/irsalhamdi/eduverse/core/user"
	"github.com/irsalhamdi/eduverse/database/dbtest"
	"github.com/irsalhamdi/eduverse/rate"
	"github.com/jmoiron/sqlx"
	"github.com/plutov/paypal/v4"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stripe/stripe-go/v74"
	stripecl "github.com/stripe/stripe-go/v74/client"
)

const (
	webhookSecret = "whsec_test"
	storePassword = "qwerty"
)

// TestEnv is a running api backed by a fresh database and mocked
// payment providers.
type TestEnv struct {
	*httptest.Server
	DB         *sqlx.DB
	Log        *logtest.Hook
	Background *background.Background
	Notifier   *notifier
	Gateway    *fakeGateway
	Paypal     *mockPaypal
	Stripe     *mockStripe
}

// NewTestEnv starts the api. opts may adjust the configuration before the
// routes are built.
func NewTestEnv(t *testing.T, opts ...func(*api.APIConfig)) *TestEnv {
	t.Helper()

	db := dbtest.NewDatabase(t)

	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	env := &TestEnv{
		DB:         db,
		Log:        hook,
		Background: background.New(log),
		Notifier:   &notifier{},
		Gateway:    &fakeGateway{},
		Paypal:     &mockPaypal{},
		Stripe:     &mockStripe{},
	}

	paypalSrv := httptest.NewServer(env.Paypal.handle())
	t.Cleanup(paypalSrv.Close)

	stripeSrv := httptest.NewServer(env.Stripe.handle())
	t.Cleanup(stripeSrv.Close)

	pp, err := paypal.NewClient("client", "secret", paypalSrv.URL)
	if err != nil {
		t.Fatalf("building paypal client: %v", err)
	}
	if _, err := pp.GetAccessToken(context.Background()); err != nil {
		t.Fatalf("fetching paypal token: %v", err)
	}

	strp := &stripecl.API{}
	strp.Init("sk_test_eduverse", &stripe.Backends{
		API: stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{URL: stripe.String(stripeSrv.URL)}),
	})

	limiter := rate.NewLimiter(1000, time.Minute, 1000)
	t.Cleanup(limiter.Close)

	cfg := api.APIConfig{
		Log:             log,
		DB:              db,
		FrontendSession: auth.NewSession("frontend_sessionid", time.Hour, false),
		AdminSession:    auth.NewSession("admin_sessionid", time.Hour, false),
		Background:      env.Background,
		Gateway:         env.Gateway,
		SSLCommerzCfg:   config.SSLCommerz{StorePassword: storePassword},
		Paypal:          pp,
		Stripe:          strp,
		StripeCfg: config.Stripe{
			WebhookSecret: webhookSecret,
			SuccessURL:    "http://localhost/payments/success",
			CancelURL:     "http://localhost/payments/cancel",
		},
		Notifier:    env.Notifier,
		ReviewDelay: 0,
		Limiter:     limiter,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	mux := api.APIMux(cfg)

	env.Server = httptest.NewServer(mux)
	t.Cleanup(env.Server.Close)

	return env
}

// Client is one browser: its own cookie jar, redirects not followed.
type Client struct {
	*http.Client
	t    *testing.T
	base string
	User user.User
}

func (env *TestEnv) NewClient(t *testing.T) *Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}

	c := &http.Client{
		Jar:       jar,
		Transport: env.Server.Client().Transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &Client{Client: c, t: t, base: env.URL}
}

// As seeds a user with role and logs the client in on the storefront.
func (env *TestEnv) As(t *testing.T, role string) *Client {
	t.Helper()

	c := env.NewClient(t)
	c.User = coretest.User(t, env.DB, role)
	if err := Login(c, "/auth/login", c.User.Email, coretest.Password); err != nil {
		t.Fatal(err)
	}
	return c
}

func Login(c *Client, path, email, password string) error {
	w, err := c.send(http.MethodPost, path, map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusOK {
		return fmt.Errorf("login on %s failed: status code %s", path, w.Status)
	}
	return nil
}

func Logout(c *Client, path string) error {
	w, err := c.send(http.MethodPost, path, nil)
	if err != nil {
		return err
	}
	defer w.Body.Close()

	if w.StatusCode != http.StatusNoContent {
		return fmt.Errorf("logout on %s failed: status code %s", path, w.Status)
	}
	return nil
}

func (c *Client) send(method, path string, body any) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}

	r, err := http.NewRequest(method, c.base+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}

	return c.Do(r)
}

// Expect sends a json request, fails the test unless the status matches
// and decodes the response into out when it is not nil.
func (c *Client) Expect(method, path string, body any, status int, out any) *http.Response {
	c.t.Helper()

	w, err := c.send(method, path, body)
	if err != nil {
		c.t.Fatal(err)
	}

	return c.check(w, method, path, status, out)
}

// PostForm sends an url-encoded form like a payment gateway callback.
func (c *Client) PostForm(path string, form url.Values, status int, out any) *http.Response {
	c.t.Helper()

	r, err := http.NewRequest(http.MethodPost, c.base+path, strings.NewReader(form.Encode()))
	if err != nil {
		c.t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w, err := c.Do(r)
	if err != nil {
		c.t.Fatal(err)
	}

	return c.check(w, http.MethodPost, path, status, out)
}

func (c *Client) check(w *http.Response, method, path string, status int, out any) *http.Response {
	c.t.Helper()
	defer w.Body.Close()

	b, err := io.ReadAll(w.Body)
	if err != nil {
		c.t.Fatal(err)
	}

	if w.StatusCode != status {
		c.t.Fatalf("%s %s: expected status %d, got %s: %s", method, path, status, w.Status, b)
	}

	if out != nil {
		if err := json.Unmarshal(b, out); err != nil {
			c.t.Fatalf("%s %s: cannot unmarshal response: %v", method, path, err)
		}
	}
	return w
}

type errorBody struct {
	Error string `json:"error"`
}

// notifier counts first message notices.
type notifier struct {
	mu    sync.Mutex
	calls []messaging.Message
}

func (n *notifier) FirstMessage(ctx context.Context, conv messaging.Conversation, msg messaging.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, msg)
	return nil
}

func (n *notifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}
