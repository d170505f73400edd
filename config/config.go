// Package config holds the runtime configuration parsed from the
// environment by ardanlabs/conf.
package config

import (
	"time"

	"github.com/ardanlabs/conf/v3"
)

type Config struct {
	conf.Version
	Web        Web
	Cors       Cors
	DB         DB
	Session    Session
	Email      Email
	SSLCommerz SSLCommerz
	Stripe     Stripe
	Paypal     Paypal
	Review     Review
	Rate       Rate
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type Cors struct {
	Origin string
}

type DB struct {
	Driver       string `conf:"default:postgres,help:postgres or sqlite"`
	User         string `conf:"default:postgres"`
	Password     string `conf:"default:postgres,mask"`
	Host         string `conf:"default:localhost:5432"`
	Name         string `conf:"default:eduverse"`
	Path         string `conf:"default:eduverse.db,help:database file when the driver is sqlite"`
	MaxIdleConns int    `conf:"default:2"`
	MaxOpenConns int    `conf:"default:0"`
	DisableTLS   bool   `conf:"default:true"`
}

// Session cookie names are bound per route group, the admin site never
// shares the storefront cookie.
type Session struct {
	Lifetime       time.Duration `conf:"default:24h"`
	FrontendCookie string        `conf:"default:frontend_sessionid"`
	AdminCookie    string        `conf:"default:admin_sessionid"`
	Secure         bool          `conf:"default:false"`
}

type Email struct {
	SendGridKey string `conf:"mask"`
	From        string `conf:"default:no-reply@eduverse.local"`
	FromName    string `conf:"default:Eduverse"`
	InboxURL    string `conf:"default:http://localhost:3000/inbox"`
}

// SSLCommerz store credentials have no default: the sandbox ones are
// public and would let anyone sign a success callback.
type SSLCommerz struct {
	StoreID        string        `conf:"required"`
	StorePassword  string        `conf:"required,mask"`
	URL            string        `conf:"default:https://sandbox.sslcommerz.com"`
	SuccessURL     string        `conf:"default:http://localhost:8000/payments/success"`
	FailURL        string        `conf:"default:http://localhost:8000/payments/fail"`
	CancelURL      string        `conf:"default:http://localhost:8000/payments/cancel"`
	Currency       string        `conf:"default:BDT"`
	ValidateRemote bool          `conf:"default:true"`
	Timeout        time.Duration `conf:"default:15s"`
}

type Stripe struct {
	APISecret     string `conf:"mask"`
	WebhookSecret string `conf:"mask,help:required when the api secret is set"`
	SuccessURL    string `conf:"default:http://localhost:3000/payments/success"`
	CancelURL     string `conf:"default:http://localhost:3000/payments/cancel"`
	URL           string `conf:"help:overrides the stripe api backend"`
}

type Paypal struct {
	ClientID string `conf:"mask"`
	Secret   string `conf:"mask"`
	URL      string `conf:"default:https://api-m.sandbox.paypal.com"`
}

type Review struct {
	LiveClassDelay time.Duration `conf:"default:24h,help:time after the first message before a live class can be reviewed"`
}

type Rate struct {
	Burst    int           `conf:"default:10"`
	Interval time.Duration `conf:"default:1s"`
	Expiry   time.Duration `conf:"default:10m"`
}
