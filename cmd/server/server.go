package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardanlabs/conf/v3"
	"github.com/irsalhamdi/eduverse/api"
	"github.com/irsalhamdi/eduverse/api/background"
	"github.com/irsalhamdi/eduverse/config"
	"github.com/irsalhamdi/eduverse/core/auth"
	"github.com/irsalhamdi/eduverse/core/messaging"
	"github.com/irsalhamdi/eduverse/core/payment"
	"github.com/irsalhamdi/eduverse/database"
	"github.com/irsalhamdi/eduverse/email"
	"github.com/irsalhamdi/eduverse/rate"
	"github.com/joho/godotenv"
	"github.com/plutov/paypal/v4"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	stripecl "github.com/stripe/stripe-go/v74/client"
)

var build = "develop"

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if err := Run(log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func Run(logger *logrus.Logger) error {
	logger.Infof("starting server")
	defer logger.Info("shutdown complete")

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	const prefix = "EDUVERSE"
	cfg := config.Config{
		Version: conf.Version{
			Build: build,
			Desc:  "eduverse learning marketplace",
		},
	}

	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	logger.Infof("startup config:\n%s", out)

	lw := logger.Writer()
	defer lw.Close()
	errLog := log.New(lw, "", 0)

	db, err := database.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to open db connection: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate the database: %w", err)
	}

	frontendSession := auth.NewSession(cfg.Session.FrontendCookie, cfg.Session.Lifetime, cfg.Session.Secure)
	adminSession := auth.NewSession(cfg.Session.AdminCookie, cfg.Session.Lifetime, cfg.Session.Secure)

	var mail email.Mailer = email.NewLog(logger)
	if cfg.Email.SendGridKey != "" {
		mail = email.NewSendGrid(cfg.Email.SendGridKey, cfg.Email.From, cfg.Email.FromName)
	}

	bg := background.New(logger)

	var pp *paypal.Client
	if cfg.Paypal.ClientID != "" {
		pp, err = paypal.NewClient(cfg.Paypal.ClientID, cfg.Paypal.Secret, cfg.Paypal.URL)
		if err != nil {
			return fmt.Errorf("failed to build the paypal client: %w", err)
		}

		if _, err = pp.GetAccessToken(context.TODO()); err != nil {
			return fmt.Errorf("failed to get the first paypal access token: %w", err)
		}
	} else {
		logger.Warn("paypal is not configured, paypal checkout is disabled")
	}

	switch {
	case cfg.Stripe.APISecret != "" && cfg.Stripe.WebhookSecret == "":
		return errors.New("the stripe webhook secret is required when stripe is configured")
	case cfg.Stripe.APISecret == "":
		logger.Warn("stripe api secret is not set, stripe checkout will fail")
	}

	strp := &stripecl.API{}
	var backends *stripe.Backends
	if cfg.Stripe.URL != "" {
		backends = &stripe.Backends{
			API: stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{URL: stripe.String(cfg.Stripe.URL)}),
		}
	}
	strp.Init(cfg.Stripe.APISecret, backends)

	limiter := rate.NewLimiter(cfg.Rate.Burst, cfg.Rate.Expiry, rate.Every(cfg.Rate.Interval))
	defer limiter.Close()

	mux := api.APIMux(api.APIConfig{
		CorsOrigin:      cfg.Cors.Origin,
		Log:             logger,
		DB:              db,
		FrontendSession: frontendSession,
		AdminSession:    adminSession,
		Background:      bg,
		Gateway:         payment.NewSSLCommerz(cfg.SSLCommerz),
		SSLCommerzCfg:   cfg.SSLCommerz,
		Paypal:          pp,
		Stripe:          strp,
		StripeCfg:       cfg.Stripe,
		Notifier:        messaging.NewMailNotifier(db, mail, cfg.Email.InboxURL),
		ReviewDelay:     cfg.Review.LiveClassDelay,
		Limiter:         limiter,
	})

	api := http.Server{
		Handler:      mux,
		Addr:         cfg.Web.Address,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     errLog,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("starting api router at %s", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("shutting down: signal %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}

		if err := bg.Shutdown(ctx); err != nil {
			return fmt.Errorf("could not complete all background tasks: %w", err)
		}
	}
	return nil
}
