package api

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/irsalhamdi/eduverse/api/background"
	"github.com/irsalhamdi/eduverse/api/middleware"
	"github.com/irsalhamdi/eduverse/api/web"
	"github.com/irsalhamdi/eduverse/config"
	"github.com/irsalhamdi/eduverse/core/auth"
	"github.com/irsalhamdi/eduverse/core/catalog"
	"github.com/irsalhamdi/eduverse/core/claims"
	"github.com/irsalhamdi/eduverse/core/content"
	"github.com/irsalhamdi/eduverse/core/course"
	"github.com/irsalhamdi/eduverse/core/earning"
	"github.com/irsalhamdi/eduverse/core/enrollment"
	"github.com/irsalhamdi/eduverse/core/live"
	"github.com/irsalhamdi/eduverse/core/messaging"
	"github.com/irsalhamdi/eduverse/core/module"
	"github.com/irsalhamdi/eduverse/core/payment"
	"github.com/irsalhamdi/eduverse/core/progress"
	"github.com/irsalhamdi/eduverse/core/review"
	"github.com/irsalhamdi/eduverse/core/teacher"
	"github.com/irsalhamdi/eduverse/core/user"
	"github.com/irsalhamdi/eduverse/database"
	"github.com/irsalhamdi/eduverse/rate"
	"github.com/jmoiron/sqlx"
	"github.com/plutov/paypal/v4"
	"github.com/sirupsen/logrus"
	stripecl "github.com/stripe/stripe-go/v74/client"
)

type APIConfig struct {
	CorsOrigin      string
	Log             logrus.FieldLogger
	DB              *sqlx.DB
	FrontendSession *scs.SessionManager
	AdminSession    *scs.SessionManager
	Background      *background.Background
	Gateway         payment.Gateway
	SSLCommerzCfg   config.SSLCommerz
	Paypal          *paypal.Client
	Stripe          *stripecl.API
	StripeCfg       config.Stripe
	Notifier        messaging.Notifier
	ReviewDelay     time.Duration
	Limiter         *rate.Limiter
}

// api is one route group. Groups share a router but each carries its own
// session so the admin site and the storefront never see each other's
// cookie.
type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func newGroup(router *mux.Router, cfg APIConfig, sess *scs.SessionManager) *api {
	a := &api{
		Router: router,
		log:    cfg.Log,
	}

	a.mw = append(a.mw, auth.LoadAndSave(sess))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))
	}

	return a
}

func APIMux(cfg APIConfig) http.Handler {
	router := mux.NewRouter()

	front := newGroup(router, cfg, cfg.FrontendSession)
	admin := newGroup(router, cfg, cfg.AdminSession)

	if cfg.CorsOrigin != "" {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		front.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	front.Handle(http.MethodGet, "/health", handleHealth(cfg.DB))

	front.storefront(cfg)
	admin.adminSite(cfg)

	return router
}

func (a *api) storefront(cfg APIConfig) {
	db, sess := cfg.DB, cfg.FrontendSession

	ident := auth.Identify(db, sess)
	authen := auth.Authenticate(db, sess)
	instructor := auth.Instructor(db, sess)
	limit := middleware.RateLimit(cfg.Limiter)

	a.Handle(http.MethodPost, "/auth/signup", auth.HandleSignup(db, sess), limit)
	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(db, sess), limit)
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(sess))

	a.Handle(http.MethodGet, "/users/current", user.HandleShowCurrent(db), authen)
	a.Handle(http.MethodGet, "/users/{id}", user.HandleShow(db), authen)

	a.Handle(http.MethodPost, "/teachers/applications", teacher.HandleSubmit(db), authen)
	a.Handle(http.MethodGet, "/teachers/applications/latest", teacher.HandleLatest(db), authen)

	a.Handle(http.MethodGet, "/categories", course.HandleCategories())
	a.Handle(http.MethodGet, "/courses/manage", course.HandleListManaged(db), instructor)
	a.Handle(http.MethodGet, "/courses", course.HandleList(db))
	a.Handle(http.MethodPost, "/courses", course.HandleCreate(db), instructor)
	a.Handle(http.MethodGet, "/courses/{id}", catalog.HandleShowCourse(db), ident)
	a.Handle(http.MethodPut, "/courses/{id}", course.HandleUpdate(db), instructor)
	a.Handle(http.MethodDelete, "/courses/{id}", course.HandleDelete(db), instructor)
	a.Handle(http.MethodGet, "/courses/{id}/modules", module.HandleList(db))
	a.Handle(http.MethodPost, "/courses/{id}/modules", module.HandleCreate(db), instructor)
	a.Handle(http.MethodGet, "/courses/{id}/reviews", review.HandleListCourse(db))
	a.Handle(http.MethodPost, "/courses/{id}/reviews", review.HandleCreateCourse(db), authen)

	a.Handle(http.MethodPost, "/modules/{id}/videos", content.HandleCreateVideo(db), instructor)
	a.Handle(http.MethodPost, "/modules/{id}/texts", content.HandleCreateText(db), instructor)
	a.Handle(http.MethodPost, "/content/{kind}/{id}/complete", progress.HandleComplete(db), authen)

	a.Handle(http.MethodGet, "/live/manage", live.HandleListManaged(db), instructor)
	a.Handle(http.MethodGet, "/live", live.HandleList(db))
	a.Handle(http.MethodPost, "/live", live.HandleCreate(db), instructor)
	a.Handle(http.MethodGet, "/live/{id}", catalog.HandleShowLive(db, cfg.ReviewDelay), ident)
	a.Handle(http.MethodPut, "/live/{id}", live.HandleUpdate(db), instructor)
	a.Handle(http.MethodDelete, "/live/{id}", live.HandleDelete(db), instructor)
	a.Handle(http.MethodGet, "/live/{id}/reviews", review.HandleListLive(db))
	a.Handle(http.MethodPost, "/live/{id}/reviews", review.HandleCreateLive(db, cfg.ReviewDelay), authen)
	a.Handle(http.MethodPost, "/live/{id}/conversations", messaging.HandleStart(db), authen)

	a.Handle(http.MethodGet, "/conversations", messaging.HandleInbox(db), authen)
	a.Handle(http.MethodGet, "/conversations/{id}", messaging.HandleShow(db), authen)
	a.Handle(http.MethodPost, "/conversations/{id}/messages", messaging.HandleSend(db, cfg.Background, cfg.Notifier, cfg.Log), authen, limit)

	a.Handle(http.MethodGet, "/enrollments/courses", enrollment.HandleListCourses(db), authen)
	a.Handle(http.MethodGet, "/enrollments/live", enrollment.HandleListLive(db), authen)

	a.Handle(http.MethodPost, "/payments/initiate/{kind}/{id}", payment.HandleInitiate(db, cfg.Gateway), authen)
	a.Handle(http.MethodPost, "/payments/success", payment.HandleSuccess(db, cfg.Gateway, cfg.SSLCommerzCfg))
	a.Handle(http.MethodPost, "/payments/fail", payment.HandleFailure("payment failed, you were not charged"))
	a.Handle(http.MethodPost, "/payments/cancel", payment.HandleFailure("payment cancelled"))
	a.Handle(http.MethodPost, "/payments/stripe/webhook", payment.HandleStripeWebhook(db, cfg.StripeCfg))
	a.Handle(http.MethodPost, "/payments/stripe/{kind}/{id}", payment.HandleStripeCheckout(db, cfg.Stripe, cfg.StripeCfg), authen)
	a.Handle(http.MethodPost, "/payments/paypal/{orderID}/capture", payment.HandlePaypalCapture(db, cfg.Paypal), authen)
	a.Handle(http.MethodPost, "/payments/paypal/{kind}/{id}", payment.HandlePaypalCheckout(db, cfg.Paypal), authen)

	a.Handle(http.MethodGet, "/earnings", earning.HandleShow(db), instructor)
	a.Handle(http.MethodPost, "/earnings/withdrawals", earning.HandleRequestWithdrawal(db), instructor)
}

func (a *api) adminSite(cfg APIConfig) {
	db, sess := cfg.DB, cfg.AdminSession

	admin := auth.Admin(db, sess)
	limit := middleware.RateLimit(cfg.Limiter)

	a.Handle(http.MethodPost, "/admin/auth/login", auth.HandleLogin(db, sess, claims.RoleAdmin), limit)
	a.Handle(http.MethodPost, "/admin/auth/logout", auth.HandleLogout(sess))
	a.Handle(http.MethodGet, "/admin/users/{id}", user.HandleShow(db), admin)

	a.Handle(http.MethodGet, "/admin/teachers/applications", teacher.HandleList(db), admin)
	a.Handle(http.MethodPost, "/admin/teachers/applications/{id}/approve", teacher.HandleDecide(db, teacher.Approved), admin)
	a.Handle(http.MethodPost, "/admin/teachers/applications/{id}/reject", teacher.HandleDecide(db, teacher.Rejected), admin)

	a.Handle(http.MethodGet, "/admin/withdrawals", earning.HandleListWithdrawals(db), admin)
	a.Handle(http.MethodPost, "/admin/withdrawals/{id}/approve", earning.HandleDecide(db, earning.Approved), admin)
	a.Handle(http.MethodPost, "/admin/withdrawals/{id}/reject", earning.HandleDecide(db, earning.Rejected), admin)
}

func handleHealth(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()

		status := "ok"
		code := http.StatusOK
		if err := database.StatusCheck(ctx, db); err != nil {
			status = "db not ready"
			code = http.StatusInternalServerError
		}

		return web.Respond(ctx, w, map[string]string{"status": status}, code)
	}
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
