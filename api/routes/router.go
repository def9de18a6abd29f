package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/metalbaza/metalbaza-backend/api/controllers"
	"github.com/metalbaza/metalbaza-backend/api/middleware"
	adsvc "github.com/metalbaza/metalbaza-backend/internal/ads"
	authsvc "github.com/metalbaza/metalbaza-backend/internal/auth"
	cartsvc "github.com/metalbaza/metalbaza-backend/internal/cart"
	catalogsvc "github.com/metalbaza/metalbaza-backend/internal/catalog"
	checkoutsvc "github.com/metalbaza/metalbaza-backend/internal/checkout"
	ordersvc "github.com/metalbaza/metalbaza-backend/internal/orders"
	settingsvc "github.com/metalbaza/metalbaza-backend/internal/settings"
	usersvc "github.com/metalbaza/metalbaza-backend/internal/users"
	workersvc "github.com/metalbaza/metalbaza-backend/internal/workers"
	"github.com/metalbaza/metalbaza-backend/pkg/config"
	"github.com/metalbaza/metalbaza-backend/pkg/db"
	"github.com/metalbaza/metalbaza-backend/pkg/logger"
	"github.com/metalbaza/metalbaza-backend/pkg/redis"
)

// Services groups everything the router wires into handlers.
type Services struct {
	Auth     authsvc.Service
	Users    usersvc.Service
	Catalog  catalogsvc.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Orders   ordersvc.Service
	Workers  workersvc.Service
	Ads      adsvc.Service
	Settings settingsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginIDLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/telegram", controllers.AuthTelegramLogin(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
	})

	// Storefront reads are public: the Mini App renders the catalog before the
	// user ever authenticates.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(svcs.Catalog, logg))
		r.Get("/{productId}", controllers.GetProduct(svcs.Catalog, logg))
	})
	r.Get("/api/v1/categories", controllers.ListCategories(svcs.Catalog, logg))
	r.Get("/api/v1/ads", controllers.ListAds(svcs.Ads, logg))
	r.Get("/api/v1/company-settings", controllers.GetSettings(svcs.Settings, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, cfg.Telegram, svcs.Users, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", controllers.UserProfile(svcs.Users, logg))
			r.Put("/me", controllers.UserUpdateProfile(svcs.Users, logg))
			r.Post("/me/switch-role", controllers.UserSwitchRole(svcs.Users, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(svcs.Cart, logg))
			r.Post("/", controllers.CartAddItem(svcs.Cart, logg))
			r.Put("/{productId}", controllers.CartUpdateItem(svcs.Cart, logg))
			r.Delete("/{productId}", controllers.CartRemoveItem(svcs.Cart, logg))
			r.Delete("/", controllers.CartClear(svcs.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.Checkout(svcs.Checkout, logg))
			r.Get("/", controllers.MyOrders(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.MyOrderDetail(svcs.Orders, logg))
		})

		r.Route("/workers", func(r chi.Router) {
			r.Get("/", controllers.ListWorkers(svcs.Workers, logg))
			r.Get("/{workerId}", controllers.WorkerDetail(svcs.Workers, logg))
		})
		r.Route("/worker-applications", func(r chi.Router) {
			r.Post("/", controllers.CreateWorkerApplication(svcs.Workers, logg))
			r.Get("/", controllers.MyWorkerApplications(svcs.Workers, logg))
			r.Put("/{applicationId}", controllers.DecideWorkerApplication(svcs.Workers, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, cfg.Telegram, svcs.Users, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.AdminPing())

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateProduct(svcs.Catalog, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(svcs.Catalog, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(svcs.Catalog, logg))
		})
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.AdminCreateCategory(svcs.Catalog, logg))
			r.Patch("/{categoryId}", controllers.AdminUpdateCategory(svcs.Catalog, logg))
			r.Delete("/{categoryId}", controllers.AdminDeleteCategory(svcs.Catalog, logg))
		})
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminListOrders(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(svcs.Orders, logg))
			r.Patch("/{orderId}/status", controllers.AdminUpdateOrderStatus(svcs.Orders, logg))
		})
		r.Route("/ads", func(r chi.Router) {
			r.Get("/", controllers.AdminListAds(svcs.Ads, logg))
			r.Post("/", controllers.AdminCreateAd(svcs.Ads, logg))
			r.Patch("/{adId}", controllers.AdminUpdateAd(svcs.Ads, logg))
			r.Delete("/{adId}", controllers.AdminDeleteAd(svcs.Ads, logg))
		})
		r.Route("/worker-applications", func(r chi.Router) {
			r.Get("/", controllers.AdminListWorkerApplications(svcs.Workers, logg))
			r.Patch("/{applicationId}/status", controllers.AdminUpdateWorkerApplication(svcs.Workers, logg))
		})
		r.Get("/users", controllers.AdminListUsers(svcs.Users, logg))
		r.Put("/company-settings", controllers.AdminUpdateSettings(svcs.Settings, logg))
	})

	return r
}
