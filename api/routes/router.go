package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumeworks/lume-backend/api/controllers"
	cartcontrollers "github.com/lumeworks/lume-backend/api/controllers/cart"
	"github.com/lumeworks/lume-backend/api/middleware"
	"github.com/lumeworks/lume-backend/internal/analytics"
	"github.com/lumeworks/lume-backend/internal/auth"
	"github.com/lumeworks/lume-backend/internal/cart"
	"github.com/lumeworks/lume-backend/internal/products"
	"github.com/lumeworks/lume-backend/internal/purchases"
	"github.com/lumeworks/lume-backend/internal/recommendations"
	"github.com/lumeworks/lume-backend/internal/users"
	"github.com/lumeworks/lume-backend/pkg/config"
	"github.com/lumeworks/lume-backend/pkg/db"
	"github.com/lumeworks/lume-backend/pkg/logger"
	"github.com/lumeworks/lume-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Registry *prometheus.Registry

	Auth            auth.Service
	Users           users.Service
	Products        products.Service
	Cart            cart.Service
	Purchases       purchases.Service
	Analytics       analytics.Service
	Recommendations recommendations.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

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
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessDeps(deps)))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Products, logg))
			r.Post("/", controllers.ProductCreate(deps.Products, logg))
			r.Get("/my-products", controllers.MyProducts(deps.Products, logg))
			r.Get("/{productId}", controllers.ProductDetail(deps.Products, logg))
			r.Put("/{productId}", controllers.ProductUpdate(deps.Products, logg))
			r.Delete("/{productId}", controllers.ProductDelete(deps.Products, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(deps.Cart, logg))
			r.Post("/add", cartcontrollers.CartAddItem(deps.Cart, logg))
			r.Put("/update", cartcontrollers.CartUpdateItem(deps.Cart, logg))
			r.Delete("/remove", cartcontrollers.CartRemoveItem(deps.Cart, logg))
			r.Post("/remove", cartcontrollers.CartRemoveItem(deps.Cart, logg))
			r.Delete("/remove/{productId}", cartcontrollers.CartRemoveItem(deps.Cart, logg))
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Get("/", controllers.PurchaseList(deps.Purchases, logg))
			r.Post("/", controllers.PurchaseCreate(deps.Purchases, logg))
		})

		r.Get("/dashboard/stats", controllers.DashboardStats(deps.Analytics, logg))
		r.Get("/analytics", controllers.AnalyticsSummary(deps.Analytics, logg))
		r.Get("/recommendations", controllers.Recommendations(deps.Recommendations, logg))

		r.Route("/user", func(r chi.Router) {
			r.Get("/profile", controllers.UserProfile(deps.Users, logg))
			r.Put("/profile", controllers.UserProfileUpdate(deps.Users, logg))
		})
	})

	return r
}

func readinessDeps(deps Deps) map[string]controllers.Pinger {
	out := map[string]controllers.Pinger{}
	if deps.DB != nil {
		out["database"] = deps.DB
	}
	if deps.Redis != nil {
		out["redis"] = deps.Redis
	}
	return out
}
