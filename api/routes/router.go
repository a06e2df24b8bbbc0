package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oviahome/oviahome-backend/api/controllers"
	webhookcontrollers "github.com/oviahome/oviahome-backend/api/controllers/webhooks"
	"github.com/oviahome/oviahome-backend/api/middleware"
	authsvc "github.com/oviahome/oviahome-backend/internal/auth"
	"github.com/oviahome/oviahome-backend/internal/cart"
	"github.com/oviahome/oviahome-backend/internal/catalog"
	checkoutsvc "github.com/oviahome/oviahome-backend/internal/checkout"
	"github.com/oviahome/oviahome-backend/internal/customers"
	"github.com/oviahome/oviahome-backend/internal/inquiries"
	"github.com/oviahome/oviahome-backend/internal/orders"
	paymentsvc "github.com/oviahome/oviahome-backend/internal/payments"
	"github.com/oviahome/oviahome-backend/internal/stats"
	"github.com/oviahome/oviahome-backend/pkg/config"
	"github.com/oviahome/oviahome-backend/pkg/db"
	"github.com/oviahome/oviahome-backend/pkg/logger"
	"github.com/oviahome/oviahome-backend/pkg/redis"
	"github.com/oviahome/oviahome-backend/pkg/stripe"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	catalogService catalog.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	paymentsService paymentsvc.Service,
	ordersService orders.Service,
	customersService customers.Service,
	inquiriesService inquiries.Service,
	statsService stats.Service,
	authService authsvc.Service,
	stripeClient *stripe.Client,
	eventGuard *paymentsvc.EventGuard,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(paymentsService, stripeClient, eventGuard, logg))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(authService, logg))
		r.Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, cfg.JWT, logg))
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/shipping/rates", controllers.ShippingRates())
		r.Post("/add", controllers.CartAddItem(cartService, logg))
		r.Put("/update", controllers.CartUpdateItem(cartService, logg))
		r.Delete("/remove/{sessionID}/{productID}", controllers.CartRemoveItem(cartService, logg))
		r.Get("/{sessionID}", controllers.CartGet(cartService, logg))
		r.Delete("/{sessionID}", controllers.CartClear(cartService, logg))
	})

	r.Route("/api/payments", func(r chi.Router) {
		r.Post("/checkout", controllers.Checkout(checkoutService, logg))
		r.Get("/status/{sessionID}", controllers.PaymentStatus(paymentsService, logg))
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ProductsList(catalogService, logg))
		r.Post("/", controllers.ProductCreate(catalogService, logg))
		r.Get("/{productID}", controllers.ProductGet(catalogService, logg))
		r.Put("/{productID}", controllers.ProductUpdate(catalogService, logg))
		r.Delete("/{productID}", controllers.ProductDelete(catalogService, logg))
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", controllers.CategoriesList(catalogService, logg))
		r.Post("/", controllers.CategoryCreate(catalogService, logg))
	})

	r.Route("/api/inquiries", func(r chi.Router) {
		r.Get("/", controllers.InquiriesList(inquiriesService, logg))
		r.Post("/", controllers.InquiryCreate(inquiriesService, logg))
	})

	r.Route("/api/quotes", func(r chi.Router) {
		r.Get("/", controllers.QuoteRequestsList(inquiriesService, logg))
		r.Post("/", controllers.QuoteRequestCreate(inquiriesService, logg))
	})

	r.Route("/api/customers", func(r chi.Router) {
		r.Get("/", controllers.CustomersList(customersService, logg))
		r.Get("/{customerID}", controllers.CustomerGet(customersService, logg))
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", controllers.OrdersList(ordersService, logg))
		r.Get("/{orderID}", controllers.OrderGet(ordersService, logg))
		r.Put("/{orderID}/status", controllers.OrderUpdateStatus(ordersService, logg))
	})

	r.Get("/api/stats", controllers.StatsOverview(statsService, logg))

	return r
}
