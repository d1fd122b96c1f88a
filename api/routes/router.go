package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vendorpulse/vendorpulse-backend/api/controllers"
	"github.com/vendorpulse/vendorpulse-backend/api/middleware"
	"github.com/vendorpulse/vendorpulse-backend/internal/performance"
	"github.com/vendorpulse/vendorpulse-backend/internal/purchaseorders"
	"github.com/vendorpulse/vendorpulse-backend/internal/vendors"
	"github.com/vendorpulse/vendorpulse-backend/pkg/config"
	"github.com/vendorpulse/vendorpulse-backend/pkg/db"
	"github.com/vendorpulse/vendorpulse-backend/pkg/logger"
	"github.com/vendorpulse/vendorpulse-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	vendorService vendors.Service,
	orderService purchaseorders.Service,
	performanceService performance.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	// avoid typed-nil interface values when redis is not configured
	var redisP redis.Pinger
	var idemStore redis.IdempotencyStore
	if redisClient != nil {
		redisP = redisClient
		idemStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idemStore, logg, cfg.Idempotency.TTL))

		r.Route("/vendors", func(r chi.Router) {
			r.Post("/", controllers.VendorCreate(vendorService, logg))
			r.Get("/", controllers.VendorList(vendorService, logg))
			r.Get("/code/{vendorCode}", controllers.VendorFetchByCode(vendorService, logg))
			r.Route("/{vendorId}", func(r chi.Router) {
				r.Get("/", controllers.VendorFetch(vendorService, logg))
				r.Put("/", controllers.VendorUpdate(vendorService, logg))
				r.Delete("/", controllers.VendorDelete(vendorService, logg))
				r.Get("/performance", controllers.VendorPerformance(performanceService, logg))
				r.Post("/performance/snapshot", controllers.VendorSnapshot(performanceService, logg))
				r.Get("/performance/history", controllers.VendorHistory(performanceService, logg))
			})
		})

		r.Route("/purchase_orders", func(r chi.Router) {
			r.Post("/", controllers.PurchaseOrderCreate(orderService, logg))
			r.Get("/", controllers.PurchaseOrderList(orderService, logg))
			r.Route("/{orderId}", func(r chi.Router) {
				r.Get("/", controllers.PurchaseOrderFetch(orderService, logg))
				r.Put("/", controllers.PurchaseOrderUpdate(orderService, logg))
				r.Delete("/", controllers.PurchaseOrderDelete(orderService, logg))
				r.Post("/acknowledge", controllers.PurchaseOrderAcknowledge(orderService, logg))
			})
		})
	})

	return r
}
