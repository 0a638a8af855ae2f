// Package routes assembles the HTTP surface. Every inventory resource is a
// descriptor handed to the shared endpoint factory; the few bespoke handlers
// (custom-field resolution, category links, health) live in controllers.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/rentrackhq/rentrack-backend/api/controllers"
	"github.com/rentrackhq/rentrack-backend/api/middleware"
	"github.com/rentrackhq/rentrack-backend/internal/endpoint"
	"github.com/rentrackhq/rentrack-backend/internal/items"
	"github.com/rentrackhq/rentrack-backend/internal/rentals"
	"github.com/rentrackhq/rentrack-backend/internal/renters"
	"github.com/rentrackhq/rentrack-backend/internal/subscriptions"
	"github.com/rentrackhq/rentrack-backend/internal/taxonomy"
	"github.com/rentrackhq/rentrack-backend/pkg/config"
	"github.com/rentrackhq/rentrack-backend/pkg/logger"
	"github.com/rentrackhq/rentrack-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gdb *gorm.DB,
	deps map[string]controllers.Pinger,
	subscriptionService *subscriptions.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if registry != nil {
		r.Use(middleware.Metrics(metrics.NewHTTPMetrics(registry)))
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, deps))
	})
	r.Get("/healthz", controllers.HealthReady(logg, deps))

	factory := endpoint.NewFactory(gdb, logg)
	customFields := items.NewCustomFieldService(gdb)
	links := taxonomy.NewLinkService(gdb)

	gateAdd := middleware.CheckSubscription(subscriptionService, true, logg)
	gateWrite := middleware.CheckSubscription(subscriptionService, false, logg)
	dropCount := middleware.InvalidateItemCount(subscriptionService)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		mountResource(r, "/external-renter", "externalRenterID", factory, resourceSet{
			list: renters.Resource(), read: renters.Resource(), write: renters.Resource(),
		})

		r.Route("/item", func(r chi.Router) {
			list := items.ListResource()
			detail := items.DetailResource()
			write := items.WriteResource()

			r.Get("/", factory.GetAll(list))
			r.With(gateAdd, dropCount).Put("/", factory.Create(write))

			r.Route("/{barcode}", func(r chi.Router) {
				r.Get("/", factory.Get(detail))
				r.With(gateWrite).Put("/", factory.Update(write))
				r.With(gateWrite, dropCount).Delete("/", factory.Delete(write))

				r.Get("/status", factory.Get(items.StatusResource()))
				r.Get("/rentals", factory.GetAll(items.RentalHistoryResource()))
				r.Get("/rental/active", factory.Get(items.ActiveRentalResource()))

				r.Route("/custom-field", func(r chi.Router) {
					value := items.CustomFieldValueResource()
					r.Get("/", controllers.ItemCustomFields(customFields, logg))
					r.Route("/{customFieldID}", func(r chi.Router) {
						r.Get("/", factory.Get(value))
						r.With(gateWrite).Put("/", controllers.SetItemCustomField(customFields, logg))
						r.With(gateWrite).Delete("/", factory.Delete(value))
					})
				})
			})
		})

		r.Route("/rental", func(r chi.Router) {
			list := rentals.ListResource()
			res := rentals.Resource()

			r.Get("/", factory.GetAll(list))
			r.With(rentals.AttachUserID(logg)).Put("/", factory.Create(res))
			r.Route("/{rentalID}", func(r chi.Router) {
				r.Get("/", factory.Get(res))
				r.Put("/", factory.Update(res))
				r.With(middleware.RequireAdmin(logg)).Delete("/", factory.Delete(res))
			})
		})

		mountResource(r, "/brand", "brandID", factory, sameResource(taxonomy.Brands()))
		mountResource(r, "/model", "modelID", factory, sameResource(taxonomy.Models()))
		mountResource(r, "/category", "categoryID", factory, sameResource(taxonomy.Categories()))

		r.Route("/custom-field", func(r chi.Router) {
			res := taxonomy.CustomFields()
			r.Get("/", factory.GetAll(res))
			r.Put("/", factory.Create(res))
			r.Route("/{customFieldID}", func(r chi.Router) {
				r.Get("/", factory.Get(res))
				r.Put("/", factory.Update(res))
				r.Delete("/", factory.Delete(res))
				r.Route("/category/{categoryID}", func(r chi.Router) {
					r.Put("/", controllers.LinkCustomFieldCategory(links, logg))
					r.Delete("/", controllers.UnlinkCustomFieldCategory(links, logg))
				})
			})
		})
	})

	return r
}

type resourceSet struct {
	list  endpoint.Resource
	read  endpoint.Resource
	write endpoint.Resource
}

func sameResource(res endpoint.Resource) resourceSet {
	return resourceSet{list: res, read: res, write: res}
}

// mountResource wires the conventional five routes of a descriptor resource.
func mountResource(r chi.Router, path, param string, factory *endpoint.Factory, set resourceSet) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", factory.GetAll(set.list))
		r.Put("/", factory.Create(set.write))
		r.Route("/{"+param+"}", func(r chi.Router) {
			r.Get("/", factory.Get(set.read))
			r.Put("/", factory.Update(set.write))
			r.Delete("/", factory.Delete(set.write))
		})
	})
}
