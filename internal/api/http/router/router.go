package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/agendaq/agendaq_backend/config"
	"github.com/agendaq/agendaq_backend/internal/api/http/handler"
	"github.com/agendaq/agendaq_backend/internal/api/http/middleware"
	"github.com/agendaq/agendaq_backend/internal/service/availability"
	"github.com/agendaq/agendaq_backend/internal/service/booking"
	"github.com/agendaq/agendaq_backend/internal/service/treatment"
	pasetotoken "github.com/agendaq/agendaq_backend/pkg/paseto"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg             *config.Config
	Redis           *redis.Client
	BookingSvc      booking.Service
	AvailabilitySvc availability.Service
	TreatmentSvc    treatment.Service
	PasetoMgr       *pasetotoken.Manager
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	r.registerSystemRoutes(app)

	authRequired := middleware.AuthRequired(r.p.PasetoMgr)

	bookingH := handler.NewBookingHandler(r.p.BookingSvc)
	availabilityH := handler.NewAvailabilityHandler(r.p.AvailabilitySvc)
	treatmentH := handler.NewTreatmentHandler(r.p.TreatmentSvc)

	api := app.Group("/api/v1")

	r.registerBookingRoutes(api, bookingH, authRequired)
	r.registerAvailabilityRoutes(api, availabilityH, authRequired)
	r.registerTreatmentRoutes(api, treatmentH, authRequired)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
			defer cancel()
			return r.p.Redis.Ping(ctx).Err() == nil
		},
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
