package app

import (
	"log/slog"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/agendaq/agendaq_backend/config"
	"github.com/agendaq/agendaq_backend/internal/service/availability"
	"github.com/agendaq/agendaq_backend/internal/service/booking"
	"github.com/agendaq/agendaq_backend/internal/service/notify"
	"github.com/agendaq/agendaq_backend/internal/service/treatment"
	"github.com/agendaq/agendaq_backend/pkg/kv"
	pasetotoken "github.com/agendaq/agendaq_backend/pkg/paseto"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideTreatmentService,
		ProvideBookingService,
		ProvideAvailabilityService,
		ProvideEmitter,
		ProvidePasetoManager,
	),
)

func ProvideTreatmentService(store kv.Store) treatment.Service {
	return treatment.New(store)
}

func ProvideBookingService(store kv.Store, treatments treatment.Service, emitter notify.Emitter) booking.Service {
	return booking.New(store, treatments, emitter, slog.Default())
}

func ProvideAvailabilityService(store kv.Store) availability.Service {
	return availability.New(store)
}

func ProvideEmitter(nc *nats.Conn) notify.Emitter {
	return notify.NewNatsEmitter(nc, slog.Default())
}

func ProvidePasetoManager(cfg *config.Config) (*pasetotoken.Manager, error) {
	return pasetotoken.NewPasetoManager(cfg)
}
