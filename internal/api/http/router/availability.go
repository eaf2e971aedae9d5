package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/agendaq/agendaq_backend/internal/api/http/handler"
)

func (r *Router) registerAvailabilityRoutes(
	api fiber.Router,
	ah *handler.AvailabilityHandler,
	authRequired fiber.Handler,
) {
	api.Post("/availability", ah.Slots, authRequired)
}
