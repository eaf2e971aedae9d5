package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/agendaq/agendaq_backend/internal/api/http/handler"
)

func (r *Router) registerTreatmentRoutes(
	api fiber.Router,
	th *handler.TreatmentHandler,
	authRequired fiber.Handler,
) {
	treatments := api.Group("/treatments", authRequired)

	treatments.Get("/", th.List)
	treatments.Post("/", th.Create)
}
