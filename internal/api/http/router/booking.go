package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/agendaq/agendaq_backend/internal/api/http/handler"
)

func (r *Router) registerBookingRoutes(
	api fiber.Router,
	bh *handler.BookingHandler,
	authRequired fiber.Handler,
) {
	bookings := api.Group("/bookings", authRequired)

	bookings.Get("/", bh.List)
	bookings.Post("/", bh.Create)

	b := bookings.Group("/:id")
	b.Delete("/", bh.Cancel)
	b.Put("/", bh.Reschedule)
}
