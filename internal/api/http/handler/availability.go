package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/agendaq/agendaq_backend/internal/api/http/middleware"
	"github.com/agendaq/agendaq_backend/internal/service/availability"
)

type AvailabilityHandler struct {
	svc availability.Service
}

func NewAvailabilityHandler(svc availability.Service) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

type availabilityRequest struct {
	SiteID         string `json:"site_id" validate:"required,min=1,max=50"`
	Date           string `json:"date"`
	ProfessionalID string `json:"professional_id" validate:"omitempty,min=1,max=50"`
}

// POST /availability
func (h *AvailabilityHandler) Slots(c fiber.Ctx) error {
	tenant, valid := middleware.TenantFromFiber(c)
	if !valid {
		return fiber.ErrUnauthorized
	}

	var q availabilityRequest
	if err := c.Bind().JSON(&q); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(q); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.svc.Slots(c.Context(), availability.Query{
		TenantID:       tenant,
		SiteID:         q.SiteID,
		Date:           q.Date,
		ProfessionalID: q.ProfessionalID,
	})
	if err != nil {
		if errors.Is(err, availability.ErrInvalidDate) {
			return badRequest(c, err.Error())
		}
		return internalError(c)
	}

	return ok(c, fiber.Map{
		"slots": result.Slots,
		"total": len(result.Slots),
		"date":  result.Date,
	})
}
