package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/agendaq/agendaq_backend/internal/api/http/middleware"
	"github.com/agendaq/agendaq_backend/internal/service/treatment"
)

type TreatmentHandler struct {
	svc treatment.Service
}

func NewTreatmentHandler(svc treatment.Service) *TreatmentHandler {
	return &TreatmentHandler{svc: svc}
}

type createTreatmentRequest struct {
	Name            string  `json:"name" validate:"required,min=1,max=100"`
	DurationMinutes int     `json:"duration_minutes" validate:"required,min=5,max=480"`
	BufferMinutes   int     `json:"buffer_minutes" validate:"min=0,max=120"`
	Price           float64 `json:"price" validate:"min=0"`
}

// POST /treatments
func (h *TreatmentHandler) Create(c fiber.Ctx) error {
	tenant, valid := middleware.TenantFromFiber(c)
	if !valid {
		return fiber.ErrUnauthorized
	}

	var body createTreatmentRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return badRequest(c, err.Error())
	}

	t, err := h.svc.Create(c.Context(), tenant, treatment.CreateRequest{
		Name:            body.Name,
		DurationMinutes: body.DurationMinutes,
		BufferMinutes:   body.BufferMinutes,
		Price:           body.Price,
	})
	if err != nil {
		if errors.Is(err, treatment.ErrInvalidDuration) {
			return badRequest(c, err.Error())
		}
		return internalError(c)
	}

	return created(c, t)
}

// GET /treatments
func (h *TreatmentHandler) List(c fiber.Ctx) error {
	tenant, valid := middleware.TenantFromFiber(c)
	if !valid {
		return fiber.ErrUnauthorized
	}

	treatments, err := h.svc.List(c.Context(), tenant)
	if err != nil {
		return internalError(c)
	}

	return ok(c, fiber.Map{
		"treatments": treatments,
		"count":      len(treatments),
	})
}
