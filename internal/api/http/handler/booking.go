package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/agendaq/agendaq_backend/internal/api/http/middleware"
	"github.com/agendaq/agendaq_backend/internal/service/booking"
)

var validate = validator.New()

type BookingHandler struct {
	svc booking.Service
}

func NewBookingHandler(svc booking.Service) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func mapBookingError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, booking.ErrSlotTaken):
		return conflict(c, err.Error())
	case errors.Is(err, booking.ErrAlreadyCancelled):
		return conflict(c, err.Error())
	case errors.Is(err, booking.ErrTenantMismatch):
		return forbidden(c, err.Error())
	case errors.Is(err, booking.ErrInvalidStartTime):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}

type createBookingRequest struct {
	TenantID       string `json:"tenant_id" validate:"required,min=1,max=50"`
	SiteID         string `json:"site_id" validate:"required,min=1,max=50"`
	ProfessionalID string `json:"professional_id" validate:"required,min=1,max=50"`
	TreatmentID    string `json:"treatment_id" validate:"required,min=1,max=50"`
	StartTime      string `json:"start_time" validate:"required"`
	PatientName    string `json:"patient_name" validate:"required,min=1,max=100"`
	PatientEmail   string `json:"patient_email" validate:"required,email"`
}

// POST /bookings
func (h *BookingHandler) Create(c fiber.Ctx) error {
	tenant, valid := middleware.TenantFromFiber(c)
	if !valid {
		return fiber.ErrUnauthorized
	}

	var body createBookingRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return badRequest(c, err.Error())
	}

	b, err := h.svc.Create(c.Context(), tenant, booking.CreateRequest{
		TenantID:       body.TenantID,
		SiteID:         body.SiteID,
		ProfessionalID: body.ProfessionalID,
		TreatmentID:    body.TreatmentID,
		StartTime:      body.StartTime,
		PatientName:    body.PatientName,
		PatientEmail:   body.PatientEmail,
	})
	if err != nil {
		return mapBookingError(c, err)
	}

	return created(c, b)
}

// GET /bookings
func (h *BookingHandler) List(c fiber.Ctx) error {
	tenant, valid := middleware.TenantFromFiber(c)
	if !valid {
		return fiber.ErrUnauthorized
	}

	bookings, err := h.svc.List(c.Context(), tenant)
	if err != nil {
		return mapBookingError(c, err)
	}

	return ok(c, fiber.Map{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// DELETE /bookings/:id
func (h *BookingHandler) Cancel(c fiber.Ctx) error {
	tenant, valid := middleware.TenantFromFiber(c)
	if !valid {
		return fiber.ErrUnauthorized
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "missing booking id")
	}

	ack, err := h.svc.Cancel(c.Context(), tenant, id)
	if err != nil {
		return mapBookingError(c, err)
	}

	return ok(c, fiber.Map{
		"message":      "booking cancelled",
		"booking_id":   ack.BookingID,
		"cancelled_at": ack.CancelledAt,
	})
}

type rescheduleBookingRequest struct {
	NewStartTime string `json:"new_start_time" validate:"required"`
}

// PUT /bookings/:id
func (h *BookingHandler) Reschedule(c fiber.Ctx) error {
	tenant, valid := middleware.TenantFromFiber(c)
	if !valid {
		return fiber.ErrUnauthorized
	}

	id := c.Params("id")
	if id == "" {
		return badRequest(c, "missing booking id")
	}

	var body rescheduleBookingRequest
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return badRequest(c, err.Error())
	}

	ack, err := h.svc.Reschedule(c.Context(), tenant, id, body.NewStartTime)
	if err != nil {
		return mapBookingError(c, err)
	}

	return ok(c, fiber.Map{
		"message":        "booking rescheduled",
		"booking_id":     ack.BookingID,
		"new_start_time": ack.NewStartTime,
		"new_end_time":   ack.NewEndTime,
		"updated_at":     ack.UpdatedAt,
	})
}
