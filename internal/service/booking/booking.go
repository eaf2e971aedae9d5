package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/agendaq/agendaq_backend/internal/service/notify"
	"github.com/agendaq/agendaq_backend/internal/service/treatment"
	"github.com/agendaq/agendaq_backend/pkg/kv"
)

// Booking statuses.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// fallbackDuration is used when the treatment lookup fails. Bookings still
// go through so a broken catalog entry does not block the front desk.
const fallbackDurationMinutes = 45

type Booking struct {
	ID             string `json:"id"`
	TenantID       string `json:"tenant_id"`
	SiteID         string `json:"site_id"`
	ProfessionalID string `json:"professional_id"`
	TreatmentID    string `json:"treatment_id"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	PatientName    string `json:"patient_name"`
	PatientEmail   string `json:"patient_email"`
	Status         string `json:"status"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

type CreateRequest struct {
	TenantID       string
	SiteID         string
	ProfessionalID string
	TreatmentID    string
	StartTime      string
	PatientName    string
	PatientEmail   string
}

type CancelAck struct {
	BookingID   string
	CancelledAt string
}

type RescheduleAck struct {
	BookingID    string
	NewStartTime string
	NewEndTime   string
	UpdatedAt    string
}

type Service interface {
	// Create reserves the slot and writes the booking atomically. The
	// caller's tenant must match req.TenantID or the call fails with
	// ErrTenantMismatch before anything is written.
	Create(ctx context.Context, callerTenant string, req CreateRequest) (*Booking, error)

	// List returns every booking for a tenant in booking-id order.
	List(ctx context.Context, tenantID string) ([]*Booking, error)

	// Cancel marks a booking cancelled and frees its slot atomically.
	Cancel(ctx context.Context, callerTenant, bookingID string) (*CancelAck, error)

	// Reschedule moves a confirmed booking to a new start time. The new
	// slot is claimed and the old one freed in the same commit.
	Reschedule(ctx context.Context, callerTenant, bookingID, newStartTime string) (*RescheduleAck, error)
}

type bookingService struct {
	store      kv.Store
	treatments treatment.Service
	emitter    notify.Emitter
	logger     *slog.Logger
}

func New(store kv.Store, treatments treatment.Service, emitter notify.Emitter, logger *slog.Logger) Service {
	return &bookingService{
		store:      store,
		treatments: treatments,
		emitter:    emitter,
		logger:     logger,
	}
}

func (s *bookingService) Create(ctx context.Context, callerTenant string, req CreateRequest) (*Booking, error) {
	if callerTenant != req.TenantID {
		return nil, ErrTenantMismatch
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStartTime, err)
	}
	start = start.UTC()

	durations, err := s.treatments.Durations(ctx, req.TenantID, req.TreatmentID)
	if err != nil {
		s.logger.Warn("treatment lookup failed, using default duration",
			"tenant_id", req.TenantID,
			"treatment_id", req.TreatmentID,
			"error", err,
		)
		durations = treatment.Durations{DurationMinutes: fallbackDurationMinutes}
	}
	end := start.Add(durations.Total())

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	startStr := start.Format(time.RFC3339)
	endStr := end.Format(time.RFC3339)

	slotAttrs := kv.Item{
		"bookingId": id,
		"status":    "reserved",
		"createdAt": now,
	}
	metaAttrs := kv.Item{
		"id":             id,
		"tenantId":       req.TenantID,
		"siteId":         req.SiteID,
		"professionalId": req.ProfessionalID,
		"treatmentId":    req.TreatmentID,
		"startTime":      startStr,
		"endTime":        endStr,
		"patientName":    req.PatientName,
		"patientEmail":   req.PatientEmail,
		"status":         StatusConfirmed,
		"createdAt":      now,
	}
	indexAttrs := kv.Item{
		"bookingId": id,
	}

	ops := []kv.Op{
		{
			Kind:  kv.OpPut,
			PK:    slotPartition(req.TenantID, req.SiteID, start),
			SK:    slotSort(start, req.ProfessionalID),
			Attrs: slotAttrs,
			Cond:  &kv.Cond{Absent: true},
		},
		{
			Kind:  kv.OpPut,
			PK:    bookingPartition(id),
			SK:    bookingSort,
			Attrs: metaAttrs,
		},
		{
			Kind:  kv.OpPut,
			PK:    tenantPartition(req.TenantID),
			SK:    tenantBookingSort(id),
			Attrs: indexAttrs,
		},
	}

	if err := s.store.Commit(ctx, ops); err != nil {
		var commitErr *kv.CommitError
		if errors.As(err, &commitErr) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("commit booking: %w", err)
	}

	booking := &Booking{
		ID:             id,
		TenantID:       req.TenantID,
		SiteID:         req.SiteID,
		ProfessionalID: req.ProfessionalID,
		TreatmentID:    req.TreatmentID,
		StartTime:      startStr,
		EndTime:        endStr,
		PatientName:    req.PatientName,
		PatientEmail:   req.PatientEmail,
		Status:         StatusConfirmed,
		CreatedAt:      now,
	}

	s.emitter.Emit(notify.Event{
		Type:           notify.EventConfirmation,
		BookingID:      id,
		TenantID:       req.TenantID,
		SiteID:         req.SiteID,
		ProfessionalID: req.ProfessionalID,
		PatientName:    req.PatientName,
		PatientEmail:   req.PatientEmail,
		StartTime:      startStr,
		EndTime:        endStr,
	})

	return booking, nil
}

func (s *bookingService) List(ctx context.Context, tenantID string) ([]*Booking, error) {
	pointers, err := s.store.Query(ctx, tenantPartition(tenantID), "BOOKING#")
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	out := make([]*Booking, 0, len(pointers))
	for _, ptr := range pointers {
		id := ptr["bookingId"]
		if id == "" {
			continue
		}
		item, err := s.store.Get(ctx, bookingPartition(id), bookingSort)
		if err != nil {
			if err == kv.ErrItemNotFound {
				s.logger.Warn("dangling booking pointer", "tenant_id", tenantID, "booking_id", id)
				continue
			}
			return nil, fmt.Errorf("get booking %s: %w", id, err)
		}
		out = append(out, bookingFromItem(item))
	}
	return out, nil
}

func (s *bookingService) Cancel(ctx context.Context, callerTenant, bookingID string) (*CancelAck, error) {
	meta, err := s.loadOwned(ctx, callerTenant, bookingID)
	if err != nil {
		return nil, err
	}
	if meta["status"] == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	start, err := time.Parse(time.RFC3339, meta["startTime"])
	if err != nil {
		return nil, fmt.Errorf("booking %s: bad startTime %q", bookingID, meta["startTime"])
	}
	start = start.UTC()
	now := time.Now().UTC().Format(time.RFC3339)

	ops := []kv.Op{
		{
			Kind: kv.OpUpdate,
			PK:   bookingPartition(bookingID),
			SK:   bookingSort,
			Attrs: kv.Item{
				"status":      StatusCancelled,
				"cancelledAt": now,
				"updatedAt":   now,
			},
			Cond: &kv.Cond{NotEquals: &kv.AttrNotEquals{Name: "status", Value: StatusCancelled}},
		},
		{
			Kind: kv.OpDelete,
			PK:   slotPartition(meta["tenantId"], meta["siteId"], start),
			SK:   slotSort(start, meta["professionalId"]),
		},
	}

	if err := s.store.Commit(ctx, ops); err != nil {
		var commitErr *kv.CommitError
		if errors.As(err, &commitErr) {
			return nil, ErrAlreadyCancelled
		}
		return nil, fmt.Errorf("commit cancel: %w", err)
	}

	s.emitter.Emit(notify.Event{
		Type:           notify.EventCancellation,
		BookingID:      bookingID,
		TenantID:       meta["tenantId"],
		SiteID:         meta["siteId"],
		ProfessionalID: meta["professionalId"],
		PatientName:    meta["patientName"],
		PatientEmail:   meta["patientEmail"],
		StartTime:      meta["startTime"],
		EndTime:        meta["endTime"],
	})

	return &CancelAck{BookingID: bookingID, CancelledAt: now}, nil
}

func (s *bookingService) Reschedule(ctx context.Context, callerTenant, bookingID, newStartTime string) (*RescheduleAck, error) {
	meta, err := s.loadOwned(ctx, callerTenant, bookingID)
	if err != nil {
		return nil, err
	}
	if meta["status"] == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	newStart, err := time.Parse(time.RFC3339, newStartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStartTime, err)
	}
	newStart = newStart.UTC()

	oldStart, err := time.Parse(time.RFC3339, meta["startTime"])
	if err != nil {
		return nil, fmt.Errorf("booking %s: bad startTime %q", bookingID, meta["startTime"])
	}
	oldStart = oldStart.UTC()

	durations, err := s.treatments.Durations(ctx, meta["tenantId"], meta["treatmentId"])
	if err != nil {
		s.logger.Warn("treatment lookup failed, using default duration",
			"tenant_id", meta["tenantId"],
			"treatment_id", meta["treatmentId"],
			"error", err,
		)
		durations = treatment.Durations{DurationMinutes: fallbackDurationMinutes}
	}
	newEnd := newStart.Add(durations.Total())

	now := time.Now().UTC().Format(time.RFC3339)
	newStartStr := newStart.Format(time.RFC3339)
	newEndStr := newEnd.Format(time.RFC3339)

	ops := []kv.Op{
		{
			Kind: kv.OpPut,
			PK:   slotPartition(meta["tenantId"], meta["siteId"], newStart),
			SK:   slotSort(newStart, meta["professionalId"]),
			Attrs: kv.Item{
				"bookingId": bookingID,
				"status":    "reserved",
				"createdAt": now,
			},
			Cond: &kv.Cond{Absent: true},
		},
		{
			Kind: kv.OpDelete,
			PK:   slotPartition(meta["tenantId"], meta["siteId"], oldStart),
			SK:   slotSort(oldStart, meta["professionalId"]),
		},
		{
			Kind: kv.OpUpdate,
			PK:   bookingPartition(bookingID),
			SK:   bookingSort,
			Attrs: kv.Item{
				"startTime": newStartStr,
				"endTime":   newEndStr,
				"updatedAt": now,
			},
			Cond: &kv.Cond{NotEquals: &kv.AttrNotEquals{Name: "status", Value: StatusCancelled}},
		},
	}

	if err := s.store.Commit(ctx, ops); err != nil {
		var commitErr *kv.CommitError
		if errors.As(err, &commitErr) {
			// First op is the new slot claim, last op carries the
			// not-cancelled guard.
			if commitErr.OpIndex == 0 {
				return nil, ErrSlotTaken
			}
			return nil, ErrAlreadyCancelled
		}
		return nil, fmt.Errorf("commit reschedule: %w", err)
	}

	s.emitter.Emit(notify.Event{
		Type:           notify.EventRescheduled,
		BookingID:      bookingID,
		TenantID:       meta["tenantId"],
		SiteID:         meta["siteId"],
		ProfessionalID: meta["professionalId"],
		PatientName:    meta["patientName"],
		PatientEmail:   meta["patientEmail"],
		StartTime:      newStartStr,
		EndTime:        newEndStr,
	})

	return &RescheduleAck{
		BookingID:    bookingID,
		NewStartTime: newStartStr,
		NewEndTime:   newEndStr,
		UpdatedAt:    now,
	}, nil
}

// loadOwned fetches a booking's metadata and verifies the caller's tenant
// matches the one stored on the booking.
func (s *bookingService) loadOwned(ctx context.Context, callerTenant, bookingID string) (kv.Item, error) {
	item, err := s.store.Get(ctx, bookingPartition(bookingID), bookingSort)
	if err != nil {
		if err == kv.ErrItemNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if item["tenantId"] != callerTenant {
		return nil, ErrTenantMismatch
	}
	return item, nil
}

func bookingFromItem(item kv.Item) *Booking {
	return &Booking{
		ID:             item["id"],
		TenantID:       item["tenantId"],
		SiteID:         item["siteId"],
		ProfessionalID: item["professionalId"],
		TreatmentID:    item["treatmentId"],
		StartTime:      item["startTime"],
		EndTime:        item["endTime"],
		PatientName:    item["patientName"],
		PatientEmail:   item["patientEmail"],
		Status:         item["status"],
		CreatedAt:      item["createdAt"],
		UpdatedAt:      item["updatedAt"],
	}
}
