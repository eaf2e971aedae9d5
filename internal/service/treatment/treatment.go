package treatment

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/agendaq/agendaq_backend/pkg/kv"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Durations is what the booking coordinator needs from a treatment: how long
// the appointment blocks the calendar.
type Durations struct {
	DurationMinutes int
	BufferMinutes   int
}

// Total returns the full calendar length of a booking.
func (d Durations) Total() time.Duration {
	return time.Duration(d.DurationMinutes+d.BufferMinutes) * time.Minute
}

type Treatment struct {
	ID              string  `json:"id"`
	TenantID        string  `json:"tenant_id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	BufferMinutes   int     `json:"buffer_minutes"`
	Price           float64 `json:"price"`
	CreatedAt       string  `json:"created_at"`
}

type CreateRequest struct {
	Name            string
	DurationMinutes int
	BufferMinutes   int
	Price           float64
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// Durations resolves the booking length for a tenant's treatment.
	// Returns ErrNotFound when the treatment does not exist for the tenant.
	Durations(ctx context.Context, tenantID, treatmentID string) (Durations, error)

	Create(ctx context.Context, tenantID string, req CreateRequest) (*Treatment, error)
	List(ctx context.Context, tenantID string) ([]*Treatment, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type treatmentService struct {
	store kv.Store
}

func New(store kv.Store) Service {
	return &treatmentService{store: store}
}

func tenantPartition(tenantID string) string { return "TENANT#" + tenantID }
func treatmentSort(treatmentID string) string {
	return "TREATMENT#" + treatmentID
}

func (s *treatmentService) Durations(ctx context.Context, tenantID, treatmentID string) (Durations, error) {
	item, err := s.store.Get(ctx, tenantPartition(tenantID), treatmentSort(treatmentID))
	if err != nil {
		if err == kv.ErrItemNotFound {
			return Durations{}, ErrNotFound
		}
		return Durations{}, fmt.Errorf("get treatment: %w", err)
	}

	duration, err := strconv.Atoi(item["durationMinutes"])
	if err != nil {
		return Durations{}, fmt.Errorf("treatment %s: bad durationMinutes %q", treatmentID, item["durationMinutes"])
	}
	buffer, _ := strconv.Atoi(item["bufferMinutes"])

	return Durations{DurationMinutes: duration, BufferMinutes: buffer}, nil
}

func (s *treatmentService) Create(ctx context.Context, tenantID string, req CreateRequest) (*Treatment, error) {
	if req.DurationMinutes < 5 || req.DurationMinutes > 480 {
		return nil, ErrInvalidDuration
	}
	if req.BufferMinutes < 0 {
		return nil, ErrInvalidDuration
	}

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	attrs := kv.Item{
		"id":              id,
		"tenantId":        tenantID,
		"name":            req.Name,
		"durationMinutes": strconv.Itoa(req.DurationMinutes),
		"bufferMinutes":   strconv.Itoa(req.BufferMinutes),
		"price":           strconv.FormatFloat(req.Price, 'f', -1, 64),
		"createdAt":       now,
	}

	if err := s.store.PutIfAbsent(ctx, tenantPartition(tenantID), treatmentSort(id), attrs); err != nil {
		return nil, fmt.Errorf("create treatment: %w", err)
	}

	return &Treatment{
		ID:              id,
		TenantID:        tenantID,
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		BufferMinutes:   req.BufferMinutes,
		Price:           req.Price,
		CreatedAt:       now,
	}, nil
}

func (s *treatmentService) List(ctx context.Context, tenantID string) ([]*Treatment, error) {
	items, err := s.store.Query(ctx, tenantPartition(tenantID), "TREATMENT#")
	if err != nil {
		return nil, fmt.Errorf("list treatments: %w", err)
	}

	out := make([]*Treatment, 0, len(items))
	for _, item := range items {
		t := &Treatment{
			ID:        item["id"],
			TenantID:  item["tenantId"],
			Name:      item["name"],
			CreatedAt: item["createdAt"],
		}
		t.DurationMinutes, _ = strconv.Atoi(item["durationMinutes"])
		t.BufferMinutes, _ = strconv.Atoi(item["bufferMinutes"])
		t.Price, _ = strconv.ParseFloat(item["price"], 64)
		out = append(out, t)
	}
	return out, nil
}
