package availability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agendaq/agendaq_backend/pkg/kv"
)

// Business hours and slot geometry for the availability grid. Candidate
// starts run every 15 minutes from 09:00 up to 16:45 and each slot spans
// 45 minutes.
const (
	openHour     = 9
	closeHour    = 17
	slotMinutes  = 45
	defaultProID = "default"
)

type Slot struct {
	Start          string `json:"start"`
	End            string `json:"end"`
	ProfessionalID string `json:"professional_id"`
	Available      bool   `json:"available"`
}

type Query struct {
	TenantID       string
	SiteID         string
	Date           string // "2006-01-02", defaults to tomorrow UTC
	ProfessionalID string // optional; empty means any professional
}

type Result struct {
	Date  string
	Slots []Slot
}

type Service interface {
	// Slots computes the open slot grid for a site on a given day.
	Slots(ctx context.Context, q Query) (*Result, error)
}

type availabilityService struct {
	store kv.Store
}

func New(store kv.Store) Service {
	return &availabilityService{store: store}
}

func (s *availabilityService) Slots(ctx context.Context, q Query) (*Result, error) {
	day, err := resolveDate(q.Date)
	if err != nil {
		return nil, err
	}

	pk := fmt.Sprintf("TENANT#%s#SITE#%s#DATE#%s", q.TenantID, q.SiteID, day.Format("2006-01-02"))
	items, err := s.store.Query(ctx, pk, "SLOT#")
	if err != nil {
		return nil, fmt.Errorf("query reserved slots: %w", err)
	}

	// Occupied tokens are the sort keys minus the prefix: "09:00#prof-1".
	occupied := make([]string, 0, len(items))
	for _, item := range items {
		occupied = append(occupied, strings.TrimPrefix(item[kv.AttrSK], "SLOT#"))
	}

	professional := q.ProfessionalID
	if professional == "" {
		professional = defaultProID
	}

	var slots []Slot
	for hour := openHour; hour < closeHour; hour++ {
		for _, minute := range []int{0, 15, 30, 45} {
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)

			// A candidate is free unless some reservation starts at the
			// same time. When a professional filter is given, only that
			// professional's reservations count.
			prefix := start.Format("15:04")
			if q.ProfessionalID != "" {
				prefix += "#" + q.ProfessionalID
			}
			free := true
			for _, token := range occupied {
				if strings.HasPrefix(token, prefix) {
					free = false
					break
				}
			}
			if !free {
				continue
			}

			slots = append(slots, Slot{
				Start:          start.Format(time.RFC3339),
				End:            start.Add(slotMinutes * time.Minute).Format(time.RFC3339),
				ProfessionalID: professional,
				Available:      true,
			})
		}
	}

	return &Result{Date: day.Format("2006-01-02"), Slots: slots}, nil
}

func resolveDate(date string) (time.Time, error) {
	if date == "" {
		return time.Now().UTC().AddDate(0, 0, 1), nil
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return day, nil
}
