package availability

import (
	"context"
	"errors"
	"testing"

	"github.com/agendaq/agendaq_backend/pkg/kv"
)

func reserveSlot(t *testing.T, store kv.Store, pk, token string) {
	t.Helper()
	err := store.PutIfAbsent(context.Background(), pk, "SLOT#"+token, kv.Item{
		"bookingId": "b-" + token,
		"status":    "reserved",
	})
	if err != nil {
		t.Fatalf("reserve slot %s: %v", token, err)
	}
}

func TestSlotsEmptyDay(t *testing.T) {
	svc := New(kv.NewMemoryStore())

	result, err := svc.Slots(context.Background(), Query{
		TenantID: "t1",
		SiteID:   "s1",
		Date:     "2025-10-01",
	})
	if err != nil {
		t.Fatalf("Slots() error = %v", err)
	}

	// 8 hours at 4 candidate starts per hour.
	if len(result.Slots) != 32 {
		t.Fatalf("len = %d, want 32", len(result.Slots))
	}
	first := result.Slots[0]
	if first.Start != "2025-10-01T09:00:00Z" || first.End != "2025-10-01T09:45:00Z" {
		t.Errorf("first slot = %s - %s", first.Start, first.End)
	}
	last := result.Slots[len(result.Slots)-1]
	if last.Start != "2025-10-01T16:45:00Z" {
		t.Errorf("last slot start = %s", last.Start)
	}
	if result.Date != "2025-10-01" {
		t.Errorf("date = %q", result.Date)
	}
}

func TestSlotsOccupied(t *testing.T) {
	store := kv.NewMemoryStore()
	svc := New(store)

	reserveSlot(t, store, "TENANT#t1#SITE#s1#DATE#2025-10-01", "09:00#profA")

	result, err := svc.Slots(context.Background(), Query{
		TenantID: "t1",
		SiteID:   "s1",
		Date:     "2025-10-01",
	})
	if err != nil {
		t.Fatalf("Slots() error = %v", err)
	}

	if len(result.Slots) != 31 {
		t.Fatalf("len = %d, want 31", len(result.Slots))
	}
	// 09:00 is taken so the grid starts at 09:15.
	if result.Slots[0].Start != "2025-10-01T09:15:00Z" {
		t.Errorf("first slot = %s", result.Slots[0].Start)
	}
	if result.Slots[0].End != "2025-10-01T10:00:00Z" {
		t.Errorf("first slot end = %s", result.Slots[0].End)
	}
}

func TestSlotsProfessionalFilter(t *testing.T) {
	store := kv.NewMemoryStore()
	svc := New(store)

	reserveSlot(t, store, "TENANT#t1#SITE#s1#DATE#2025-10-01", "09:00#profA")
	reserveSlot(t, store, "TENANT#t1#SITE#s1#DATE#2025-10-01", "10:00#profB")

	// profB only collides with their own reservation.
	result, err := svc.Slots(context.Background(), Query{
		TenantID:       "t1",
		SiteID:         "s1",
		Date:           "2025-10-01",
		ProfessionalID: "profB",
	})
	if err != nil {
		t.Fatalf("Slots() error = %v", err)
	}
	if len(result.Slots) != 31 {
		t.Fatalf("len = %d, want 31", len(result.Slots))
	}
	for _, slot := range result.Slots {
		if slot.Start == "2025-10-01T10:00:00Z" {
			t.Errorf("10:00 offered to profB despite their reservation")
		}
		if slot.ProfessionalID != "profB" {
			t.Errorf("professional = %q, want profB", slot.ProfessionalID)
		}
	}
}

func TestSlotsTenantIsolation(t *testing.T) {
	store := kv.NewMemoryStore()
	svc := New(store)

	reserveSlot(t, store, "TENANT#t1#SITE#s1#DATE#2025-10-01", "09:00#profA")

	// Another tenant's grid at the same site name is unaffected.
	result, err := svc.Slots(context.Background(), Query{
		TenantID: "t2",
		SiteID:   "s1",
		Date:     "2025-10-01",
	})
	if err != nil {
		t.Fatalf("Slots() error = %v", err)
	}
	if len(result.Slots) != 32 {
		t.Fatalf("len = %d, want 32", len(result.Slots))
	}
}

func TestSlotsInvalidDate(t *testing.T) {
	svc := New(kv.NewMemoryStore())

	_, err := svc.Slots(context.Background(), Query{
		TenantID: "t1",
		SiteID:   "s1",
		Date:     "01/10/2025",
	})
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("Slots() error = %v, want ErrInvalidDate", err)
	}
}

func TestSlotsDefaultProfessional(t *testing.T) {
	svc := New(kv.NewMemoryStore())

	result, err := svc.Slots(context.Background(), Query{
		TenantID: "t1",
		SiteID:   "s1",
		Date:     "2025-10-01",
	})
	if err != nil {
		t.Fatalf("Slots() error = %v", err)
	}
	if result.Slots[0].ProfessionalID != "default" {
		t.Errorf("professional = %q, want default", result.Slots[0].ProfessionalID)
	}
}
