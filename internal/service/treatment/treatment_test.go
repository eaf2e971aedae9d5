package treatment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agendaq/agendaq_backend/pkg/kv"
)

func TestCreateAndDurations(t *testing.T) {
	svc := New(kv.NewMemoryStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, "t1", CreateRequest{
		Name:            "Deep tissue massage",
		DurationMinutes: 60,
		BufferMinutes:   15,
		Price:           85,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Fatal("Create() returned empty id")
	}

	d, err := svc.Durations(ctx, "t1", created.ID)
	if err != nil {
		t.Fatalf("Durations() error = %v", err)
	}
	if d.DurationMinutes != 60 || d.BufferMinutes != 15 {
		t.Errorf("durations = %+v, want 60/15", d)
	}
	if d.Total() != 75*time.Minute {
		t.Errorf("Total() = %v, want 75m", d.Total())
	}
}

func TestDurationsNotFound(t *testing.T) {
	svc := New(kv.NewMemoryStore())

	_, err := svc.Durations(context.Background(), "t1", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Durations() error = %v, want ErrNotFound", err)
	}
}

func TestDurationsTenantIsolation(t *testing.T) {
	svc := New(kv.NewMemoryStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, "t1", CreateRequest{Name: "Consultation", DurationMinutes: 30})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// The same id under a different tenant resolves to nothing.
	if _, err := svc.Durations(ctx, "t2", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Durations() error = %v, want ErrNotFound", err)
	}
}

func TestCreateInvalidDuration(t *testing.T) {
	svc := New(kv.NewMemoryStore())

	tests := []struct {
		name     string
		duration int
		buffer   int
	}{
		{"too short", 3, 0},
		{"too long", 481, 0},
		{"negative buffer", 30, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "t1", CreateRequest{
				Name:            "x",
				DurationMinutes: tt.duration,
				BufferMinutes:   tt.buffer,
			})
			if !errors.Is(err, ErrInvalidDuration) {
				t.Fatalf("Create() error = %v, want ErrInvalidDuration", err)
			}
		})
	}
}

func TestList(t *testing.T) {
	svc := New(kv.NewMemoryStore())
	ctx := context.Background()

	for _, name := range []string{"Consultation", "Follow-up", "Massage"} {
		if _, err := svc.Create(ctx, "t1", CreateRequest{Name: name, DurationMinutes: 30}); err != nil {
			t.Fatalf("Create(%s) error = %v", name, err)
		}
	}

	treatments, err := svc.List(ctx, "t1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(treatments) != 3 {
		t.Fatalf("len = %d, want 3", len(treatments))
	}

	other, err := svc.List(ctx, "t2")
	if err != nil {
		t.Fatalf("List(t2) error = %v", err)
	}
	if len(other) != 0 {
		t.Errorf("tenant t2 sees %d treatments, want 0", len(other))
	}
}
