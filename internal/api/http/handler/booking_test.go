package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/agendaq/agendaq_backend/internal/service/booking"
	"github.com/agendaq/agendaq_backend/internal/service/notify"
	"github.com/agendaq/agendaq_backend/internal/service/treatment"
	"github.com/agendaq/agendaq_backend/pkg/kv"
	pasetotoken "github.com/agendaq/agendaq_backend/pkg/paseto"
)

// asTenant is a stand-in for the auth middleware in tests. It injects the
// claims the PASETO verifier would have stored.
func asTenant(tenantID string) fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Locals(pasetotoken.CtxKeyClaims, &pasetotoken.Claims{
			Type:     pasetotoken.TokenTypeAccess,
			TenantID: tenantID,
		})
		return c.Next()
	}
}

func newTestApp(t *testing.T, tenantID string) (*fiber.App, string) {
	t.Helper()

	store := kv.NewMemoryStore()
	treatments := treatment.New(store)

	created, err := treatments.Create(context.Background(), "t1", treatment.CreateRequest{
		Name:            "Consultation",
		DurationMinutes: 45,
	})
	if err != nil {
		t.Fatalf("seed treatment: %v", err)
	}

	svc := booking.New(store, treatments, notify.NopEmitter{}, slog.Default())
	h := NewBookingHandler(svc)

	app := fiber.New()
	grp := app.Group("/bookings", asTenant(tenantID))
	grp.Post("/", h.Create)
	grp.Get("/", h.List)
	grp.Delete("/:id", h.Cancel)

	return app, created.ID
}

func postBooking(t *testing.T, app *fiber.App, body map[string]any) (int, []byte) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest("POST", "/bookings/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func validBody(treatmentID string) map[string]any {
	return map[string]any{
		"tenant_id":       "t1",
		"site_id":         "s1",
		"professional_id": "prof-1",
		"treatment_id":    treatmentID,
		"start_time":      "2025-10-01T09:00:00Z",
		"patient_name":    "Ana Souza",
		"patient_email":   "ana@example.com",
	}
}

func TestCreateBookingHTTP(t *testing.T) {
	app, treatmentID := newTestApp(t, "t1")

	code, data := postBooking(t, app, validBody(treatmentID))
	if code != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", code, data)
	}

	var b booking.Booking
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if b.Status != booking.StatusConfirmed {
		t.Errorf("status = %q", b.Status)
	}
	if b.EndTime != "2025-10-01T09:45:00Z" {
		t.Errorf("end time = %q", b.EndTime)
	}
}

func TestCreateBookingConflictHTTP(t *testing.T) {
	app, treatmentID := newTestApp(t, "t1")

	if code, _ := postBooking(t, app, validBody(treatmentID)); code != fiber.StatusCreated {
		t.Fatalf("first status = %d", code)
	}
	code, data := postBooking(t, app, validBody(treatmentID))
	if code != fiber.StatusConflict {
		t.Fatalf("second status = %d, want 409", code)
	}

	var body struct {
		Error  string `json:"error"`
		Status int    `json:"status"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != fiber.StatusConflict || body.Error == "" {
		t.Errorf("error body = %+v", body)
	}
}

func TestCreateBookingForeignTenantHTTP(t *testing.T) {
	// Token says t2, payload says t1.
	app, treatmentID := newTestApp(t, "t2")

	code, _ := postBooking(t, app, validBody(treatmentID))
	if code != fiber.StatusForbidden {
		t.Fatalf("status = %d, want 403", code)
	}
}

func TestCancelBookingForeignTenantHTTP(t *testing.T) {
	store := kv.NewMemoryStore()
	treatments := treatment.New(store)

	created, err := treatments.Create(context.Background(), "t1", treatment.CreateRequest{
		Name:            "Consultation",
		DurationMinutes: 45,
	})
	if err != nil {
		t.Fatalf("seed treatment: %v", err)
	}

	svc := booking.New(store, treatments, notify.NopEmitter{}, slog.Default())
	b, err := svc.Create(context.Background(), "t1", booking.CreateRequest{
		TenantID:       "t1",
		SiteID:         "s1",
		ProfessionalID: "prof-1",
		TreatmentID:    created.ID,
		StartTime:      "2025-10-01T09:00:00Z",
		PatientName:    "Ana Souza",
		PatientEmail:   "ana@example.com",
	})
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	h := NewBookingHandler(svc)
	app := fiber.New()
	grp := app.Group("/bookings", asTenant("t2"))
	grp.Delete("/:id", h.Cancel)

	req := httptest.NewRequest("DELETE", "/bookings/"+b.ID, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func TestCreateBookingValidationHTTP(t *testing.T) {
	app, treatmentID := newTestApp(t, "t1")

	body := validBody(treatmentID)
	body["patient_email"] = "not-an-email"

	code, _ := postBooking(t, app, body)
	if code != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
}

func TestListBookingsHTTP(t *testing.T) {
	app, treatmentID := newTestApp(t, "t1")

	if code, _ := postBooking(t, app, validBody(treatmentID)); code != fiber.StatusCreated {
		t.Fatalf("create status = %d", code)
	}

	req := httptest.NewRequest("GET", "/bookings/", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Bookings []booking.Booking `json:"bookings"`
		Count    int               `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Count != 1 || len(body.Bookings) != 1 {
		t.Errorf("count = %d, bookings = %d", body.Count, len(body.Bookings))
	}
}
