package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/agendaq/agendaq_backend/internal/service/availability"
	"github.com/agendaq/agendaq_backend/pkg/kv"
)

func newAvailabilityApp(t *testing.T) *fiber.App {
	t.Helper()

	svc := availability.New(kv.NewMemoryStore())
	h := NewAvailabilityHandler(svc)

	app := fiber.New()
	app.Post("/availability", asTenant("t1"), h.Slots)
	return app
}

func postAvailability(t *testing.T, app *fiber.App, body map[string]any) (int, []byte) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest("POST", "/availability", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, buf.Bytes()
}

func TestAvailabilityHTTP(t *testing.T) {
	app := newAvailabilityApp(t)

	code, data := postAvailability(t, app, map[string]any{
		"site_id": "s1",
		"date":    "2025-10-01",
	})
	if code != fiber.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", code, data)
	}

	var body struct {
		Slots []availability.Slot `json:"slots"`
		Total int                 `json:"total"`
		Date  string              `json:"date"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Total != 32 || body.Date != "2025-10-01" {
		t.Errorf("total = %d, date = %q", body.Total, body.Date)
	}
}

func TestAvailabilityValidationHTTP(t *testing.T) {
	app := newAvailabilityApp(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing site", map[string]any{"date": "2025-10-01"}},
		{"site too long", map[string]any{"site_id": strings.Repeat("s", 51)}},
		{"professional too long", map[string]any{"site_id": "s1", "professional_id": strings.Repeat("p", 51)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, data := postAvailability(t, app, tt.body)
			if code != fiber.StatusBadRequest {
				t.Fatalf("status = %d, want 400, body %s", code, data)
			}
		})
	}
}

func TestAvailabilityBadDateHTTP(t *testing.T) {
	app := newAvailabilityApp(t)

	code, _ := postAvailability(t, app, map[string]any{
		"site_id": "s1",
		"date":    "01/10/2025",
	})
	if code != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
}
