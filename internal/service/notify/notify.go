package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

const (
	EventConfirmation = "confirmation"
	EventCancellation = "cancellation"
	EventRescheduled  = "rescheduled"
)

// SubjectPrefix is the NATS subject namespace for booking lifecycle events.
// Full subjects look like "agendaq.booking.confirmation".
const SubjectPrefix = "agendaq.booking."

// Event is the payload published after a booking lifecycle change commits.
type Event struct {
	Type           string `json:"type"`
	BookingID      string `json:"booking_id"`
	TenantID       string `json:"tenant_id"`
	SiteID         string `json:"site_id"`
	ProfessionalID string `json:"professional_id"`
	PatientName    string `json:"patient_name"`
	PatientEmail   string `json:"patient_email"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
}

// Emitter publishes booking events. Implementations must not block the
// request path; delivery is best effort and failures are logged, never
// surfaced to the caller.
type Emitter interface {
	Emit(event Event)
}

type natsEmitter struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewNatsEmitter(conn *nats.Conn, logger *slog.Logger) Emitter {
	return &natsEmitter{conn: conn, logger: logger}
}

func (e *natsEmitter) Emit(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		e.logger.Error("marshal booking event", "type", event.Type, "error", err)
		return
	}
	subject := Subject(event.Type)
	if err := e.conn.Publish(subject, data); err != nil {
		e.logger.Warn("publish booking event",
			"subject", subject,
			"booking_id", event.BookingID,
			"error", err,
		)
	}
}

// NopEmitter discards events. Used when NATS is disabled and in tests.
type NopEmitter struct{}

func (NopEmitter) Emit(Event) {}

// Subject returns the full subject for an event type.
func Subject(eventType string) string {
	return fmt.Sprintf("%s%s", SubjectPrefix, eventType)
}
