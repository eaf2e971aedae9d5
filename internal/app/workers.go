package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/agendaq/agendaq_backend/config"
	"github.com/agendaq/agendaq_backend/internal/service/notify"
	"github.com/agendaq/agendaq_backend/pkg/email"
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc    fx.Lifecycle
	NC    *nats.Conn
	Cfg   *config.Config
	Email *email.Client
}

func RegisterWorkers(p WorkerParams) {
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			startEmailWorker(p.NC, p.Cfg, p.Email)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Drain handled by ProvideNatsClient
			return nil
		},
	})
}

// ---------------------------------------------------------------------------
// email_worker
// ---------------------------------------------------------------------------

func startEmailWorker(nc *nats.Conn, cfg *config.Config, emailCli *email.Client) {
	_, err := nc.Subscribe(notify.SubjectPrefix+"*", func(msg *nats.Msg) {
		var event notify.Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			slog.Warn("email_worker: bad event payload", "subject", msg.Subject, "err", err)
			return
		}
		if event.PatientEmail == "" {
			return
		}

		data := email.BookingEmailData{
			PatientName: event.PatientName,
			Email:       event.PatientEmail,
			BookingID:   event.BookingID,
			Date:        datePart(event.StartTime),
			Time:        timePart(event.StartTime),
			BaseURL:     cfg.Email.AppURL,
		}

		var m email.Message
		switch event.Type {
		case notify.EventConfirmation:
			m = email.BuildBookingConfirmedEmail(data)
		case notify.EventCancellation:
			m = email.BuildBookingCancelledEmail(data)
		case notify.EventRescheduled:
			m = email.BuildBookingRescheduledEmail(data)
		default:
			slog.Warn("email_worker: unknown event type", "type", event.Type)
			return
		}
		m.To = []string{event.PatientEmail}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := emailCli.Send(ctx, m); err != nil {
			slog.Warn("email_worker: send failed",
				"type", event.Type,
				"booking_id", event.BookingID,
				"err", err,
			)
		}
	})
	if err != nil {
		slog.Error("email_worker: subscribe failed", "err", err)
		return
	}

	slog.Info("email_worker: started")
}

func datePart(rfc3339 string) string {
	t, err := time.Parse(time.RFC3339, rfc3339)
	if err != nil {
		return rfc3339
	}
	return t.UTC().Format("2006-01-02")
}

func timePart(rfc3339 string) string {
	t, err := time.Parse(time.RFC3339, rfc3339)
	if err != nil {
		return ""
	}
	return t.UTC().Format("15:04")
}
