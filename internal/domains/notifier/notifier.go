package notifier

//go:generate go run go.uber.org/mock/mockgen -source=./notifier.go -destination=./mocks/notifier_mock.go -package=mocks

import (
	"context"
	"time"

	"plek/config"
	"plek/infras/kafka"
	"plek/infras/otel"
	"plek/shared/constant"
	"plek/shared/timezone"

	"github.com/rs/zerolog/log"
)

// TimeFormat is the human-readable form used in outgoing notifications,
// e.g. "Monday, January 2, 2006 at 3:04 PM".
const TimeFormat = "Monday, January 2, 2006 at 3:04 PM"

const (
	EventBookingCreated   = "booking.created"
	EventBookingModified  = "booking.modified"
	EventBookingCancelled = "booking.cancelled"
	EventBookingApproved  = "booking.approved"
	EventBookingRejected  = "booking.rejected"
	EventBookingOverriden = "booking.overridden"
)

// Event is the payload published for every booking lifecycle change. The
// notification workers downstream render emails from it, so times are
// pre-formatted in the institute timezone.
type Event struct {
	Type      string `json:"type"`
	BookingID string `json:"booking_id"`
	RoomID    string `json:"room_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason,omitempty"`
}

type Notifier interface {
	Publish(ctx context.Context, event Event) error
}

type notifierImpl struct {
	cfg    *config.Config
	client kafka.Client
	otel   otel.Otel
}

func New(cfg *config.Config, client kafka.Client, otel otel.Otel) Notifier {
	return &notifierImpl{
		cfg:    cfg,
		client: client,
		otel:   otel,
	}
}

func (n *notifierImpl) Publish(ctx context.Context, event Event) error {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".booking.Publish")
	defer scope.End()

	err := n.client.SendMessages(ctx, n.cfg.Kafka.BookingTopic, kafka.Message{
		Key:   event.BookingID,
		Value: event,
	})
	if err != nil {
		log.Error().Err(err).Str("type", event.Type).Msg("failed to publish booking event")
		scope.TraceError(err)

		return err //nolint:wrapcheck
	}

	return nil
}

// FormatEventTime renders an instant the way notification emails show it.
func FormatEventTime(t time.Time) string {
	return timezone.Format(t, TimeFormat)
}
