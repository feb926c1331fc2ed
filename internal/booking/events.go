package booking

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// eventRecorder appends audit rows. Failures are logged, never returned.
type eventRecorder struct {
	repo Repository
	log  zerolog.Logger
}

func (e eventRecorder) record(ctx context.Context, bookingID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		e.log.Error().Err(err).Str("event", eventType).Msg("marshal event payload")
		data = nil
	}

	id := bookingID
	ev := Event{
		Type:      eventType,
		BookingID: &id,
		Payload:   data,
		CreatedAt: time.Now(),
	}

	if err := e.repo.InsertEvent(ctx, ev); err != nil {
		e.log.Error().Err(err).
			Str("event", eventType).
			Str("booking_id", bookingID.String()).
			Msg("insert booking event")
	}
}
