package websocket

import (
	"context"

	"github.com/rs/zerolog"
)

// AuditEvents logs every event published on hub until ctx is cancelled.
// Only the event type and room are logged, never the payload.
func AuditEvents(ctx context.Context, hub *Hub, logger zerolog.Logger) {
	events := make(chan *Event, 64)
	hub.AddListener(events)
	defer hub.RemoveListener(events)

	for {
		select {
		case <-ctx.Done():
			return
		case e := <-events:
			logger.Info().
				Str("type", e.Type).
				Str("room", e.Room).
				Time("publishedAt", e.Timestamp).
				Msg("Realtime event published")
		}
	}
}
