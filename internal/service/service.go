package service

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/bistro_boss/internal/events"
	"github.com/Skotchmaster/bistro_boss/internal/logging"
)

var (
	ErrValidation = errors.New("validation")
	ErrExists     = errors.New("already exists")
)

// publish sends ev and only logs a failure; events never fail a request.
func publish(ctx context.Context, pub events.Publisher, topic string, ev events.Event) {
	if pub == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	if err := pub.Publish(ctx, topic, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "topic", topic, "type", ev.Type, "error", err)
	}
}
