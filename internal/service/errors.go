package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/m2gi/ecom/internal/events"
	"github.com/m2gi/ecom/pkg/logging"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

// publish is best effort: failures are logged and never fail the operation.
func publish(ctx context.Context, pub events.Publisher, topic, key string, event events.Event) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), events.PublishTimeout)
	defer cancel()

	if err := pub.Publish(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("publish_event_error", "topic", topic, "type", event["type"], "error", err)
	}
}
