package notification

import (
	"context"

	"stayhub/utils"

	"go.uber.org/zap"
)

// Event is a domain event carried to the notification collaborator.
type Event interface {
	EventName() string
	AggregateID() string
}

// NotificationService is the boundary to the external notification system.
// Delivery mechanics (push, email, chat) live outside this repository.
type NotificationService interface {
	Publish(ctx context.Context, event Event)
}

// LogNotificationService records events on the application log. It stands in
// for the external delivery pipeline in development and tests.
type LogNotificationService struct{}

func (s *LogNotificationService) Publish(_ context.Context, event Event) {
	utils.GetLogger().Info("domain event",
		zap.String("event", event.EventName()),
		zap.String("aggregate_id", event.AggregateID()),
		zap.Any("payload", event),
	)
}
