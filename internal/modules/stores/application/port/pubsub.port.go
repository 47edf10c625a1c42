package port

import (
	"context"

	"poiharvest/internal/modules/stores/domain"
)

// FeaturePublisher pushes harvested features to downstream consumers (Kafka).
type FeaturePublisher interface {
	Publish(ctx context.Context, msgs ...*domain.Message) error
}

// Broadcaster sends messages to connected websocket clients.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message)
}

// TopicHandler is implemented by handlers registered per consumed topic.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, msg *domain.Message) error
}
