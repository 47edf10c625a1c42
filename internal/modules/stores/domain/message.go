package domain

import (
	"strings"
	"time"
)

const (
	StoresEntity  = "stores"
	HarvestEntity = "harvest"
	SystemEntity  = "system"

	ActionHarvested = "harvested"
	ActionRequested = "requested"
	ActionCompleted = "completed"
	ActionConnected = "connected"

	TopicHarvestRequested = HarvestEntity + "." + ActionRequested
	TopicHarvestCompleted = HarvestEntity + "." + ActionCompleted
	TopicStoresHarvested  = StoresEntity + "." + ActionHarvested
	TopicSystemConnected  = SystemEntity + "." + ActionConnected
)

// Message travels between Kafka, the use cases and websocket subscribers.
type Message struct {
	Topic      string            `json:"topic"`
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// CustomTopic returns the canonical topic for the given entity and action.
func CustomTopic(entity, action string) string {
	cleanEntity := strings.TrimSpace(entity)
	cleanAction := strings.TrimSpace(action)
	if cleanEntity == "" || cleanAction == "" {
		return ""
	}
	return cleanEntity + "." + cleanAction
}

// FeatureMessage wraps a harvested feature for broadcasting.
func FeatureMessage(runID string, f *Feature) *Message {
	return &Message{
		Topic:      TopicStoresHarvested,
		Entity:     StoresEntity,
		Action:     ActionHarvested,
		ResourceID: f.Key(),
		Metadata: map[string]string{
			"source": f.Source,
			"runId":  runID,
		},
		Data:      f,
		Timestamp: time.Now().UTC(),
	}
}
