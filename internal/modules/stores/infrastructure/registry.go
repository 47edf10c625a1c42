package infrastructure

import (
	"context"
	"sort"
	"strings"
	"sync"

	"poiharvest/internal/modules/stores/application/port"
	"poiharvest/internal/modules/stores/domain"
)

// SourceRegistry indexes source adapters by name.
type SourceRegistry struct {
	mu      sync.RWMutex
	sources map[string]port.Source
}

func NewSourceRegistry(sources ...port.Source) *SourceRegistry {
	r := &SourceRegistry{sources: make(map[string]port.Source)}
	for _, s := range sources {
		r.Register(s)
	}
	return r
}

func (r *SourceRegistry) Register(s port.Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[strings.ToLower(s.Name())] = s
}

func (r *SourceRegistry) Get(name string) (port.Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

func (r *SourceRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sources))
	for _, s := range r.sources {
		names = append(names, s.Name())
	}
	sort.Strings(names)
	return names
}

var _ port.SourceLookup = (*SourceRegistry)(nil)

// HandlerRegistry routes consumed broker messages to the handler registered for their topic.
type HandlerRegistry struct {
	handlers map[string]port.TopicHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[string]port.TopicHandler)}
}

func (r *HandlerRegistry) Register(h port.TopicHandler) {
	r.handlers[h.Topic()] = h
}

// Topics lists the topics with a registered handler.
func (r *HandlerRegistry) Topics() []string {
	topics := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

func (r *HandlerRegistry) Dispatch(ctx context.Context, msg *domain.Message) error {
	if handler, ok := r.handlers[msg.Topic]; ok {
		return handler.Handle(ctx, msg)
	}
	return nil
}
