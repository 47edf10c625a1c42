package handler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"poiharvest/internal/modules/stores/application/port"
	"poiharvest/internal/modules/stores/application/usecase"
	"poiharvest/internal/modules/stores/domain"
)

type countingSource struct {
	name  string
	mu    sync.Mutex
	calls int
}

func (s *countingSource) Name() string { return s.name }

func (s *countingSource) Fetch(context.Context) ([]*domain.Feature, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return nil, nil
}

func (s *countingSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type lookup map[string]port.Source

func (l lookup) Get(name string) (port.Source, bool) {
	s, ok := l[name]
	return s, ok
}

func (l lookup) Names() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TestHarvestRequestedHandler(t *testing.T) {
	tus := &countingSource{name: "tus_si"}
	mercator := &countingSource{name: "mercator_si"}
	h := &HarvestRequestedHandler{UseCase: usecase.NewHarvestUseCase(lookup{"tus_si": tus, "mercator_si": mercator}, nil, nil)}

	if h.Topic() != domain.TopicHarvestRequested {
		t.Fatalf("unexpected topic %q", h.Topic())
	}

	if err := h.Handle(context.Background(), &domain.Message{Metadata: map[string]string{"source": "tus_si"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := h.Handle(context.Background(), &domain.Message{ResourceID: "mercator_si"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tus.Calls() != 1 || mercator.Calls() != 1 {
		t.Fatalf("expected one run each, got tus=%d mercator=%d", tus.Calls(), mercator.Calls())
	}

	if err := h.Handle(context.Background(), &domain.Message{ResourceID: "*"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tus.Calls() != 2 || mercator.Calls() != 2 {
		t.Fatalf("expected all sources to run, got tus=%d mercator=%d", tus.Calls(), mercator.Calls())
	}

	err := h.Handle(context.Background(), &domain.Message{ResourceID: "lidl_si"})
	if !errors.Is(err, port.ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}
}
