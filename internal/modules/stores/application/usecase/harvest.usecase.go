package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"poiharvest/internal/modules/stores/application/port"
	"poiharvest/internal/modules/stores/domain"
)

// HarvestUseCase runs source adapters, keeps their latest output and fans it out to
// Kafka and websocket subscribers.
type HarvestUseCase struct {
	sources     port.SourceLookup
	publisher   port.FeaturePublisher
	broadcaster port.Broadcaster
	cache       *featureCache
	now         func() time.Time
	newRunID    func() string

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewHarvestUseCase wires the use case. publisher and broadcaster may be nil.
func NewHarvestUseCase(sources port.SourceLookup, publisher port.FeaturePublisher, broadcaster port.Broadcaster) *HarvestUseCase {
	return &HarvestUseCase{
		sources:     sources,
		publisher:   publisher,
		broadcaster: broadcaster,
		cache:       newFeatureCache(),
		now:         time.Now,
		newRunID:    uuid.NewString,
		inflight:    make(map[string]struct{}),
	}
}

// Sources lists the registered source names.
func (uc *HarvestUseCase) Sources() []string {
	return uc.sources.Names()
}

// Run harvests a single source. Invalid features are dropped and counted as rejected.
func (uc *HarvestUseCase) Run(ctx context.Context, name string) (*domain.HarvestResult, error) {
	source, ok := uc.sources.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", port.ErrSourceNotFound, name)
	}
	if !uc.acquire(source.Name()) {
		return nil, fmt.Errorf("%w: %s", port.ErrHarvestInProgress, source.Name())
	}
	defer uc.release(source.Name())

	result := &domain.HarvestResult{
		RunID:     uc.newRunID(),
		Source:    source.Name(),
		StartedAt: uc.now().UTC(),
	}
	logger := slog.With(slog.String("source", result.Source), slog.String("runId", result.RunID))
	logger.Info("harvest started")

	features, err := source.Fetch(ctx)
	result.FinishedAt = uc.now().UTC()
	if err != nil {
		result.Error = err.Error()
		logger.Error("harvest failed", slog.Any("error", err))
		uc.broadcast(ctx, completionMessage(result))
		return result, fmt.Errorf("harvest %s: %w", result.Source, err)
	}

	accepted := make([]*domain.Feature, 0, len(features))
	for _, f := range features {
		if f == nil {
			continue
		}
		if err := f.Validate(); err != nil {
			result.Rejected++
			logger.Warn("feature rejected", slog.String("ref", f.Ref), slog.Any("error", err))
			continue
		}
		accepted = append(accepted, f)
	}
	result.Accepted = len(accepted)
	result.Features = accepted
	uc.cache.set(result.Source, *result, accepted)

	msgs := make([]*domain.Message, 0, len(accepted))
	for _, f := range accepted {
		msgs = append(msgs, domain.FeatureMessage(result.RunID, f))
	}
	if uc.publisher != nil && len(msgs) > 0 {
		if err := uc.publisher.Publish(ctx, msgs...); err != nil {
			logger.Error("feature publish failed", slog.Int("count", len(msgs)), slog.Any("error", err))
		}
	}
	for _, msg := range msgs {
		uc.broadcast(ctx, msg)
	}
	uc.broadcast(ctx, completionMessage(result))

	logger.Info("harvest finished",
		slog.Int("accepted", result.Accepted),
		slog.Int("rejected", result.Rejected),
		slog.Duration("duration", result.Duration()),
	)
	return result, nil
}

// RunAll harvests every registered source concurrently. Failures of one source do not
// affect the others; results are ordered by source name.
func (uc *HarvestUseCase) RunAll(ctx context.Context) []*domain.HarvestResult {
	names := uc.sources.Names()
	results := make([]*domain.HarvestResult, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			result, err := uc.Run(ctx, name)
			if result == nil {
				result = &domain.HarvestResult{Source: name}
				if err != nil {
					result.Error = err.Error()
				}
			}
			results[i] = result
		}(i, name)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Source < results[j].Source })
	return results
}

// Cached returns the features accepted by the last successful run of source.
func (uc *HarvestUseCase) Cached(name string) ([]*domain.Feature, *domain.HarvestResult, error) {
	source, ok := uc.sources.Get(name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", port.ErrSourceNotFound, name)
	}
	entry, ok := uc.cache.get(source.Name())
	if !ok {
		return nil, nil, nil
	}
	result := entry.result
	return entry.features, &result, nil
}

// Harvested lists sources with cached results.
func (uc *HarvestUseCase) Harvested() []string {
	return uc.cache.sources()
}

func (uc *HarvestUseCase) acquire(name string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, busy := uc.inflight[name]; busy {
		return false
	}
	uc.inflight[name] = struct{}{}
	return true
}

func (uc *HarvestUseCase) release(name string) {
	uc.mu.Lock()
	delete(uc.inflight, name)
	uc.mu.Unlock()
}

func (uc *HarvestUseCase) broadcast(ctx context.Context, msg *domain.Message) {
	if uc.broadcaster == nil || msg == nil {
		return
	}
	uc.broadcaster.Broadcast(ctx, msg)
}

func completionMessage(result *domain.HarvestResult) *domain.Message {
	return &domain.Message{
		Topic:      domain.TopicHarvestCompleted,
		Entity:     domain.HarvestEntity,
		Action:     domain.ActionCompleted,
		ResourceID: result.RunID,
		Metadata:   map[string]string{"source": result.Source, "runId": result.RunID},
		Data:       result,
		Timestamp:  time.Now().UTC(),
	}
}
