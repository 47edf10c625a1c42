package usecase

import (
	"sort"
	"strings"
	"sync"

	"poiharvest/internal/modules/stores/domain"
)

// featureCache keeps the latest accepted features per source.
type featureCache struct {
	mu      sync.RWMutex
	entries map[string]*featureCacheEntry
}

type featureCacheEntry struct {
	result   domain.HarvestResult
	features []*domain.Feature
}

func newFeatureCache() *featureCache {
	return &featureCache{entries: make(map[string]*featureCacheEntry)}
}

func (c *featureCache) set(source string, result domain.HarvestResult, features []*domain.Feature) {
	source = strings.TrimSpace(source)
	if source == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[source] = &featureCacheEntry{
		result:   result,
		features: append([]*domain.Feature(nil), features...),
	}
}

func (c *featureCache) get(source string) (*featureCacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[strings.TrimSpace(source)]
	if !ok {
		return nil, false
	}
	return entry.clone(), true
}

func (c *featureCache) sources() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.entries) == 0 {
		return nil
	}
	results := make([]string, 0, len(c.entries))
	for source := range c.entries {
		results = append(results, source)
	}
	sort.Strings(results)
	return results
}

func (e *featureCacheEntry) clone() *featureCacheEntry {
	if e == nil {
		return nil
	}
	cloned := *e
	cloned.features = append([]*domain.Feature(nil), e.features...)
	return &cloned
}
