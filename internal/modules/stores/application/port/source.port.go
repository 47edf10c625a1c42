package port

import (
	"context"
	"errors"

	"poiharvest/internal/modules/stores/domain"
)

var (
	// ErrSourceNotFound indicates no adapter is registered under the requested name.
	ErrSourceNotFound = errors.New("source not found")
	// ErrSourceUnavailable indicates the upstream API could not be reached or answered badly.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrHarvestInProgress is returned when a run for the same source has not finished yet.
	ErrHarvestInProgress = errors.New("harvest already in progress")
)

// Source fetches every location a brand publishes and maps it into features.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]*domain.Feature, error)
}

// SourceLookup resolves sources by name.
type SourceLookup interface {
	Get(name string) (Source, bool)
	Names() []string
}
