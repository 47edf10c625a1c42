package handler

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"poiharvest/internal/modules/stores/application/port"
	"poiharvest/internal/modules/stores/application/usecase"
	"poiharvest/internal/modules/stores/domain"
)

// HarvestRequestedHandler handles harvest.requested events. The source comes from
// metadata["source"], falling back to the resource id; an empty source harvests all.
type HarvestRequestedHandler struct {
	UseCase *usecase.HarvestUseCase
}

func (h *HarvestRequestedHandler) Topic() string { return domain.TopicHarvestRequested }

func (h *HarvestRequestedHandler) Handle(ctx context.Context, msg *domain.Message) error {
	source := ""
	if msg.Metadata != nil {
		source = strings.TrimSpace(msg.Metadata["source"])
	}
	if source == "" {
		source = strings.TrimSpace(msg.ResourceID)
	}

	if source == "" || source == "*" {
		results := h.UseCase.RunAll(ctx)
		slog.Info("harvest of all sources finished", slog.Int("sources", len(results)))
		return nil
	}

	_, err := h.UseCase.Run(ctx, source)
	if errors.Is(err, port.ErrHarvestInProgress) {
		slog.Info("harvest request ignored, run in progress", slog.String("source", source))
		return nil
	}
	return err
}

var _ port.TopicHandler = (*HarvestRequestedHandler)(nil)
