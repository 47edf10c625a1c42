package transport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"poiharvest/internal/modules/stores/application/port"
	"poiharvest/internal/modules/stores/application/usecase"
	"poiharvest/internal/modules/stores/domain"
	"poiharvest/internal/modules/stores/infrastructure"
	"poiharvest/internal/shared/auth"
	"poiharvest/internal/shared/httputil"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// allSources triggers every registered source from POST /harvest/:source.
const allSources = "*"

var harvestErrors = httputil.NewErrorMapper().
	WithMapping(auth.ErrMissingToken, http.StatusUnauthorized, "missing token").
	WithMapping(auth.ErrInvalidToken, http.StatusUnauthorized, "invalid token").
	WithMapping(auth.ErrForbidden, http.StatusForbidden, "forbidden").
	WithMapping(port.ErrSourceNotFound, http.StatusNotFound, "source not found").
	WithMapping(port.ErrHarvestInProgress, http.StatusConflict, "harvest already in progress").
	WithMapping(port.ErrSourceUnavailable, http.StatusBadGateway, "source unavailable")

type sourceView struct {
	Name    string                `json:"name"`
	LastRun *domain.HarvestResult `json:"lastRun"`
}

type storesView struct {
	Source   string                `json:"source"`
	Run      *domain.HarvestResult `json:"run"`
	Count    int                   `json:"count"`
	Features []*domain.Feature     `json:"features"`
}

type harvestView struct {
	Results []*domain.HarvestResult `json:"results"`
}

// Routes bundles what the HTTP handlers need.
type Routes struct {
	Harvest        *usecase.HarvestUseCase
	Hub            *infrastructure.Hub
	Validator      auth.TokenValidator
	HarvestRole    string
	HarvestTimeout time.Duration
}

// Register mounts the harvest API on e.
func (r Routes) Register(e *echo.Echo) {
	e.GET("/health", NewHealthHandler(r.Harvest, r.Hub))
	e.GET("/sources", NewSourcesHandler(r.Harvest))
	e.GET("/stores/:source", NewStoresHandler(r.Harvest))
	e.POST("/harvest/:source", NewHarvestHandler(r.Harvest, r.HarvestTimeout), RequireToken(r.Validator, r.HarvestRole))
	e.GET("/ws/features", NewFeaturesWebsocketHandler(r.Hub, r.Validator))
}

func NewHealthHandler(harvestUC *usecase.HarvestUseCase, hub *infrastructure.Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":    "ok",
			"sources":   len(harvestUC.Sources()),
			"harvested": harvestUC.Harvested(),
			"clients":   hub.ClientCount(),
		})
	}
}

// NewSourcesHandler lists registered sources with their last successful run.
func NewSourcesHandler(harvestUC *usecase.HarvestUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		names := harvestUC.Sources()
		views := make([]sourceView, 0, len(names))
		for _, name := range names {
			_, run, err := harvestUC.Cached(name)
			if err != nil {
				return harvestErrors.HTTPError(err)
			}
			views = append(views, sourceView{Name: name, LastRun: run})
		}
		return c.JSON(http.StatusOK, views)
	}
}

// NewStoresHandler returns the cached features of a source. A source that was never
// harvested answers with an empty list and a null run.
func NewStoresHandler(harvestUC *usecase.HarvestUseCase) echo.HandlerFunc {
	return func(c echo.Context) error {
		source := strings.TrimSpace(c.Param("source"))
		features, run, err := harvestUC.Cached(source)
		if err != nil {
			return harvestErrors.HTTPError(err)
		}
		if features == nil {
			features = []*domain.Feature{}
		}
		name := source
		if run != nil {
			name = run.Source
		}
		return c.JSON(http.StatusOK, storesView{Source: name, Run: run, Count: len(features), Features: features})
	}
}

// NewHarvestHandler runs a harvest synchronously and returns the run summary.
func NewHarvestHandler(harvestUC *usecase.HarvestUseCase, timeout time.Duration) echo.HandlerFunc {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return func(c echo.Context) error {
		source := strings.TrimSpace(c.Param("source"))
		ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
		defer cancel()

		if source == allSources {
			return c.JSON(http.StatusOK, harvestView{Results: harvestUC.RunAll(ctx)})
		}

		result, err := harvestUC.Run(ctx, source)
		if err != nil {
			info := harvestErrors.Map(err)
			if info.Status >= http.StatusInternalServerError {
				slog.Error("harvest request failed", slog.String("source", source), slog.Any("error", err))
			}
			if result != nil {
				return c.JSON(info.Status, harvestView{Results: []*domain.HarvestResult{result}})
			}
			return echo.NewHTTPError(info.Status, info.Message)
		}
		return c.JSON(http.StatusOK, harvestView{Results: []*domain.HarvestResult{result}})
	}
}

// RequireToken rejects requests without a valid bearer token. With role set, the token
// must also carry that role.
func RequireToken(validator auth.TokenValidator, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := validator.Validate(auth.ExtractBearerToken(c.Request()))
			if err == nil && !claims.HasRole(role) {
				err = auth.ErrForbidden
			}
			if err != nil {
				slog.Warn("harvest api auth failed", slog.String("ip", c.RealIP()), slog.String("path", c.Path()), slog.Any("error", err))
				if errors.Is(err, auth.ErrForbidden) {
					return harvestErrors.HTTPError(err)
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
			}
			c.Set("claims", claims)
			return next(c)
		}
	}
}
