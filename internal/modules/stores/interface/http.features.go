package transport

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"

	"poiharvest/internal/modules/stores/domain"
	"poiharvest/internal/modules/stores/infrastructure"
	"poiharvest/internal/shared/auth"
)

var featureSessionCounter atomic.Uint64

// NewFeaturesWebsocketHandler exposes /ws/features. The token comes from the
// Authorization header or ?token=; ?sources=a,b limits the feed to those sources.
func NewFeaturesWebsocketHandler(hub *infrastructure.Hub, validator auth.TokenValidator) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		peerIP := c.RealIP()

		claims, err := validator.Validate(auth.ExtractToken(c.Request(), auth.DefaultTokenQueryParam))
		if err != nil {
			slog.Warn("features ws auth failed", slog.String("ip", peerIP), slog.Any("error", err))
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
		}
		sources := splitSources(c.QueryParam("sources"))

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			slog.Error("features ws upgrade failed", slog.String("ip", peerIP), slog.String("reqID", requestID), slog.Any("error", err))
			return err
		}

		userID := claims.Subject
		sessionID := claims.SessionID
		if sessionID == "" {
			sessionID = fmt.Sprintf("features-%d", featureSessionCounter.Add(1))
		}
		client := infrastructure.NewClient(hub, conn, userID, sessionID, 64)
		hub.AttachClient(client, sources)

		go client.WritePump()
		go client.ReadPump()

		topics := []string{domain.TopicStoresHarvested, domain.TopicHarvestCompleted}
		client.SendDomainMessage(&domain.Message{
			Topic:  domain.TopicSystemConnected,
			Entity: domain.SystemEntity,
			Action: domain.ActionConnected,
			Metadata: map[string]string{
				"sessionId": sessionID,
				"userId":    userID,
			},
			Data: map[string]any{
				"mode":    "features",
				"topics":  topics,
				"sources": sources,
			},
			Timestamp: time.Now().UTC(),
		})

		slog.Info("features ws connected", slog.String("userId", userID), slog.String("sessionId", sessionID), slog.String("ip", peerIP), slog.String("reqID", requestID))
		return nil
	}
}

func splitSources(raw string) []string {
	var sources []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.ToLower(strings.TrimSpace(part)); trimmed != "" {
			sources = append(sources, trimmed)
		}
	}
	return sources
}
