package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/examduty/dutybook-backend/internal/middleware"
	"github.com/examduty/dutybook-backend/internal/service"
	ws "github.com/examduty/dutybook-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the booking feed to admin dashboards.
type WSHandler struct {
	feed     service.FeedSubscriber
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(feed service.FeedSubscriber, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		feed:     feed,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// BookingFeed godoc
// WS /ws/admin/booking-feed?token=
// Forwards every booking feed message until either side goes away.
func (h *WSHandler) BookingFeed(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("admin_id", claims.FacultyID).Logger()

	// The request context is not cancelled on hijacked connections.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, unsubscribe, err := h.feed.Subscribe(ctx)
	if err != nil {
		wsLog.Error().Err(err).Msg("Feed subscribe failed")
		ws.WriteError(conn, "feed unavailable")
		return
	}
	defer unsubscribe()

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		if err := ws.DrainReads(conn); websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			wsLog.Warn().Err(err).Msg("Unexpected close")
		}
	}()

	if err := ws.WriteTyped(conn, ws.ReadyMessage{Event: ws.EventReady}); err != nil {
		return
	}
	wsLog.Info().Msg("Admin connected to booking feed")

	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-readDone:
			wsLog.Debug().Msg("Connection closed")
			return
		case msg, ok := <-messages:
			if !ok {
				ws.WriteError(conn, "feed closed")
				return
			}
			if !json.Valid([]byte(msg)) {
				wsLog.Warn().Msg("Dropping malformed feed message")
				continue
			}
			if err := ws.WriteTyped(conn, ws.BookingMessage{Event: ws.EventBooking, Data: json.RawMessage(msg)}); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed")
				return
			}
		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}
