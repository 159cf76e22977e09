package websocket

import "encoding/json"

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventReady   Event = "ready"
	EventBooking Event = "booking"
	EventError   Event = "error"
)

// ReadyMessage is sent once the feed subscription is live.
type ReadyMessage struct {
	Event Event `json:"event"`
}

// BookingMessage wraps one booking event exactly as the worker published it.
type BookingMessage struct {
	Event Event           `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
