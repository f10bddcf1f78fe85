package websocket

import (
	"time"
)

// EventType represents the type of WebSocket event
type EventType string

const (
	// EventTypeDetection represents a completed anonymization run
	EventTypeDetection EventType = "detection"
	// EventTypeSystemStatus represents a system status event
	EventTypeSystemStatus EventType = "system_status"
	// EventTypeConnection represents connection events
	EventTypeConnection EventType = "connection"
)

// Event represents a WebSocket event sent to clients
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id,omitempty"`
}

// DetectionEvent summarizes one anonymization run. It carries counts and
// types only; original and anonymized text never cross the socket.
type DetectionEvent struct {
	RequestID      string         `json:"request_id"`
	Language       string         `json:"language"`
	EntityCount    int            `json:"entity_count"`
	EntityTypes    map[string]int `json:"entity_types"`
	CharsProcessed int            `json:"chars_processed"`
	CacheHit       bool           `json:"cache_hit"`
	ProcessingMS   float64        `json:"processing_ms"`
}

// SystemStatusEvent reports server lifecycle transitions
type SystemStatusEvent struct {
	Status            string `json:"status"` // started or shutting_down
	ActiveConnections int    `json:"active_connections"`
}

// ConnectionEvent represents a client joining or leaving
type ConnectionEvent struct {
	ClientID    string `json:"client_id"`
	Action      string `json:"action"` // connected or disconnected
	ActiveCount int    `json:"active_count"`
}
