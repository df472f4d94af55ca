package ipc

import (
	"encoding/json"
	"fmt"
	"time"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetLayout   CommandType = "GET_LAYOUT"
	CommandGetMonitors CommandType = "GET_MONITORS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// RectData is a rectangle in screen coordinates.
type RectData struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	LockedSince    time.Time `json:"locked_since"`
	UptimeSeconds  int64     `json:"uptime_seconds"`
	FailedAttempts int       `json:"failed_attempts"`
	PasswordLength int       `json:"password_length"`
	Verifying      bool      `json:"verifying"`
	LeafCount      int       `json:"leaf_count"`
	Viewport       RectData  `json:"viewport"`
}

// LeafData describes one resolved leaf pane.
type LeafData struct {
	Path     string    `json:"path"`
	PaneType string    `json:"pane_type"`
	Corners  [4]string `json:"corners"`
	Outer    RectData  `json:"outer"`
	Inner    RectData  `json:"inner"`
	Title    string    `json:"title"`
	Computed bool      `json:"computed"`
}

// LayoutData represents the data returned by GET_LAYOUT
type LayoutData struct {
	Viewport RectData   `json:"viewport"`
	Leaves   []LeafData `json:"leaves"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
