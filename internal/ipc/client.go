package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/raylock/internal/runtimepath"
)

// Client handles IPC communication with a running lock screen
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to raylock: %w (is the screen locked?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("raylock error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) query(cmd CommandType, out any) error {
	resp, err := c.sendRequest(&Request{Command: cmd})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// GetStatus retrieves lock status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.query(CommandGetStatus, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetLayout retrieves the resolved pane layout
func (c *Client) GetLayout() (*LayoutData, error) {
	var layout LayoutData
	if err := c.query(CommandGetLayout, &layout); err != nil {
		return nil, err
	}
	return &layout, nil
}

// GetMonitors retrieves monitor information
func (c *Client) GetMonitors() (*MonitorsData, error) {
	var monitors MonitorsData
	if err := c.query(CommandGetMonitors, &monitors); err != nil {
		return nil, err
	}
	return &monitors, nil
}

// Ping checks if a lock screen is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
