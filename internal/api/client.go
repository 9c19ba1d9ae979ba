package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kolo/xmlrpc"

	"github.com/muurk/inels/internal/logging"
	"github.com/muurk/inels/internal/resources"
	"github.com/muurk/inels/internal/version"
)

const (
	// DefaultPort is the port of the iNels Connect Server XML-RPC endpoint
	DefaultPort = 8001

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// maxResponseSize caps the body read from the controller
	maxResponseSize = 4 << 20
)

// XML-RPC methods exposed by the controller
const (
	MethodPing           = "ping"
	MethodGetRoomDevices = "getRoomDevices"
	MethodRead           = "read"
	MethodWrite          = "write"
)

var _ resources.Handle = (*Client)(nil)

// Client is the connection to an iNels BUS controller.
// A single Client is shared by all resources enumerated through it.
type Client struct {
	// BaseURL is the XML-RPC endpoint (e.g., "http://192.168.1.50:8001/v1")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a new controller client
// host: Controller host, with or without scheme (e.g., "192.168.1.50")
// port: XML-RPC port (typically 8001)
// version: API path segment, may be empty
func NewClient(host string, port int, version string) *Client {
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	baseURL := fmt.Sprintf("%s:%d", strings.TrimRight(host, "/"), port)
	if version != "" {
		baseURL += "/" + strings.Trim(version, "/")
	}
	return NewClientWithURL(baseURL)
}

// NewClientWithURL creates a new client with a full endpoint URL
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// Ping reports whether the controller answers.
// A transport failure is returned as an error, not as false.
func (c *Client) Ping() (bool, error) {
	resp, err := c.call(MethodPing)
	if err != nil {
		return false, err
	}

	var result any
	if err := resp.Unmarshal(&result); err != nil {
		return false, NewParseError(MethodPing, "failed to decode ping result", err)
	}

	switch v := result.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case string:
		return v != "", nil
	default:
		return false, NewValidationError(MethodPing, fmt.Sprintf("unexpected ping result of type %T", result))
	}
}

// GetRoomDevicesRaw enumerates the raw device descriptors of a room
func (c *Client) GetRoomDevicesRaw(room string) ([]resources.RawDevice, error) {
	if room == "" {
		return nil, NewValidationError(MethodGetRoomDevices, "room name is required")
	}

	resp, err := c.call(MethodGetRoomDevices, room)
	if err != nil {
		return nil, err
	}

	var result any
	if err := resp.Unmarshal(&result); err != nil {
		return nil, NewParseError(MethodGetRoomDevices, "failed to decode device list", err)
	}

	items, ok := result.([]any)
	if !ok {
		return nil, NewValidationError(MethodGetRoomDevices, fmt.Sprintf("expected array of devices, got %T", result))
	}

	devices := make([]resources.RawDevice, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, NewValidationError(MethodGetRoomDevices, fmt.Sprintf("device %d: expected struct, got %T", i, item))
		}

		raw, err := resources.ParseRawDevice(m)
		if err != nil {
			return nil, &DeviceError{
				Type:    ErrTypeValidation,
				Method:  MethodGetRoomDevices,
				Message: fmt.Sprintf("device %d in room %q", i, room),
				Err:     err,
			}
		}
		devices = append(devices, raw)
	}

	return devices, nil
}

// GetRoomDevices enumerates a room and wraps every descriptor in a Resource
// bound to this client
func (c *Client) GetRoomDevices(room string) ([]*resources.Resource, error) {
	raw, err := c.GetRoomDevicesRaw(room)
	if err != nil {
		return nil, err
	}

	list := make([]*resources.Resource, 0, len(raw))
	for _, d := range raw {
		list = append(list, resources.New(d, c))
	}
	return list, nil
}

// GetDevices enumerates several rooms, keeping room order
func (c *Client) GetDevices(rooms ...string) (map[string][]*resources.Resource, error) {
	result := make(map[string][]*resources.Resource, len(rooms))
	for _, room := range rooms {
		list, err := c.GetRoomDevices(room)
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate room %q: %w", room, err)
		}
		result[room] = list
	}
	return result, nil
}

// Read fetches the current values of the given devices, keyed by channel
func (c *Client) Read(ids ...string) (map[string]any, error) {
	if len(ids) == 0 {
		return nil, NewValidationError(MethodRead, "at least one device id is required")
	}

	resp, err := c.call(MethodRead, ids)
	if err != nil {
		return nil, err
	}

	var result any
	if err := resp.Unmarshal(&result); err != nil {
		return nil, NewParseError(MethodRead, "failed to decode values", err)
	}

	values, ok := result.(map[string]any)
	if !ok {
		return nil, NewValidationError(MethodRead, fmt.Sprintf("expected struct of values, got %T", result))
	}
	return values, nil
}

// WriteValues pushes a value for a device to the bus
func (c *Client) WriteValues(id string, value resources.Value) error {
	if id == "" {
		return NewValidationError(MethodWrite, "device id is required")
	}

	_, err := c.call(MethodWrite, map[string]any{id: value.Raw()})
	return err
}

// SetValue writes a value through a resource so its local state follows
func (c *Client) SetValue(r *resources.Resource, value resources.Value) error {
	return r.SetValue(value)
}

// call performs one XML-RPC request and returns the response once it is
// known not to be a fault
func (c *Client) call(method string, args ...any) (resp xmlrpc.Response, err error) {
	start := time.Now()
	defer func() {
		logging.LogRPCCall(method, c.BaseURL, time.Since(start), err)
	}()

	body, err := xmlrpc.EncodeMethodCall(method, args...)
	if err != nil {
		return nil, NewValidationError(method, fmt.Sprintf("failed to encode request: %v", err))
	}
	logging.LogRawPayload("XML-RPC request", body)

	req, err := http.NewRequest(http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, NewNetworkError(method, "failed to create request", err)
	}
	req.Header.Set("Content-Type", "text/xml")
	req.Header.Set("User-Agent", version.UserAgent())

	httpResp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewNetworkError(method, "controller unreachable", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode != http.StatusOK {
		return nil, NewHTTPError(method, httpResp.StatusCode, fmt.Sprintf("unexpected status code: %d", httpResp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, NewNetworkError(method, "failed to read response body", err)
	}
	logging.LogRawPayload("XML-RPC response", data)

	resp = xmlrpc.Response(data)
	if err := resp.Err(); err != nil {
		var fault xmlrpc.FaultError
		if errors.As(err, &fault) {
			return nil, NewFaultError(method, fault)
		}
		return nil, NewParseError(method, "malformed fault response", err)
	}

	return resp, nil
}
