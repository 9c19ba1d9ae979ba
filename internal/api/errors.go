package api

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"

	"github.com/kolo/xmlrpc"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection reset, unreachable, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeHTTP indicates an HTTP-level error (non-200 status code)
	ErrTypeHTTP
	// ErrTypeParse indicates a malformed XML-RPC response
	ErrTypeParse
	// ErrTypeRejected indicates the controller answered with an XML-RPC fault
	ErrTypeRejected
	// ErrTypeValidation indicates invalid arguments or an unexpected result shape
	ErrTypeValidation
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the controller refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
)

// NetworkErrorSubtype provides more specific network error classification
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeRejected:
		return "Rejected"
	case ErrTypeValidation:
		return "Validation Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DeviceError represents an error that occurred while talking to the controller
type DeviceError struct {
	Type           ErrorType           // Category of error
	Method         string              // XML-RPC method being called
	Message        string              // Human-readable error message
	StatusCode     int                 // HTTP status code (if applicable)
	FaultCode      int                 // XML-RPC fault code (if applicable)
	Err            error               // Underlying error (if any)
	NetworkSubtype NetworkErrorSubtype // More specific network error type
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	prefix := e.Type.String()
	if e.Method != "" {
		prefix = fmt.Sprintf("%s (%s)", prefix, e.Method)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport error and returns a more specific error type
func ClassifyNetworkError(err error) *DeviceError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &DeviceError{
			Type:           ErrTypeTimeout,
			Message:        "Request timed out",
			Err:            err,
			NetworkSubtype: NetworkErrorTimeout,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &DeviceError{
			Type:           ErrTypeDNS,
			Message:        fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:            err,
			NetworkSubtype: NetworkErrorDNS,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return &DeviceError{
				Type:           ErrTypeConnectionRefused,
				Message:        "Controller refused connection",
				Err:            err,
				NetworkSubtype: NetworkErrorConnectionRefused,
			}
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
			return &DeviceError{
				Type:           ErrTypeNetwork,
				Message:        "Host unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorHostUnreachable,
			}
		}
		if errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return &DeviceError{
				Type:           ErrTypeNetwork,
				Message:        "Network unreachable",
				Err:            err,
				NetworkSubtype: NetworkErrorNetworkUnreachable,
			}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil && urlErr.Err != err {
		return ClassifyNetworkError(urlErr.Err)
	}

	return &DeviceError{
		Type:           ErrTypeNetwork,
		Message:        "Network error occurred",
		Err:            err,
		NetworkSubtype: NetworkErrorGeneral,
	}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(method, message string, err error) *DeviceError {
	classified := ClassifyNetworkError(err)
	if classified == nil {
		classified = &DeviceError{Type: ErrTypeNetwork, Err: err}
	}
	classified.Method = method
	classified.Message = message
	return classified
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(method string, statusCode int, message string) *DeviceError {
	return &DeviceError{
		Type:       ErrTypeHTTP,
		Method:     method,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewParseError creates a parsing error
func NewParseError(method, message string, err error) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeParse,
		Method:  method,
		Message: message,
		Err:     err,
	}
}

// NewFaultError converts an XML-RPC fault into a rejection error
func NewFaultError(method string, fault xmlrpc.FaultError) *DeviceError {
	return &DeviceError{
		Type:      ErrTypeRejected,
		Method:    method,
		Message:   fault.String,
		FaultCode: fault.Code,
		Err:       fault,
	}
}

// NewValidationError creates a validation error
func NewValidationError(method, message string) *DeviceError {
	return &DeviceError{
		Type:    ErrTypeValidation,
		Method:  method,
		Message: message,
	}
}

func errorType(err error) (ErrorType, bool) {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Type, true
	}
	return 0, false
}

// IsNetworkError checks if an error is a network error (including timeout, connection refused, DNS, etc.)
func IsNetworkError(err error) bool {
	t, ok := errorType(err)
	return ok && (t == ErrTypeNetwork ||
		t == ErrTypeTimeout ||
		t == ErrTypeConnectionRefused ||
		t == ErrTypeDNS)
}

// IsHTTPError checks if an error is an HTTP error
func IsHTTPError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeHTTP
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeParse
}

// IsRejectedError checks if the controller answered with a fault
func IsRejectedError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeRejected
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeValidation
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		return err.Error()
	}

	switch devErr.Type {
	case ErrTypeTimeout:
		return "Controller not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Controller refused connection - check host and port"
	case ErrTypeDNS:
		return "Cannot resolve controller hostname"
	case ErrTypeNetwork:
		switch devErr.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			return "Controller unreachable - check network connection"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable"
		default:
			return "Network error - check connection"
		}
	case ErrTypeHTTP:
		if devErr.StatusCode == http.StatusNotFound {
			return "Controller endpoint not found - check the API version"
		}
		return fmt.Sprintf("Controller error (HTTP %d)", devErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse controller response"
	case ErrTypeRejected:
		return fmt.Sprintf("Controller rejected %s: %s", devErr.Method, devErr.Message)
	default:
		return devErr.Message
	}
}
