package resources

import (
	"fmt"
	"sync"

	"github.com/muurk/inels/internal/logging"
)

// Handle is the connection to the iNels controller used by resources.
// Implementations must be safe to share between resources.
type Handle interface {
	// Ping reports whether the controller answers
	Ping() (bool, error)

	// GetRoomDevicesRaw enumerates the devices of a room
	GetRoomDevicesRaw(room string) ([]RawDevice, error)

	// Read fetches the current values of the given devices, keyed by channel
	Read(ids ...string) (map[string]any, error)

	// WriteValues pushes a value for a device to the bus
	WriteValues(id string, value Value) error
}

// Resource is the local representation of one device channel on the bus.
// Type, ID, Title and ReadOnly never change after construction.
type Resource struct {
	typ      string
	id       string
	title    string
	readOnly bool

	// handle is shared with other resources and is not owned
	handle Handle

	mu    sync.RWMutex
	value *Value
}

// New wraps a raw device descriptor
func New(raw RawDevice, handle Handle) *Resource {
	return &Resource{
		typ:      raw.Type,
		id:       raw.Inels,
		title:    raw.Name,
		readOnly: raw.ReadOnly,
		handle:   handle,
	}
}

// NewFromRaw wraps a decoded descriptor map, failing with ErrInvalidDescriptor
// when a required field is missing
func NewFromRaw(m map[string]any, handle Handle) (*Resource, error) {
	raw, err := ParseRawDevice(m)
	if err != nil {
		return nil, err
	}
	return New(raw, handle), nil
}

// Type returns the device type (e.g. "switch", "door")
func (r *Resource) Type() string { return r.typ }

// ID returns the bus identifier of the device
func (r *Resource) ID() string { return r.id }

// Title returns the human readable device name
func (r *Resource) Title() string { return r.title }

// ReadOnly reports whether the controller marks the device as read only
func (r *Resource) ReadOnly() bool { return r.readOnly }

// IsSensor reports whether the device type only reports state
func (r *Resource) IsSensor() bool { return IsSensorType(r.typ) }

// Channel returns the key identifying this resource in read results.
// On the bus the id already has the form "<Category>_<Room>".
func (r *Resource) Channel() string { return r.id }

// Value returns the last known value and whether one has been set
func (r *Resource) Value() (Value, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.value == nil {
		return Value{}, false
	}
	return *r.value, true
}

// IsAvailable reports whether the resource holds a value
func (r *Resource) IsAvailable() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value != nil
}

// Observe reads the current value of the resource from the bus, stores it
// and returns it. On error the stored value is left untouched.
func (r *Resource) Observe() (Value, error) {
	result, err := r.handle.Read(r.id)
	if err != nil {
		return Value{}, fmt.Errorf("failed to read %s: %w", r.id, err)
	}

	raw, ok := result[r.Channel()]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrChannelMissing, r.Channel())
	}

	v, err := ValueOf(raw)
	if err != nil {
		return Value{}, fmt.Errorf("failed to decode value of %s: %w", r.id, err)
	}

	r.store(v, "observe")
	return v, nil
}

// SetValue writes the value to the bus and, once the controller has accepted
// it, stores it locally. A failed write leaves the stored value untouched.
func (r *Resource) SetValue(v Value) error {
	if err := r.handle.WriteValues(r.id, v); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.id, err)
	}

	r.store(v, "set")
	return nil
}

func (r *Resource) store(v Value, source string) {
	r.mu.Lock()
	old := r.value
	r.value = &v
	r.mu.Unlock()

	previous := "unset"
	if old != nil {
		previous = old.String()
	}
	logging.LogValueChange(r.id, previous, v.String(), source)
}

// String returns a one-line summary of the resource
func (r *Resource) String() string {
	state := "unavailable"
	if v, ok := r.Value(); ok {
		state = v.String()
	}
	return fmt.Sprintf("%s (%s, %s) = %s", r.title, r.typ, r.id, state)
}
