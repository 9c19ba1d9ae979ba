package mqttbridge

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/inels/internal/logging"
	"github.com/muurk/inels/internal/resources"
)

type entry struct {
	room     string
	resource *resources.Resource
}

// Bridge mirrors resource values onto MQTT topics and forwards
// commands from the set topics to the controller.
type Bridge struct {
	pub    Publisher
	topics Topics

	// keyed by room + "/" + id
	entries map[string]entry
	order   []string

	mu        sync.Mutex
	lastState map[string]string
	lastAvail map[string]bool
}

// New creates a bridge for the given resources grouped by room
func New(pub Publisher, topics Topics, rooms map[string][]*resources.Resource) *Bridge {
	b := &Bridge{
		pub:       pub,
		topics:    topics,
		entries:   make(map[string]entry),
		lastState: make(map[string]string),
		lastAvail: make(map[string]bool),
	}

	for room, list := range rooms {
		for _, r := range list {
			key := room + "/" + r.ID()
			b.entries[key] = entry{room: room, resource: r}
			b.order = append(b.order, key)
		}
	}
	sort.Strings(b.order)

	return b
}

// Len returns the number of bridged resources
func (b *Bridge) Len() int {
	return len(b.order)
}

// Start subscribes to the command topics and announces the bridge as online
func (b *Bridge) Start() error {
	if err := b.pub.Subscribe(b.topics.AllSet(), b.HandleSet); err != nil {
		return fmt.Errorf("failed to subscribe to commands: %w", err)
	}

	if err := b.pub.Publish(b.topics.BridgeStatus(), []byte(PayloadOnline), true); err != nil {
		return fmt.Errorf("failed to publish bridge status: %w", err)
	}

	logging.Info("MQTT bridge started",
		zap.String("prefix", b.topics.Prefix),
		zap.Int("resources", len(b.order)),
	)
	return nil
}

// PollOnce observes every resource and publishes what changed since the
// previous poll. It returns the number of resources that failed to observe.
func (b *Bridge) PollOnce() int {
	failed := 0

	for _, key := range b.order {
		e := b.entries[key]

		value, err := e.resource.Observe()
		if err != nil {
			failed++
			logging.Warn("observe failed",
				zap.String("room", e.room),
				zap.String("id", e.resource.ID()),
				zap.Error(err),
			)
			b.publishAvailability(e, false)
			continue
		}

		b.publishAvailability(e, true)
		b.publishState(e, value)
	}

	return failed
}

// Run polls at the given interval until ctx is cancelled
func (b *Bridge) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	b.PollOnce()

	for {
		select {
		case <-ctx.Done():
			logging.Info("MQTT bridge stopping")
			if err := b.pub.Publish(b.topics.BridgeStatus(), []byte(PayloadOffline), true); err != nil {
				logging.Warn("failed to publish offline status", zap.Error(err))
			}
			return ctx.Err()
		case <-ticker.C:
			if failed := b.PollOnce(); failed > 0 {
				logging.Debug("poll finished with failures", zap.Int("failed", failed))
			}
		}
	}
}

// HandleSet processes a message received on a command topic
func (b *Bridge) HandleSet(topic string, payload []byte) error {
	room, id, err := b.topics.ParseSet(topic)
	if err != nil {
		return err
	}

	e, ok := b.entries[room+"/"+id]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrUnknownResource, room, id)
	}
	if e.resource.ReadOnly() {
		return fmt.Errorf("%w: %s", ErrReadOnly, id)
	}
	if e.resource.IsSensor() {
		logging.Warn("command sent to a sensor device",
			zap.String("room", room),
			zap.String("id", id),
			zap.String("type", e.resource.Type()),
		)
	}

	value, err := resources.ParseValue(strings.TrimSpace(string(payload)))
	if err != nil {
		return fmt.Errorf("invalid command for %s: %w", id, err)
	}

	if err := e.resource.SetValue(value); err != nil {
		b.publishAvailability(e, false)
		return fmt.Errorf("failed to set %s: %w", id, err)
	}

	b.publishAvailability(e, true)
	b.publishState(e, value)
	return nil
}

// publishState publishes a retained state message when the value changed
func (b *Bridge) publishState(e entry, value resources.Value) {
	key := e.room + "/" + e.resource.ID()
	payload := value.String()

	b.mu.Lock()
	prev, seen := b.lastState[key]
	if seen && prev == payload {
		b.mu.Unlock()
		return
	}
	b.lastState[key] = payload
	b.mu.Unlock()

	if err := b.pub.Publish(b.topics.State(e.room, e.resource.ID()), []byte(payload), true); err != nil {
		b.forgetState(key)
		logging.Warn("failed to publish state", zap.String("id", e.resource.ID()), zap.Error(err))
	}
}

// publishAvailability publishes a retained availability message on transitions
func (b *Bridge) publishAvailability(e entry, online bool) {
	key := e.room + "/" + e.resource.ID()

	b.mu.Lock()
	prev, seen := b.lastAvail[key]
	if seen && prev == online {
		b.mu.Unlock()
		return
	}
	b.lastAvail[key] = online
	b.mu.Unlock()

	payload := PayloadOffline
	if online {
		payload = PayloadOnline
	}

	if err := b.pub.Publish(b.topics.Available(e.room, e.resource.ID()), []byte(payload), true); err != nil {
		b.mu.Lock()
		delete(b.lastAvail, key)
		b.mu.Unlock()
		if !errors.Is(err, ErrNotConnected) {
			logging.Warn("failed to publish availability", zap.String("id", e.resource.ID()), zap.Error(err))
		}
	}
}

func (b *Bridge) forgetState(key string) {
	b.mu.Lock()
	delete(b.lastState, key)
	b.mu.Unlock()
}
