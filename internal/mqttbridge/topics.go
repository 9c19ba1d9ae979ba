package mqttbridge

import (
	"fmt"
	"strings"
)

// Topic suffixes
const (
	suffixState     = "state"
	suffixAvailable = "available"
	suffixSet       = "set"

	// Availability payloads
	PayloadOnline  = "online"
	PayloadOffline = "offline"
)

// Topics builds bridge topics under a prefix.
//
//	topics := mqttbridge.Topics{Prefix: "inels"}
//	topics.State("garage", "Doors_Garage") // "inels/garage/Doors_Garage/state"
type Topics struct {
	Prefix string
}

// State returns the retained state topic of a resource
func (t Topics) State(room, id string) string {
	return fmt.Sprintf("%s/%s/%s/%s", t.Prefix, room, id, suffixState)
}

// Available returns the retained availability topic of a resource
func (t Topics) Available(room, id string) string {
	return fmt.Sprintf("%s/%s/%s/%s", t.Prefix, room, id, suffixAvailable)
}

// Set returns the command topic of a resource
func (t Topics) Set(room, id string) string {
	return fmt.Sprintf("%s/%s/%s/%s", t.Prefix, room, id, suffixSet)
}

// AllSet returns the wildcard subscription for every command topic
func (t Topics) AllSet() string {
	return fmt.Sprintf("%s/+/+/%s", t.Prefix, suffixSet)
}

// BridgeStatus returns the bridge's own status topic
func (t Topics) BridgeStatus() string {
	return t.Prefix + "/bridge/status"
}

// ParseSet extracts room and resource id from a command topic
func (t Topics) ParseSet(topic string) (room, id string, err error) {
	rest, ok := strings.CutPrefix(topic, t.Prefix+"/")
	if !ok {
		return "", "", fmt.Errorf("%w: %q is outside %q", ErrInvalidTopic, topic, t.Prefix)
	}

	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[2] != suffixSet || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q is not a command topic", ErrInvalidTopic, topic)
	}
	return parts[0], parts[1], nil
}
