// Package mqttbridge exposes iNels resources on an MQTT broker.
//
// Every enumerated resource gets three topics under the configured prefix:
//
//	<prefix>/<room>/<id>/state      retained, current value ("1", "21.5")
//	<prefix>/<room>/<id>/available  retained, "online" or "offline"
//	<prefix>/<room>/<id>/set        commands, payload parsed like CLI input
//
// The bridge itself announces "online" on <prefix>/bridge/status and leaves
// "offline" as its last will.
//
// Bridge polls the bus with Resource.Observe and publishes values that
// changed since the last poll. Commands go through Resource.SetValue, so the
// published state only changes once the controller accepted the write.
// Broker access goes through the Publisher interface; MQTTClient is the
// paho-backed implementation.
package mqttbridge
