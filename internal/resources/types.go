package resources

// Device types reported in the "type" field of a descriptor.
// Controllers may report other types; those are kept as-is.
const (
	TypeSwitch      = "switch"
	TypeDoor        = "door"
	TypeLight       = "light"
	TypeDimmer      = "dimmer"
	TypeShutter     = "shutter"
	TypeTherm       = "therm"
	TypeTemperature = "temp"
	TypeHeating     = "heating"
)

// sensorTypes only report state; writing to them has no effect on the bus
var sensorTypes = map[string]bool{
	TypeDoor:        true,
	TypeTherm:       true,
	TypeTemperature: true,
}

// IsSensorType reports whether devices of the given type only report state
func IsSensorType(typ string) bool {
	return sensorTypes[typ]
}
