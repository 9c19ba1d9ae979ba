// Package resources models devices on the iNels BUS as local resources.
//
// A Resource wraps one raw device descriptor, as returned by the controller's
// room enumeration, together with a reference to the connection that produced
// it. The descriptor fields (type, bus id, name, read-only flag) are fixed at
// construction; the value is pulled from the bus with Observe and pushed with
// SetValue.
//
// # Values
//
// Bus values are either integers (switch and door states, dimmer levels) or
// floating point numbers (temperatures, set points). Value keeps the two
// apart, so an integer 25 and a float 25.0 are different values:
//
//	v := resources.IntValue(1)
//	t := resources.FloatValue(21.5)
//	v.Equal(resources.FloatValue(1)) // false
//
// # Connection Handle
//
// Resources talk to the bus only through the Handle interface. The api
// package provides the XML-RPC implementation; tests substitute a double.
//
//	res, err := resources.NewFromRaw(raw, client)
//	value, err := res.Observe()
//	err = res.SetValue(resources.IntValue(1))
package resources
