// Package api provides the connection to an iNels BUS controller.
//
// The controller (iNels Connect Server) exposes an XML-RPC endpoint over HTTP.
// Client implements the four calls the resource layer needs:
//
//   - ping: liveness check
//   - getRoomDevices(room): raw device descriptors of a room
//   - read([ids]): current values keyed by channel
//   - write({id: value}): push a value to the bus
//
// Client satisfies resources.Handle, so resources enumerated through
// GetRoomDevices observe and set their values through it:
//
//	client := api.NewClient("192.168.1.50", api.DefaultPort, "")
//	devices, err := client.GetRoomDevices("garage")
//	for _, d := range devices {
//	    v, err := d.Observe()
//	    ...
//	}
//
// # Errors
//
// Every failure is a *DeviceError. Transport failures are classified
// (timeout, connection refused, DNS, unreachable) and XML-RPC faults are
// reported as rejections. Use the Is* predicates to branch on the category
// and GetShortErrorMessage for user-facing output. Calls are never retried.
package api
