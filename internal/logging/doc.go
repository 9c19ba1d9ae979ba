// Package logging provides structured logging for the iNels client and bridge.
//
// This package wraps a zap logger with convenience functions for the logging
// patterns used throughout the module: controller RPC calls, resource value
// changes and MQTT bridge traffic.
//
// # Log Levels
//
//   - Debug: Request and response payloads, unchanged polls
//   - Info: Value changes, bridge start/stop
//   - Warn: Rejected commands, failed polls
//   - Error: Fatal issues (broker connection lost, startup failures)
//
// # Structured Logging
//
//	logging.Info("Bridge started",
//	    zap.String("broker", "tcp://localhost:1883"),
//	    zap.Int("resources", 12),
//	)
//
// Domain helpers:
//
//	logging.LogRPCCall("read", endpoint, elapsed, err)
//	logging.LogValueChange("Doors_Garage", "unset", "0", "observe")
//	logging.LogMQTTMessage("received", topic, payload)
//
// # Configuration
//
// Logging is silent unless a level is given, either explicitly or through the
// INELS_LOG_LEVEL environment variable:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// All logging functions are safe for concurrent use.
package logging
