// Package config provides the configuration file for the inels tool.
//
// The configuration is a YAML file holding the controller endpoint, the rooms
// to enumerate and the MQTT bridge settings. It follows OS-specific
// conventions for its location:
//   - Linux: $XDG_CONFIG_HOME/inels/config.yaml or $HOME/.config/inels/config.yaml
//   - macOS: $HOME/.config/inels/config.yaml
//   - Windows: %LOCALAPPDATA%\inels\config.yaml
//
// # Usage Example
//
//	cfg, err := config.LoadDefault()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := cfg.Client()
//	devices, err := client.GetDevices(cfg.Rooms...)
//
// The MQTT password is never written back by Save.
package config
