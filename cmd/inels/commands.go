package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/inels/internal/api"
	"github.com/muurk/inels/internal/config"
	"github.com/muurk/inels/internal/resources"
	"github.com/muurk/inels/internal/ui"
)

// Global flags
var (
	controllerHost string
	controllerPort int
	apiVersion     string
	configPath     string
	logLevel       string
	requestTimeout time.Duration
	outputFormat   string
)

// Command flags
var (
	roomNames []string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&controllerHost, "host", "", "Controller host (overrides config)")
	rootCmd.PersistentFlags().IntVar(&controllerPort, "port", api.DefaultPort, "Controller XML-RPC port")
	rootCmd.PersistentFlags().StringVar(&apiVersion, "api-version", "", "API path segment appended to the endpoint")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default is the OS config directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "timeout", api.DefaultTimeout, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "Output format (table, json)")

	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(observeCmd)
	rootCmd.AddCommand(setCmd)
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Controller.Host = controllerHost
	}
	if flags.Changed("port") {
		cfg.Controller.Port = controllerPort
	}
	if flags.Changed("api-version") {
		cfg.Controller.Version = apiVersion
	}
	if flags.Changed("timeout") {
		cfg.Controller.Timeout = requestTimeout
	}
	if flags.Changed("room") {
		cfg.Rooms = roomNames
	}

	return cfg, nil
}

// newClient builds a controller client from config and flags
func newClient(cmd *cobra.Command) (*api.Client, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Controller.Host == "" {
		return nil, nil, fmt.Errorf("no controller host: pass --host or run 'inels config init --host <ip>'")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg.Client(), cfg, nil
}

// singleRoom returns the one room a command operates on
func singleRoom(cfg *config.Config) (string, error) {
	switch len(cfg.Rooms) {
	case 0:
		return "", fmt.Errorf("no room given: pass --room <name>")
	case 1:
		return cfg.Rooms[0], nil
	default:
		return "", fmt.Errorf("expected one room, got %d: pass --room <name>", len(cfg.Rooms))
	}
}

// enumerate lists the devices of the given rooms behind a spinner
func enumerate(client *api.Client, rooms ...string) (map[string][]*resources.Resource, error) {
	var result map[string][]*resources.Resource
	err := ui.RunWithSpinner(fmt.Sprintf("Enumerating %d room(s)...", len(rooms)), func() error {
		var err error
		result, err = client.GetDevices(rooms...)
		return err
	})
	return result, err
}

// findResource enumerates a room and returns the resource with the given id
func findResource(client *api.Client, room, id string) (*resources.Resource, error) {
	rooms, err := enumerate(client, room)
	if err != nil {
		return nil, err
	}
	list := rooms[room]
	for _, r := range list {
		if r.ID() == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("device %q not found in room %q", id, room)
}

// resourceView is the JSON form of a resource
type resourceView struct {
	Room     string `json:"room"`
	Type     string `json:"type"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	ReadOnly bool   `json:"read_only"`
	Sensor   bool   `json:"sensor"`
	Value    any    `json:"value"`
}

func viewOf(room string, r *resources.Resource) resourceView {
	v := resourceView{
		Room:     room,
		Type:     r.Type(),
		ID:       r.ID(),
		Name:     r.Title(),
		ReadOnly: r.ReadOnly(),
		Sensor:   r.IsSensor(),
	}
	if value, ok := r.Value(); ok {
		v.Value = value.Raw()
	}
	return v
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// pingCmd checks that the controller answers
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the controller is reachable",
	Example: `  inels ping --host 192.168.1.50
  inels ping --host 192.168.1.50 --api-version v1`,
	RunE: runPing,
}

func runPing(cmd *cobra.Command, args []string) error {
	client, _, err := newClient(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	ok, err := client.Ping()
	if err != nil {
		return err
	}
	elapsed := time.Since(start).Round(time.Millisecond)

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return printJSON(out, map[string]any{"endpoint": client.BaseURL, "ok": ok, "elapsed_ms": elapsed.Milliseconds()})
	}

	if !ok {
		fmt.Fprintln(out, ui.NewFailureResult("Ping failed", "Controller answered but did not confirm").
			AddDetail("Endpoint", client.BaseURL).Render())
		return fmt.Errorf("controller at %s did not confirm ping", client.BaseURL)
	}

	fmt.Fprintln(out, ui.NewSuccessResult("Controller reachable", map[string]string{
		"Endpoint": client.BaseURL,
		"Elapsed":  elapsed.String(),
	}).Render())
	return nil
}

// devicesCmd lists the devices of one or more rooms
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List the devices of a room",
	Long: `List the devices of one or more rooms as reported by the controller.

With --observe every device is read once so the table shows current values.`,
	Example: `  # Devices of the garage
  inels devices --room garage

  # Several rooms, with current values
  inels devices --room garage --room kitchen --observe

  # JSON output for scripting
  inels devices --room garage --format json`,
	RunE: runDevices,
}

var observeAll bool

func init() {
	devicesCmd.Flags().StringArrayVar(&roomNames, "room", nil, "Room name (repeatable, defaults to rooms from config)")
	devicesCmd.Flags().BoolVar(&observeAll, "observe", false, "Read the current value of every device")
}

func runDevices(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient(cmd)
	if err != nil {
		return err
	}
	if len(cfg.Rooms) == 0 {
		return fmt.Errorf("no room given: pass --room <name> or list rooms in the config file")
	}

	rooms, err := enumerate(client, cfg.Rooms...)
	if err != nil {
		return err
	}

	if observeAll {
		err := ui.RunWithSpinner("Reading device values...", func() error {
			for _, list := range rooms {
				for _, r := range list {
					// unreadable devices stay unavailable in the listing
					_, _ = r.Observe()
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		views := []resourceView{}
		for _, room := range cfg.Rooms {
			for _, r := range rooms[room] {
				views = append(views, viewOf(room, r))
			}
		}
		return printJSON(out, views)
	}

	for _, room := range cfg.Rooms {
		fmt.Fprintln(out, ui.NewResourceTable(room, rooms[room]).Render())
	}
	return nil
}

// observeCmd reads the current value of devices
var observeCmd = &cobra.Command{
	Use:   "observe <id> [id...]",
	Short: "Read the current value of devices",
	Example: `  inels observe --room garage Doors_Garage
  inels observe --room garage Temp_Garage Light_Garage --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runObserve,
}

func init() {
	observeCmd.Flags().StringArrayVar(&roomNames, "room", nil, "Room the devices belong to")
}

func runObserve(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient(cmd)
	if err != nil {
		return err
	}
	room, err := singleRoom(cfg)
	if err != nil {
		return err
	}

	rooms, err := enumerate(client, room)
	if err != nil {
		return err
	}
	byID := make(map[string]*resources.Resource, len(rooms[room]))
	for _, r := range rooms[room] {
		byID[r.ID()] = r
	}

	observed := make([]*resources.Resource, 0, len(args))
	for _, id := range args {
		r, ok := byID[id]
		if !ok {
			return fmt.Errorf("device %q not found in room %q", id, room)
		}
		if _, err := r.Observe(); err != nil {
			return err
		}
		observed = append(observed, r)
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		views := make([]resourceView, 0, len(observed))
		for _, r := range observed {
			views = append(views, viewOf(room, r))
		}
		return printJSON(out, views)
	}

	fmt.Fprintln(out, ui.NewResourceTable(room, observed).Render())
	return nil
}

// setCmd writes a value to a device
var setCmd = &cobra.Command{
	Use:   "set <id> <value>",
	Short: "Write a value to a device",
	Long: `Write a value to a device.

Values without a decimal point are sent as integers, values with one as
floating point numbers. on/off and true/false are accepted for 1 and 0.`,
	Example: `  # Switch the garage light on
  inels set --room garage Light_Garage on

  # Set a thermostat to 21.5 degrees
  inels set --room living Therm_Living 21.5`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringArrayVar(&roomNames, "room", nil, "Room the device belongs to")
}

func runSet(cmd *cobra.Command, args []string) error {
	id := args[0]
	value, err := resources.ParseValue(args[1])
	if err != nil {
		return err
	}

	client, cfg, err := newClient(cmd)
	if err != nil {
		return err
	}
	room, err := singleRoom(cfg)
	if err != nil {
		return err
	}

	r, err := findResource(client, room, id)
	if err != nil {
		return err
	}
	if r.ReadOnly() {
		return fmt.Errorf("device %q is read only", id)
	}
	if r.IsSensor() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s is a %s sensor; the controller may ignore the write\n", id, r.Type())
	}

	if err := client.SetValue(r, value); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return printJSON(out, viewOf(room, r))
	}

	fmt.Fprintln(out, ui.NewSuccessResult("Value written", map[string]string{
		"Device": fmt.Sprintf("%s (%s)", r.Title(), r.ID()),
		"Room":   room,
		"Value":  value.String(),
	}).Render())
	return nil
}
