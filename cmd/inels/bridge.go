package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/inels/internal/config"
	"github.com/muurk/inels/internal/logging"
	"github.com/muurk/inels/internal/mqttbridge"
)

// MQTTPasswordEnvVar supplies the broker password without a flag
const MQTTPasswordEnvVar = "INELS_MQTT_PASSWORD"

// Bridge flags
var (
	mqttBroker   string
	mqttClientID string
	mqttUsername string
	mqttPassword string
	mqttPrefix   string
	pollInterval time.Duration
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Bridge rooms onto an MQTT broker",
	Long: `Publish the devices of the configured rooms on MQTT and apply commands.

Every poll interval each device is read and its value published, retained,
on <prefix>/<room>/<id>/state. Availability is published on
<prefix>/<room>/<id>/available and the bridge status on
<prefix>/bridge/status. Messages on <prefix>/<room>/<id>/set are written to
the device.

The broker password is taken from --mqtt-password or INELS_MQTT_PASSWORD.`,
	Example: `  # Bridge the rooms listed in the config file
  inels bridge

  # Bridge two rooms to a remote broker
  inels bridge --host 192.168.1.50 --room garage --room kitchen \
    --mqtt-broker tcp://broker.local:1883 --mqtt-username inels`,
	RunE: runBridge,
}

func init() {
	bridgeCmd.Flags().StringArrayVar(&roomNames, "room", nil, "Room to bridge (repeatable, defaults to rooms from config)")
	bridgeCmd.Flags().StringVar(&mqttBroker, "mqtt-broker", "", "Broker URL (e.g., tcp://localhost:1883)")
	bridgeCmd.Flags().StringVar(&mqttClientID, "mqtt-client-id", "", "MQTT client id")
	bridgeCmd.Flags().StringVar(&mqttUsername, "mqtt-username", "", "MQTT username")
	bridgeCmd.Flags().StringVar(&mqttPassword, "mqtt-password", "", "MQTT password (or "+MQTTPasswordEnvVar+")")
	bridgeCmd.Flags().StringVar(&mqttPrefix, "mqtt-prefix", "", "Topic prefix")
	bridgeCmd.Flags().DurationVar(&pollInterval, "poll-interval", 0, "Interval between device polls")

	rootCmd.AddCommand(bridgeCmd)
}

// applyMQTTFlags overrides file settings with the flags given on the command
// line. The password comes from --mqtt-password, then INELS_MQTT_PASSWORD,
// then the config file.
func applyMQTTFlags(cmd *cobra.Command, m *config.MQTTConfig) {
	flags := cmd.Flags()
	if flags.Changed("mqtt-broker") {
		m.Broker = mqttBroker
	}
	if flags.Changed("mqtt-client-id") {
		m.ClientID = mqttClientID
	}
	if flags.Changed("mqtt-username") {
		m.Username = mqttUsername
	}
	if flags.Changed("mqtt-prefix") {
		m.TopicPrefix = mqttPrefix
	}
	if flags.Changed("poll-interval") {
		m.PollInterval = pollInterval
	}
	if flags.Changed("mqtt-password") {
		m.Password = mqttPassword
	} else if env := os.Getenv(MQTTPasswordEnvVar); env != "" {
		m.Password = env
	}
}

func runBridge(cmd *cobra.Command, args []string) error {
	client, cfg, err := newClient(cmd)
	if err != nil {
		return err
	}

	applyMQTTFlags(cmd, &cfg.MQTT)

	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(cfg.Rooms) == 0 {
		return fmt.Errorf("no room given: pass --room <name> or list rooms in the config file")
	}

	rooms, err := enumerate(client, cfg.Rooms...)
	if err != nil {
		return err
	}

	mqttClient, err := mqttbridge.Connect(cfg.MQTT)
	if err != nil {
		return err
	}
	defer mqttClient.Close()

	bridge := mqttbridge.New(mqttClient, mqttbridge.Topics{Prefix: cfg.MQTT.TopicPrefix}, rooms)
	if err := bridge.Start(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Bridging %d device(s) from %d room(s) to %s (prefix %q, every %s)\n",
		bridge.Len(), len(rooms), cfg.MQTT.Broker, cfg.MQTT.TopicPrefix, cfg.MQTT.PollInterval)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = bridge.Run(ctx, cfg.MQTT.PollInterval)
	if errors.Is(err, context.Canceled) {
		logging.Info("bridge stopped", zap.String("broker", cfg.MQTT.Broker))
		return nil
	}
	return err
}
