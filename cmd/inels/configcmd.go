package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/muurk/inels/internal/config"
	"github.com/muurk/inels/internal/ui"
)

var forceInit bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file",
	Long: `Write a configuration file from the defaults and the given flags.

The file is written to --config or the OS configuration directory
($XDG_CONFIG_HOME/inels/config.yaml on Linux). An existing file is only
replaced with --force.`,
	Example: `  inels config init --host 192.168.1.50 --room garage --room kitchen
  inels config init --host plc.local --api-version v1 --force`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	configInitCmd.Flags().StringArrayVar(&roomNames, "room", nil, "Room to store in the config (repeatable)")
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	// Start from defaults rather than the existing file
	cfg := config.Default()
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
	cfg.Rooms = roomNames

	if cfg.Controller.Host != "" {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	if err := cfg.Save(path); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.NewSuccessResult("Configuration written", map[string]string{
		"File": path,
		"Host": cfg.Controller.Host,
	}).Render())
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := *cfg
	if out.MQTT.Password != "" {
		out.MQTT.Password = "********"
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
