package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/meridian-io/cms/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Static errors for err113 compliance.
var (
	ErrUnknownConfigKey = errors.New("unknown configuration key")
)

// Settable configuration keys.
var configKeys = []string{"endpoint", "channel_token", "token", "output"}

// CLIConfig is the on-disk CLI configuration.
type CLIConfig struct {
	Endpoint     string `json:"endpoint,omitempty"      yaml:"endpoint,omitempty"`
	ChannelToken string `json:"channel_token,omitempty" yaml:"channel_token,omitempty"`
	Token        string `json:"token,omitempty"         yaml:"token,omitempty"`
	Output       string `json:"output,omitempty"        yaml:"output,omitempty"`
}

// NewConfigCommand creates the config command group
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "View and modify the CLI configuration stored in $HOME/.cms/config.yml",
	}

	cmd.AddCommand(newConfigGetCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigSetTokenCommand())

	return cmd
}

func newConfigGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := currentConfig()

			done, err := renderStructured(config)
			if done {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Key", "Value")
			_ = table.Append([]string{"endpoint", orNA(config.Endpoint)})
			_ = table.Append([]string{"channel_token", orNA(config.ChannelToken)})
			_ = table.Append([]string{"token", maskSecret(config.Token)})
			_ = table.Append([]string{"output", orNA(config.Output)})
			_ = table.Render()

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !validConfigKey(key) {
				return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
			}

			viper.Set(key, args[1])

			return saveConfig()
		},
	}
}

func newConfigSetTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-token",
		Short: "Set the management access token",
		Long:  "Prompt for the management access token without echoing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(os.Stderr, "Access token: ")

			tokenBytes, err := term.ReadPassword(syscall.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read token: %w", err)
			}

			fmt.Fprintln(os.Stderr)

			viper.Set("token", string(tokenBytes))

			return saveConfig()
		},
	}
}

func currentConfig() CLIConfig {
	return CLIConfig{
		Endpoint:     viper.GetString("endpoint"),
		ChannelToken: viper.GetString("channel_token"),
		Token:        viper.GetString("token"),
		Output:       viper.GetString("output"),
	}
}

func saveConfig() error {
	path := viper.ConfigFileUsed()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to locate home directory: %w", err)
		}

		configDir := filepath.Join(home, ".cms")
		if err := os.MkdirAll(configDir, constants.DownloadDirPerm); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		path = filepath.Join(configDir, "config.yml")
	}

	data, err := yaml.Marshal(currentConfig())
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	if err := os.WriteFile(path, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	fmt.Fprintln(os.Stdout, "Configuration saved to", path)

	return nil
}

func validConfigKey(key string) bool {
	for _, known := range configKeys {
		if key == known {
			return true
		}
	}

	return false
}

func orNA(value string) string {
	if value == "" {
		return NotAvailable
	}

	return value
}

func maskSecret(value string) string {
	if value == "" {
		return NotAvailable
	}

	return "***"
}
