package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/meridian-io/cms/pkg/cms"
	"github.com/meridian-io/cms/pkg/cmsclient"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	NotAvailable = "N/A"
)

// createClient builds an SDK client from the effective CLI configuration.
func createClient() (cms.Client, error) {
	endpoint := viper.GetString("endpoint")

	client, err := cmsclient.New(&cms.Config{
		Endpoint:     endpoint,
		ChannelToken: viper.GetString("channel_token"),
		AccessToken:  viper.GetString("token"),
		Debug:        viper.GetBool("verbose"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// renderStructured writes v to stdout as JSON or YAML. It returns false when
// the selected output format is neither, so callers can fall back to a table.
func renderStructured(v interface{}) (bool, error) {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(v)
		if err != nil {
			return true, fmt.Errorf("failed to encode as JSON: %w", err)
		}

		return true, nil
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		err := encoder.Encode(v)
		if err != nil {
			return true, fmt.Errorf("failed to encode as YAML: %w", err)
		}

		return true, nil
	default:
		return false, nil
	}
}

func formatDate(d cms.Date) string {
	if d.Time.IsZero() {
		return NotAvailable
	}

	return d.Time.Format("2006-01-02 15:04:05")
}
