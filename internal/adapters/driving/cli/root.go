// Package cli implements the discovery command line.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/j-drayer/discovery-cli/internal/core/ports/driving"
	"github.com/j-drayer/discovery-cli/internal/logger"
)

// version is set at build time.
var version = "dev"

// Persistent flags.
var (
	verbose   bool
	configDir string
	apiHost   string
)

// Services used by the commands. They are installed by the bootstrap
// function before any command runs, or directly by tests.
var (
	queryService    driving.QueryService
	datasetService  driving.DatasetService
	settingsService driving.SettingsService
	appState        driving.StateReader
)

// Options are the persistent flag values handed to the bootstrap function.
type Options struct {
	ConfigDir string
	APIHost   string
	Verbose   bool
}

// Services bundles everything the commands depend on.
type Services struct {
	Query    driving.QueryService
	Datasets driving.DatasetService
	Settings driving.SettingsService
	State    driving.StateReader
}

// BootstrapFunc builds the services once the flags are parsed.
type BootstrapFunc func(Options) (*Services, error)

var bootstrap BootstrapFunc

var rootCmd = &cobra.Command{
	Use:   "discovery",
	Short: "Query and explore a data discovery service",
	Long: `discovery talks to a data discovery service.

Run free-text queries, search the dataset catalogue, preview datasets and
export query results for charting, from the terminal, an interactive UI or
an MCP client.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.discovery)")
	rootCmd.PersistentFlags().StringVar(&apiHost, "api-host", "", "override the API host")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx. Commands stop when ctx
// is cancelled.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap installs the function that builds the services.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices installs services directly, bypassing bootstrap.
func SetServices(s *Services) {
	if s == nil {
		queryService, datasetService, settingsService, appState = nil, nil, nil, nil
		return
	}
	queryService = s.Query
	datasetService = s.Datasets
	settingsService = s.Settings
	appState = s.State
}

func setup(_ *cobra.Command, _ []string) error {
	if verbose {
		logger.SetVerbose(true)
	}
	if bootstrap == nil {
		return nil
	}

	svc, err := bootstrap(Options{ConfigDir: configDir, APIHost: apiHost, Verbose: verbose})
	if err != nil {
		return err
	}
	if svc == nil {
		return errors.New("bootstrap returned no services")
	}
	SetServices(svc)
	return nil
}
