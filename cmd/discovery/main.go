// Command discovery is a terminal client for a data discovery service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/j-drayer/discovery-cli/internal/adapters/driven/api"
	"github.com/j-drayer/discovery-cli/internal/adapters/driven/config/file"
	"github.com/j-drayer/discovery-cli/internal/adapters/driving/cli"
	"github.com/j-drayer/discovery-cli/internal/core/domain"
	"github.com/j-drayer/discovery-cli/internal/core/services"
	"github.com/j-drayer/discovery-cli/internal/core/state"
	"github.com/j-drayer/discovery-cli/internal/logger"
	"github.com/j-drayer/discovery-cli/internal/metrics"
)

// version is overridden with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	// Ctrl-C is handled per command; SIGTERM stops everything.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	err := cli.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func bootstrap(opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("%v; using defaults", err)
		settings = domain.DefaultAppSettings()
	}
	if opts.APIHost != "" {
		if err := domain.ValidateHost(opts.APIHost); err != nil {
			return nil, fmt.Errorf("--api-host: %w", err)
		}
		settings.API.Host = strings.TrimRight(opts.APIHost, "/")
	}
	if err := logger.SetLevel(settings.Log.Level); err != nil {
		logger.Warn("%v", err)
	}

	client, err := api.NewClient(settings.API.Host,
		api.WithTimeout(settings.API.Timeout()),
		api.WithRateLimiter(api.NewRateLimiter(settings.API.RateLimit)),
	)
	if err != nil {
		return nil, err
	}
	logger.Debug("api: %s (timeout %s)", settings.API.Host, settings.API.Timeout())

	metrics.Register()

	store := state.NewStore()
	return &cli.Services{
		Query:    services.NewQueryService(client, store, store),
		Datasets: services.NewDatasetService(client, store),
		Settings: settingsService,
		State:    store,
	}, nil
}
