package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/j-drayer/discovery-cli/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change the discovery configuration.

Settings are stored in config.toml inside the config directory.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Long: `Set a single configuration value.

Keys:
  api.host             - base URL of the discovery service
  api.timeout_seconds  - request timeout, 0 for none
  api.rate_limit       - requests per second, 0 for unlimited
  search.page_size     - default datasets per search page
  log.level            - debug, info, warn or error`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard that walks through every setting.`,
	RunE:  runConfigWizard,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configWizardCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[API]")
	cmd.Printf("  Host: %s\n", settings.API.Host)
	if settings.API.TimeoutSeconds == 0 {
		cmd.Println("  Timeout: none")
	} else {
		cmd.Printf("  Timeout: %s\n", settings.API.Timeout())
	}
	if settings.API.RateLimit == 0 {
		cmd.Println("  Rate limit: unlimited")
	} else {
		cmd.Printf("  Rate limit: %g req/s\n", settings.API.RateLimit)
	}
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Page size: %d\n", settings.Search.PageSize)
	cmd.Println()

	cmd.Println("[Log]")
	cmd.Printf("  Level: %s\n", settings.Log.Level)
	cmd.Println()

	if err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'discovery config set KEY VALUE' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("Set %s to %s\n", key, value)
	return nil
}

func runConfigWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	current, _ := settingsService.Get() //nolint:errcheck // defaults fill gaps
	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Discovery Settings Wizard")
	cmd.Println("=========================")
	cmd.Println("Press Enter to keep the current value.")
	cmd.Println()

	prompts := []struct {
		key     string
		label   string
		current string
	}{
		{services.KeyAPIHost, "API host", current.API.Host},
		{services.KeyAPITimeout, "Request timeout (seconds)", strconv.Itoa(current.API.TimeoutSeconds)},
		{services.KeyAPIRateLimit, "Rate limit (requests/s, 0 = unlimited)", strconv.FormatFloat(current.API.RateLimit, 'g', -1, 64)},
		{services.KeySearchPageSize, "Datasets per page", strconv.Itoa(current.Search.PageSize)},
	}

	for _, p := range prompts {
		cmd.Printf("%s [%s]: ", p.label, p.current)
		input := readLine(reader)
		if input == "" || input == p.current {
			continue
		}
		if err := settingsService.Set(p.key, input); err != nil {
			return fmt.Errorf("failed to set %s: %w", p.key, err)
		}
	}

	levels := []string{"debug", "info", "warn", "error"}
	cmd.Println("Log level:")
	defaultLevel := 1
	for i, l := range levels {
		cmd.Printf("  %d. %s\n", i+1, l)
		if l == strings.ToLower(current.Log.Level) {
			defaultLevel = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", defaultLevel)
	choice := parseChoice(readLine(reader), len(levels), defaultLevel)
	if err := settingsService.Set(services.KeyLogLevel, levels[choice-1]); err != nil {
		return fmt.Errorf("failed to set log.level: %w", err)
	}

	cmd.Println()
	if _, err := settingsService.Get(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

