package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j-drayer/discovery-cli/internal/adapters/driving/tui"
	"github.com/j-drayer/discovery-cli/internal/logger"
)

// runProgram runs a bubbletea model. Tests replace it.
var runProgram = func(m tea.Model, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal interface.

The TUI runs free-text queries and browses the dataset catalogue with
keyboard navigation.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Run / Search / Preview
  Tab      - Switch between input and results
  n, p     - Next and previous page of datasets
  Esc      - Cancel a running query / Back
  ctrl+c   - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panicked: %v", r)
		}
	}()

	ports := &tui.Ports{
		Query:    queryService,
		Datasets: datasetService,
		State:    appState,
		Settings: settingsService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer func() {
		cancel()
		if cerr := app.Close(); cerr != nil {
			logger.Debug("tui: background task: %v", cerr)
		}
	}()
	app.WithContext(ctx)

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if err := runProgram(app, opts...); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
