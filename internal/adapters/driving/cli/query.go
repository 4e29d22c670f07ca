package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/j-drayer/discovery-cli/internal/core/domain"
	"github.com/j-drayer/discovery-cli/internal/core/services"
	"github.com/j-drayer/discovery-cli/internal/logger"
)

var (
	queryOutput string
	queryWatch  string
	queryChart  string
)

// interrupts returns a channel receiving Ctrl-C and a function that stops
// delivery. Tests replace it.
var interrupts = func() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	return ch, func() { signal.Stop(ch) }
}

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Run a free-text query",
	Long: `Sends a free-text query to the discovery service and prints the rows
it returns.

With no text argument the query is read from piped stdin. Press Ctrl-C to
cancel a running query.

Use --watch to re-run the query whenever a file changes, and --chart to
write the result columns as chart data sources.`,
	Example: `  discovery query "select * from trips limit 10"
  echo "select 1" | discovery query --output json
  discovery query --watch trips.sql --chart trips.chart.json`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryOutput, "output", "o", formatTable, "output format: table, json or yaml")
	queryCmd.Flags().StringVarP(&queryWatch, "watch", "w", "", "re-run the query whenever FILE changes")
	queryCmd.Flags().StringVar(&queryChart, "chart", "", "write chart data sources to FILE")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}
	if err := validateFormat(queryOutput); err != nil {
		return err
	}

	logger.Section("Query")
	runner := services.NewRunner(queryService, datasetService)
	if queryWatch != "" {
		return watchQuery(cmd, runner, filepath.Clean(queryWatch))
	}

	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		piped, err := readPiped(cmd.InOrStdin())
		if err != nil {
			return err
		}
		if piped != "" && appState != nil {
			appState.Emit(domain.QueryTextSet{Text: piped})
		} else {
			text = piped
		}
	}

	sig, stop := interrupts()
	defer stop()

	outcome, err := awaitQuery(cmd.Context(), runner, text, sig)
	if err != nil {
		if errors.Is(err, domain.ErrNoQueryText) {
			return fmt.Errorf("%w: pass the query as an argument or on stdin", err)
		}
		return err
	}

	switch o := outcome.(type) {
	case domain.QuerySucceeded:
		return printRows(cmd, o.Rows)
	case domain.QueryFailed:
		return errors.New(o.Message)
	default:
		cmd.Println("Query cancelled.")
		return nil
	}
}

// readPiped returns stdin contents unless stdin is a terminal.
func readPiped(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// awaitQuery submits a query and waits for its outcome or an interrupt.
// An interrupt cancels the query and yields QueryCancelled.
func awaitQuery(
	ctx context.Context, runner *services.Runner, text string, sig <-chan os.Signal,
) (domain.QueryOutcome, error) {
	done := runner.SubmitQuery(ctx, text)
	select {
	case res := <-done:
		return res.Value, res.Err
	case <-sig:
		<-runner.CancelQuery()
		if res := <-done; res.Err != nil {
			return nil, res.Err
		}
		return domain.QueryCancelled{}, nil
	}
}

func printRows(cmd *cobra.Command, rows json.RawMessage) error {
	t, tableErr := domain.DecodeTable(rows)

	if queryChart != "" {
		if tableErr != nil {
			return fmt.Errorf("cannot chart result: %w", tableErr)
		}
		if err := writeChart(queryChart, t); err != nil {
			return err
		}
	}

	switch queryOutput {
	case formatJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, rows, "", "  "); err != nil {
			return fmt.Errorf("failed to format rows: %w", err)
		}
		cmd.Println(buf.String())
		return nil
	case formatYAML:
		var v any
		if err := json.Unmarshal(rows, &v); err != nil {
			return fmt.Errorf("failed to decode rows: %w", err)
		}
		return writeStructured(cmd.OutOrStdout(), formatYAML, v)
	}

	if tableErr != nil {
		cmd.Println(string(rows))
		return nil
	}
	if t.Len() == 0 {
		cmd.Println(domain.NoDataMessage)
		return nil
	}

	cells := make([][]string, t.Len())
	for i := range cells {
		cells[i] = make([]string, len(t.Columns))
		for j, col := range t.Columns {
			cells[i][j] = truncate(formatCell(t.Cell(i, col)), 40)
		}
	}
	cmd.Println(renderTable(t.Columns, cells))
	cmd.Printf("%d row(s)\n", t.Len())
	return nil
}

// writeChart writes the table as chart data sources to path. A chart
// already saved in the file is kept.
func writeChart(path string, t domain.Table) error {
	var chart domain.Chart

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var doc domain.ChartDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to read chart %s: %w", path, err)
		}
		chart = doc.Chart
		if appState != nil && !chart.IsZero() {
			appState.Emit(domain.ChartSaved{Chart: chart})
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("failed to read chart %s: %w", path, err)
	}

	out, err := json.MarshalIndent(domain.NewChartDocument(t, chart), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode chart: %w", err)
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write chart %s: %w", path, err)
	}
	logger.Debug("chart: wrote %d data sources to %s", len(t.Columns), path)
	return nil
}

func watchQuery(cmd *cobra.Command, runner *services.Runner, path string) error {
	if appState == nil {
		return errors.New("state not configured")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file on save.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	sig, stop := interrupts()
	defer stop()

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", path)
	w := &queryWatcher{cmd: cmd, runner: runner, path: path}
	return w.loop(cmd.Context(), watcher.Events, watcher.Errors, sig)
}

// queryWatcher re-submits the stored query text whenever the watched file
// changes. Results arrive through state events, so outcomes of superseded
// submissions never print.
type queryWatcher struct {
	cmd    *cobra.Command
	runner *services.Runner
	path   string
	last   string
}

func (w *queryWatcher) loop(
	parent context.Context,
	fsEvents <-chan fsnotify.Event,
	fsErrors <-chan error,
	sig <-chan os.Signal,
) error {
	ctx, cancel := context.WithCancel(parent)
	events, unsubscribe := appState.Subscribe(16)
	defer func() {
		cancel()
		unsubscribe()
		_ = w.runner.Wait()
	}()

	w.reload(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sig:
			<-w.runner.CancelQuery()
			w.cmd.Println("Query cancelled.")
			return nil
		case ev, ok := <-fsEvents:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				w.reload(ctx)
			}
		case err, ok := <-fsErrors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			w.handle(ev)
		}
	}
}

func (w *queryWatcher) reload(ctx context.Context) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		logger.Warn("watch: %v", err)
		return
	}
	text := strings.TrimSpace(string(data))
	if text == "" || text == w.last {
		return
	}
	w.last = text

	appState.Emit(domain.QueryTextSet{Text: text})
	w.runner.SubmitQuery(ctx, "")
}

func (w *queryWatcher) handle(ev domain.Event) {
	switch e := ev.(type) {
	case domain.QueryInProgress:
		w.cmd.Println("Running query...")
	case domain.QuerySucceeded:
		if err := printRows(w.cmd, e.Rows); err != nil {
			w.cmd.PrintErrln("Error:", err)
		}
	case domain.QueryFailed:
		w.cmd.PrintErrln(e.Message)
	}
}
