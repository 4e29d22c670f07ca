package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/j-drayer/discovery-cli/internal/adapters/driven/storage/memory"
	"github.com/j-drayer/discovery-cli/internal/core/domain"
	"github.com/j-drayer/discovery-cli/internal/core/services"
	"github.com/j-drayer/discovery-cli/internal/core/state"
	"github.com/j-drayer/discovery-cli/internal/logger"
)

// fakeQueryService mimics the query service: it reads stored text, emits
// outcomes into the store and honours cancellation.
type fakeQueryService struct {
	store *state.Store

	mu        sync.Mutex
	rows      json.RawMessage
	fail      bool
	block     bool
	released  chan struct{}
	release   sync.Once
	gen       domain.Generation
	cancel    context.CancelFunc
	submitted []string
	cancels   int
}

func (f *fakeQueryService) Submit(ctx context.Context, text string) (domain.QueryOutcome, error) {
	if text == "" {
		text = f.store.QueryText()
	}
	if text == "" {
		return nil, domain.ErrNoQueryText
	}

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.cancel = cancel
	f.submitted = append(f.submitted, text)
	rows, fail, block := f.rows, f.fail, f.block
	f.mu.Unlock()

	f.store.Emit(domain.QueryInProgress{Generation: gen})

	var out domain.QueryOutcome
	switch {
	case block:
		select {
		case <-reqCtx.Done():
		case <-f.released:
		}
		out = domain.QueryFailed{Generation: gen, Message: domain.QueryFailureMessage}
	case fail:
		out = domain.QueryFailed{Generation: gen, Message: domain.QueryFailureMessage}
	default:
		out = domain.QuerySucceeded{Generation: gen, Rows: rows}
	}
	f.store.Emit(out)
	return out, nil
}

func (f *fakeQueryService) Cancel() {
	f.mu.Lock()
	f.cancels++
	gen, cancel := f.gen, f.cancel
	f.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	f.release.Do(func() { close(f.released) })
	f.store.Emit(domain.QueryCancelled{Generation: gen})
}

func (f *fakeQueryService) Submitted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.submitted...)
}

// fakeDatasetService records search requests and answers with fixed data.
type fakeDatasetService struct {
	store *state.Store

	mu         sync.Mutex
	page       domain.SearchPage
	searchErr  error
	listErr    error
	preview    domain.Preview
	previewErr error
	requests   []domain.SearchRequest
}

func (f *fakeDatasetService) Search(_ context.Context, req domain.SearchRequest) (domain.SearchOutcome, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	gen := domain.Generation(len(f.requests))
	f.mu.Unlock()

	if f.searchErr != nil {
		return nil, f.searchErr
	}
	var out domain.SearchOutcome = domain.DatasetListUpdated{Generation: gen, Page: f.page}
	if f.listErr != nil {
		out = domain.DatasetListFailed{Generation: gen, Err: f.listErr}
	}
	f.store.Emit(out)
	return out, nil
}

func (f *fakeDatasetService) RetrievePreview(_ context.Context, id string) (domain.Preview, error) {
	f.store.Emit(domain.DatasetPreviewRequested{DatasetID: id})
	if f.previewErr != nil {
		f.store.Emit(domain.DatasetPreviewFailed{DatasetID: id, Err: f.previewErr})
		return domain.Preview{}, f.previewErr
	}
	f.store.Emit(domain.DatasetPreviewLoaded{DatasetID: id, Preview: f.preview})
	return f.preview, nil
}

func (f *fakeDatasetService) DownloadURL(id string) string {
	return "http://localhost:4000/api/v1/dataset/" + id + "/download"
}

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testEnv struct {
	store    *state.Store
	query    *fakeQueryService
	datasets *fakeDatasetService
	settings *services.SettingsService
	out      *syncBuffer
	sig      chan os.Signal
}

// setupTestServices installs fakes behind the command globals and restores
// every global when the test ends.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	store := state.NewStore()
	env := &testEnv{
		store:    store,
		query: &fakeQueryService{
			store:    store,
			rows:     json.RawMessage(`[{"a":1}]`),
			released: make(chan struct{}),
		},
		datasets: &fakeDatasetService{store: store},
		settings: services.NewSettingsService(memory.NewConfigStore()),
		out:      &syncBuffer{},
		sig:      make(chan os.Signal, 1),
	}
	SetServices(&Services{
		Query:    env.query,
		Datasets: env.datasets,
		Settings: env.settings,
		State:    store,
	})

	origInterrupts := interrupts
	interrupts = func() (<-chan os.Signal, func()) { return env.sig, func() {} }

	rootCmd.SetOut(env.out)
	rootCmd.SetErr(env.out)
	rootCmd.SetIn(strings.NewReader(""))

	t.Cleanup(func() {
		SetServices(nil)
		SetBootstrap(nil)
		interrupts = origInterrupts
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetContext(context.Background())
		logger.SetVerbose(false)
		resetFlags()
	})
	return env
}

func resetFlags() {
	verbose, configDir, apiHost = false, "", ""
	queryOutput, queryWatch, queryChart = formatTable, "", ""
	searchPage, searchLimit, searchSort = 1, 0, ""
	searchFacets, searchParams = nil, nil
	searchAPIAccessible, searchOutput = false, formatTable
	previewOutput, previewRows = formatTable, 20
	versionShort = false
	_ = mcpServeCmd.Flags().Set("port", "0")
}

// run executes the root command with args and returns everything written.
func (e *testEnv) run(args ...string) (string, error) {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return e.out.String(), err
}
