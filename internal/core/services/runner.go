package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/j-drayer/discovery-cli/internal/core/domain"
	"github.com/j-drayer/discovery-cli/internal/core/ports/driving"
)

// ErrTaskPanicked is returned for a task that panicked.
var ErrTaskPanicked = errors.New("services: task panicked")

// Runner starts each trigger in its own goroutine. Tasks are not queued,
// coalesced or de-duplicated, and a failing task never stops its siblings.
type Runner struct {
	query    driving.QueryService
	datasets driving.DatasetService
	group    errgroup.Group
}

// NewRunner creates a runner over the given services.
func NewRunner(query driving.QueryService, datasets driving.DatasetService) *Runner {
	return &Runner{query: query, datasets: datasets}
}

// SubmitQuery starts a query submission. The channel receives the outcome
// (or error) once and is then closed.
func (r *Runner) SubmitQuery(ctx context.Context, text string) <-chan Result[domain.QueryOutcome] {
	return spawn(r, func() (domain.QueryOutcome, error) {
		return r.query.Submit(ctx, text)
	})
}

// CancelQuery starts a cancellation of the stored query.
func (r *Runner) CancelQuery() <-chan Result[struct{}] {
	return spawn(r, func() (struct{}, error) {
		r.query.Cancel()
		return struct{}{}, nil
	})
}

// Search starts a dataset search.
func (r *Runner) Search(ctx context.Context, req domain.SearchRequest) <-chan Result[domain.SearchOutcome] {
	return spawn(r, func() (domain.SearchOutcome, error) {
		return r.datasets.Search(ctx, req)
	})
}

// Wait blocks until every started task has finished and returns the first
// task error, if any.
func (r *Runner) Wait() error {
	return r.group.Wait()
}

// Result is the completion of one task.
type Result[T any] struct {
	Value T
	Err   error
}

func spawn[T any](r *Runner, task func() (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	r.group.Go(func() (err error) {
		var v T
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("%w: %v", ErrTaskPanicked, p)
			}
			ch <- Result[T]{Value: v, Err: err}
			close(ch)
		}()
		v, err = task()
		return err
	})
	return ch
}
