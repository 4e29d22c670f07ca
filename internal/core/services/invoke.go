package services

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/j-drayer/discovery-cli/internal/core/ports/driven"
	"github.com/j-drayer/discovery-cli/internal/logger"
)

// Classifier decides whether a status code counts as success.
type Classifier func(status int) bool

// StatusOK accepts exactly 200.
func StatusOK(status int) bool {
	return status == http.StatusOK
}

// Status2xx accepts any 2xx status.
func Status2xx(status int) bool {
	return status >= 200 && status < 300
}

// invocation describes one request and how its result becomes an event.
type invocation[E any] struct {
	Request driven.Request

	// Accept classifies the status. Nil means StatusOK.
	Accept Classifier

	// Success maps an accepted response.
	Success func(resp *driven.Response) E

	// Failure maps a rejected response or a dispatch error. Exactly one of
	// resp and err is non-nil.
	Failure func(resp *driven.Response, err error) E
}

// invoke dispatches the request once and maps the result. It never returns
// an error: every failure is expressed through inv.Failure.
func invoke[E any](ctx context.Context, d driven.Dispatcher, inv invocation[E]) E {
	accept := inv.Accept
	if accept == nil {
		accept = StatusOK
	}

	log := logger.FromContext(ctx).With(
		zap.String("method", inv.Request.Method),
		zap.String("path", inv.Request.Path),
	)

	resp, err := d.Dispatch(ctx, inv.Request)
	if err != nil {
		log.Debug("dispatch failed", zap.Error(err))
		return inv.Failure(nil, err)
	}
	if !accept(resp.StatusCode) {
		log.Debug("status rejected", zap.Int("status", resp.StatusCode))
		return inv.Failure(resp, nil)
	}
	return inv.Success(resp)
}
