// Package api is the HTTP adapter for the data service. It implements
// driven.Dispatcher on top of net/http.
//
// Every request is resolved against the base address given at construction
// and carries the client's cookie jar. A response is returned whatever its
// status; only transport faults are errors.
package api
