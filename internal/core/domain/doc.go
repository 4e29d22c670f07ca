// Package domain defines the core entities of the discovery client.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - CancellationHandle: The per-submission token used to abort a query
//   - Event: Typed outcome events emitted by the orchestrators
//   - SearchRequest: Faceted, paginated dataset search parameters
//   - Table: Ordered tabular rows decoded from a response body
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
