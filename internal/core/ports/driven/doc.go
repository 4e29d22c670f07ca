// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Dispatcher: Issues one HTTP request against the data service
//   - EventSink: Receives outcome events (the state container)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - QueryTextReader: Supplies the stored query text when a submission has
//     none. Without it, submissions must carry their own text.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
