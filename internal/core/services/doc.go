// Package services implements the driving port interfaces.
// Services contain the core orchestration logic: they turn user triggers
// into requests on driven ports and report every outcome as an event.
//
// Services never talk HTTP directly; they depend on driven.Dispatcher.
package services
