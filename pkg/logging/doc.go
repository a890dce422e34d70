// Package logging provides the structured logger used across dai.
//
// It is a thin layer over Go's log/slog: every record carries a subsystem
// attribute so output from the container, individual services and the CLI
// can be filtered apart.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stdout)
//
//	logging.Info("Container", "Registered service %s", name)
//	logging.Debug("Web3", "Polling %s every %s", url, interval)
//	logging.Warn("ServiceManager", "Authentication of %s failed, staying online", name)
//	logging.Error("Bootstrap", err, "Failed to load configuration")
//
// # Subsystems
//
//   - Bootstrap: application start-up
//   - Config: configuration loading, validation and watching
//   - Container: registration, injection and ordered lifecycle sweeps
//   - ServiceManager: per-service lifecycle transitions
//   - Provider: role resolution and auto-registration of dependencies
//   - Maker: presets, plugins and container construction
//   - Events, Metrics: lifecycle observers
//   - dai: messages written by services through the log service
//
// Before InitForCLI is called, warnings and errors go to stderr and
// everything else is dropped.
//
// The logger is safe for concurrent use.
package logging
