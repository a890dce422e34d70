// Package app bootstraps dai for the command line.
//
// # Bootstrap
//
// NewApplication loads config.yaml from the configuration directory (default
// ~/.config/dai), validates it and configures logging from its logLevel, or
// debug when the --debug flag is set. It then builds a Maker from the
// configured preset, attaches the prometheus collector to the container and
// authenticates all services if autoAuthenticate is set.
//
// # Serving
//
// Run keeps the services alive until the process receives SIGINT or SIGTERM.
// When a metrics address is configured it serves /metrics and /healthz.
// With Config.Watch set, config.yaml is watched through fsnotify; every
// change builds a fresh set of services and swaps it in, while a broken
// configuration leaves the running services untouched.
package app
