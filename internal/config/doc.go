// Package config provides configuration management for dai.
//
// Configuration is loaded from a single directory. The default directory is
// ~/.config/dai, but users can specify a custom one using the --config-path
// flag in commands.
//
// # Configuration File
//
// The directory contains config.yaml:
//
//	preset: http
//	logLevel: info
//	url: http://localhost:8545
//	autoAuthenticate: true
//	accounts:
//	  - name: default
//	    address: "0x90f8bf6a479f320ead074411a4b0e7944ea8c9c1"
//	plugins: [example]
//	services:
//	  timer: true
//	  web3: { pollInterval: 5s }
//	extractedServices:
//	  exchange: dai-plugin-exchange
//	metrics:
//	  enabled: true
//	  address: ":9090"
//
// A missing file is not an error: LoadConfig then returns DefaultConfig.
// Values under services are kept as decoded YAML and interpreted by the
// provider package, which accepts a bool, an implementation name, a
// settings map or a [name, settings] pair per role.
//
// # Validation
//
// Validate checks every field and returns all problems at once as
// ValidationErrors.
//
// # Watching
//
// Watcher notifies a channel whenever config.yaml is written, created or
// replaced. Bursts of filesystem events are debounced into one
// notification.
package config
