// Package formatting renders service status and configuration for the CLI in
// console, table, JSON and YAML form.
package formatting

import (
	"fmt"
	"io"
	"os"
	"slices"

	"dai/internal/maker"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatConsole OutputFormat = "console" // Simple console output
	FormatJSON    OutputFormat = "json"    // JSON output
	FormatYAML    OutputFormat = "yaml"    // YAML output
	FormatTable   OutputFormat = "table"   // Rich table output
)

// KnownFormats lists the accepted values of --output.
var KnownFormats = []OutputFormat{FormatTable, FormatConsole, FormatJSON, FormatYAML}

// ParseFormat validates a --output value.
func ParseFormat(s string) (OutputFormat, error) {
	f := OutputFormat(s)
	if !slices.Contains(KnownFormats, f) {
		return "", fmt.Errorf("unknown output format %q, expected one of %v", s, KnownFormats)
	}
	return f, nil
}

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Quiet  bool      // Suppress decorative elements
	Color  bool      // Enable colored output
	Output io.Writer // Defaults to os.Stdout
}

func (o Options) writer() io.Writer {
	if o.Output == nil {
		return os.Stdout
	}
	return o.Output
}

// Formatter renders CLI output.
type Formatter interface {
	// FormatStatus renders the lifecycle state of each service.
	FormatStatus(status []maker.ServiceStatus) error
	// FormatData renders arbitrary data such as the resolved configuration.
	FormatData(data interface{}) error

	SetOptions(options Options)
	GetOptions() Options
}

// Factory creates formatters for different output formats
type Factory interface {
	CreateFormatter(options Options) Formatter
}

// NewFactory creates a new formatter factory
func NewFactory() Factory {
	return &factory{}
}

type factory struct{}

// CreateFormatter creates the appropriate formatter based on options
func (f *factory) CreateFormatter(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		return NewTableFormatter(options)
	case FormatConsole:
		fallthrough
	default:
		return NewConsoleFormatter(options)
	}
}
