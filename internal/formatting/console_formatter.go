package formatting

import (
	"fmt"
	"strings"

	"dai/internal/maker"
)

// ConsoleFormatter provides simple console output formatting
type ConsoleFormatter struct {
	options Options
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter(options Options) Formatter {
	return &ConsoleFormatter{
		options: options,
	}
}

// FormatStatus prints one line per service.
func (f *ConsoleFormatter) FormatStatus(status []maker.ServiceStatus) error {
	w := f.options.writer()
	if len(status) == 0 {
		_, err := fmt.Fprintln(w, "No services configured.")
		return err
	}

	if !f.options.Quiet {
		fmt.Fprintf(w, "Services (%d):\n", len(status))
	}
	for _, s := range status {
		line := fmt.Sprintf("  %-10s %-8s %-15s", s.Name, s.Type, s.State)
		if len(s.Dependencies) > 0 {
			line += " needs " + strings.Join(s.Dependencies, ", ")
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// FormatData prints data as indented JSON, or strings as they are.
func (f *ConsoleFormatter) FormatData(data interface{}) error {
	w := f.options.writer()
	switch d := data.(type) {
	case string:
		_, err := fmt.Fprintln(w, d)
		return err
	case []byte:
		_, err := w.Write(d)
		return err
	default:
		_, err := fmt.Fprintln(w, PrettyJSON(d))
		return err
	}
}

// SetOptions updates the formatter options
func (f *ConsoleFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *ConsoleFormatter) GetOptions() Options {
	return f.options
}
