package formatting

import (
	"encoding/json"
	"fmt"

	"dai/internal/maker"
)

// JSONFormatter provides JSON output formatting
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options) Formatter {
	return &JSONFormatter{
		options: options,
	}
}

// FormatStatus writes the status list as a JSON document.
func (f *JSONFormatter) FormatStatus(status []maker.ServiceStatus) error {
	if status == nil {
		status = []maker.ServiceStatus{}
	}
	return f.FormatData(map[string]interface{}{
		"services": status,
		"count":    len(status),
	})
}

// FormatData writes data as indented JSON. Pre-rendered JSON passed as
// []byte is written unchanged.
func (f *JSONFormatter) FormatData(data interface{}) error {
	w := f.options.writer()
	if raw, ok := data.([]byte); ok {
		_, err := w.Write(raw)
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	return nil
}

// SetOptions updates the formatter options
func (f *JSONFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *JSONFormatter) GetOptions() Options {
	return f.options
}
