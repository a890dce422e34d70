package formatting

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"dai/internal/maker"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(options Options) Formatter {
	return &YAMLFormatter{
		options: options,
	}
}

// FormatStatus writes the status list as YAML.
func (f *YAMLFormatter) FormatStatus(status []maker.ServiceStatus) error {
	if status == nil {
		status = []maker.ServiceStatus{}
	}
	return f.FormatData(map[string]interface{}{
		"services": status,
		"count":    len(status),
	})
}

// FormatData formats generic data as YAML. Pre-rendered YAML passed as
// []byte is written unchanged.
func (f *YAMLFormatter) FormatData(data interface{}) error {
	w := f.options.writer()
	if raw, ok := data.([]byte); ok {
		_, err := w.Write(raw)
		return err
	}

	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to format YAML: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// SetOptions updates the formatter options
func (f *YAMLFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *YAMLFormatter) GetOptions() Options {
	return f.options
}
