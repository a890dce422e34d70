package formatting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"dai/internal/maker"
	"dai/internal/services"
	daistrings "dai/pkg/strings"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) Formatter {
	return &TableFormatter{
		options: options,
	}
}

// FormatStatus renders a table of services in dependency order.
func (f *TableFormatter) FormatStatus(status []maker.ServiceStatus) error {
	if len(status) == 0 {
		fmt.Fprint(f.options.writer(), f.formatEmptyMessage("No services configured"))
		return nil
	}

	t := f.createTable()
	t.AppendHeader(table.Row{f.header("SERVICE"), f.header("TYPE"), f.header("STATE"), f.header("DEPENDS ON")})

	ready := 0
	for _, s := range status {
		if s.Ready {
			ready++
		}
		deps := daistrings.Cell(strings.Join(s.Dependencies, ", "), daistrings.DefaultCellWidth)
		if deps == "" {
			deps = "-"
		}
		t.AppendRow(table.Row{s.Name, s.Type, f.colorState(s.State), deps})
	}
	t.Render()

	if !f.options.Quiet {
		fmt.Fprintf(f.options.writer(), "\n%s %d/%d ready\n", f.colorize(text.FgHiBlue, "Total:"), ready, len(status))
	}
	return nil
}

// FormatData formats maps as key-value tables and everything else plainly.
func (f *TableFormatter) FormatData(data interface{}) error {
	switch d := data.(type) {
	case map[string]interface{}:
		return f.formatObjectData(d)
	case []interface{}:
		return f.formatArrayData(d)
	case []byte:
		_, err := f.options.writer().Write(d)
		return err
	case string:
		fmt.Fprintln(f.options.writer(), d)
	default:
		fmt.Fprintf(f.options.writer(), "%v\n", d)
	}
	return nil
}

// SetOptions updates the formatter options
func (f *TableFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *TableFormatter) GetOptions() Options {
	return f.options
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(f.options.writer())
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *TableFormatter) colorize(c text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return c.Sprint(s)
}

func (f *TableFormatter) header(s string) string {
	return f.colorize(text.FgHiCyan, s)
}

func (f *TableFormatter) colorState(state string) string {
	switch services.ServiceState(state) {
	case services.StateReady:
		return f.colorize(text.FgHiGreen, state)
	case services.StateOnline, services.StateAuthenticating, services.StateConnecting, services.StateInitializing:
		return f.colorize(text.FgHiYellow, state)
	case services.StateError:
		return f.colorize(text.FgHiRed, state)
	default:
		return state
	}
}

// formatEmptyMessage formats empty result messages
func (f *TableFormatter) formatEmptyMessage(message string) string {
	return f.colorize(text.FgYellow, message) + "\n"
}

// formatObjectData formats object data as key-value pairs
func (f *TableFormatter) formatObjectData(data map[string]interface{}) error {
	t := f.createTable()
	t.AppendHeader(table.Row{f.header("KEY"), f.header("VALUE")})

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		t.AppendRow(table.Row{key, daistrings.Cell(fmt.Sprintf("%v", data[key]), daistrings.DefaultCellWidth)})
	}

	t.Render()
	return nil
}

// formatArrayData formats array data as a numbered list
func (f *TableFormatter) formatArrayData(data []interface{}) error {
	w := f.options.writer()
	if len(data) == 0 {
		fmt.Fprint(w, f.formatEmptyMessage("No items found"))
		return nil
	}

	for i, item := range data {
		fmt.Fprintf(w, "  %d. %v\n", i+1, item)
	}
	fmt.Fprintf(w, "\n%s %d items\n", f.colorize(text.FgHiBlue, "Total:"), len(data))
	return nil
}
