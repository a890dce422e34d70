package events

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// MessageTemplateEngine provides dynamic message generation for events.
// Templates are text/template strings with the sprig function library.
type MessageTemplateEngine struct {
	mu        sync.RWMutex
	sources   map[EventReason]string
	templates map[EventReason]*template.Template
}

// NewMessageTemplateEngine creates a new message template engine with default templates.
func NewMessageTemplateEngine() *MessageTemplateEngine {
	engine := &MessageTemplateEngine{
		sources:   make(map[EventReason]string),
		templates: make(map[EventReason]*template.Template),
	}
	engine.loadDefaultTemplates()
	return engine
}

var defaultTemplates = map[EventReason]string{
	ReasonServiceInitialized:     "Service {{.Name}} initialized{{if .ServiceType}} ({{.ServiceType | lower}}){{end}}",
	ReasonServiceConnected:       "Service {{.Name}} connected",
	ReasonServiceDisconnected:    "Service {{.Name}} disconnected",
	ReasonServiceAuthenticated:   "Service {{.Name}} authenticated",
	ReasonServiceDeauthenticated: "Service {{.Name}} lost authentication and is {{.To | default \"ONLINE\"}}",
	ReasonServiceReady:           "Service {{.Name}} is ready",
	ReasonServiceStateChanged:    "Service {{.Name}} moved from {{.From}} to {{.To}}",

	ReasonServiceInitializeFailed:   "Service {{.Name}} failed to initialize{{if .Error}}: {{.Error | trunc 200}}{{end}}",
	ReasonServiceConnectFailed:      "Service {{.Name}} failed to connect{{if .Error}}: {{.Error | trunc 200}}{{end}}",
	ReasonServiceAuthenticateFailed: "Service {{.Name}} failed to authenticate and stays online{{if .Error}}: {{.Error | trunc 200}}{{end}}",
}

// loadDefaultTemplates initializes the default message templates for all event reasons.
func (e *MessageTemplateEngine) loadDefaultTemplates() {
	for reason, src := range defaultTemplates {
		if err := e.SetTemplate(reason, src); err != nil {
			panic(fmt.Sprintf("invalid default template for %s: %v", reason, err))
		}
	}
}

// Render generates a message for the given event reason and data.
func (e *MessageTemplateEngine) Render(reason EventReason, data EventData) string {
	e.mu.RLock()
	tmpl, exists := e.templates[reason]
	e.mu.RUnlock()

	if !exists {
		// Fallback for unknown event reasons
		return fmt.Sprintf("Event: %s for %s", string(reason), data.Name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Event: %s for %s (template error: %v)", string(reason), data.Name, err)
	}
	return buf.String()
}

// SetTemplate allows customizing the message template for a specific event reason.
func (e *MessageTemplateEngine) SetTemplate(reason EventReason, src string) error {
	tmpl, err := template.New(string(reason)).Funcs(sprig.TxtFuncMap()).Parse(src)
	if err != nil {
		return fmt.Errorf("failed to parse template for %s: %w", reason, err)
	}

	e.mu.Lock()
	e.sources[reason] = src
	e.templates[reason] = tmpl
	e.mu.Unlock()
	return nil
}

// GetTemplate returns the template for a specific event reason.
func (e *MessageTemplateEngine) GetTemplate(reason EventReason) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	src, exists := e.sources[reason]
	return src, exists
}
