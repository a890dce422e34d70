package maker

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"dai/pkg/logging"
)

// Plugin extends a Maker. Implement any of ConfigAdder, BeforeCreator and
// AfterCreator to take part in Create.
type Plugin interface {
	Name() string
}

// ConfigAdder runs first and may change the options, for example to add
// services or resolver entries.
type ConfigAdder interface {
	AddConfig(opts *Options) error
}

// BeforeCreator runs after every plugin has added its configuration, right
// before the container is built.
type BeforeCreator interface {
	BeforeCreate(opts *Options) error
}

// AfterCreator runs once the container is built and lifecycle events are
// wired, before automatic authentication.
type AfterCreator interface {
	AfterCreate(m *Maker) error
}

var (
	plugins     = make(map[string]Plugin)
	pluginMutex sync.RWMutex
)

// RegisterPlugin makes p available to configurations that reference it by
// name. Registering a name again replaces the previous plugin.
func RegisterPlugin(p Plugin) {
	pluginMutex.Lock()
	defer pluginMutex.Unlock()
	plugins[p.Name()] = p
	logging.Debug("Maker", "Registered plugin %s", p.Name())
}

// UnregisterPlugin removes the plugin registered under name.
func UnregisterPlugin(name string) {
	pluginMutex.Lock()
	defer pluginMutex.Unlock()
	delete(plugins, name)
}

// LookupPlugin returns the plugin registered under name.
func LookupPlugin(name string) (Plugin, bool) {
	pluginMutex.RLock()
	defer pluginMutex.RUnlock()
	p, ok := plugins[name]
	return p, ok
}

// RegisteredPlugins returns the names of all registered plugins, sorted.
func RegisteredPlugins() []string {
	pluginMutex.RLock()
	defer pluginMutex.RUnlock()
	return slices.Sorted(maps.Keys(plugins))
}

// PluginNotFoundError is returned when a configuration names a plugin that
// was never registered.
type PluginNotFoundError struct {
	Name string
}

func (e *PluginNotFoundError) Error() string {
	return fmt.Sprintf("plugin %q is not registered", e.Name)
}

// PluginError wraps a failure returned by one of a plugin's hooks.
type PluginError struct {
	Plugin string
	Hook   string
	Err    error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s failed in %s: %v", e.Plugin, e.Hook, e.Err)
}

func (e *PluginError) Unwrap() error {
	return e.Err
}

// resolvePlugins looks up plugins by name, reporting the first unknown one.
func resolvePlugins(names []string) ([]Plugin, error) {
	out := make([]Plugin, 0, len(names))
	for _, name := range names {
		p, ok := LookupPlugin(name)
		if !ok {
			return nil, &PluginNotFoundError{Name: name}
		}
		out = append(out, p)
	}
	return out, nil
}
