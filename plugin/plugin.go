// Package plugin defines the extension mechanism of the processor. A plugin
// subscribes callbacks to the broadcast emitter and may declare other
// plugins it depends on.
package plugin

import (
	"fmt"
	"strings"

	"github.com/AdamWorthington/omakase/broadcast"
	"github.com/tliron/commonlog"
)

// log returns the package logger. It is looked up on use so that a backend
// configured after initialization applies.
func log() commonlog.Logger { return commonlog.GetLogger("omakase.plugin") }

// Plugin is a unit of processing registered with a Registry. Plugins must be
// comparable, typically pointers.
type Plugin interface {
	// Subscribe registers the plugin's callbacks. It is called once, after
	// every plugin has been registered and before parsing begins.
	Subscribe(e *broadcast.Emitter)
}

// DependentPlugin is a plugin that needs other plugins to be present. Its
// Dependencies method is called when the plugin is registered, so it may
// inspect what was registered before it.
type DependentPlugin interface {
	Plugin
	Dependencies(r *Registry) error
}

// ConfigurationError reports an invalid plugin setup.
type ConfigurationError struct {
	Message string
}

// Error returns the formatted error message.
func (e *ConfigurationError) Error() string { return "configuration error: " + e.Message }

// configErrorf returns a new *ConfigurationError.
func configErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// Registry holds the plugins of a single processing request. At most one
// plugin of each type may be registered.
//
// Dependencies are resolved depth-first at registration, and a plugin is
// added only once its dependencies are in place. Plugins therefore appear
// after everything they depend on.
type Registry struct {
	plugins   []Plugin
	resolving []Plugin
	resolved  bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds each plugin in order along with its dependencies. It stops
// at the first error.
func (r *Registry) Register(plugins ...Plugin) error {
	for _, p := range plugins {
		if err := r.register(p); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) register(p Plugin) error {
	if r.resolved {
		return configErrorf("%s registered after the registry was resolved", typeName(p))
	} else if p == nil {
		return configErrorf("nil plugin")
	}
	for i, other := range r.resolving {
		if other == p {
			return cycleError(r.resolving[i:], p)
		}
	}
	for _, list := range [][]Plugin{r.plugins, r.resolving} {
		for _, other := range list {
			if other == p {
				return nil
			} else if fmt.Sprintf("%T", other) == fmt.Sprintf("%T", p) {
				return configErrorf("only one %s plugin may be registered", typeName(p))
			}
		}
	}

	// Resolve dependencies before adding the plugin itself.
	if dp, ok := p.(DependentPlugin); ok {
		r.resolving = append(r.resolving, p)
		err := dp.Dependencies(r)
		r.resolving = r.resolving[:len(r.resolving)-1]
		if err != nil {
			return err
		}
	}

	r.plugins = append(r.plugins, p)
	log().Debugf("registered %s", typeName(p))
	return nil
}

// Resolve closes the registry. Further registrations fail. Calling it more
// than once has no effect.
func (r *Registry) Resolve() {
	r.resolved = true
}

// Plugins returns the registered plugins, dependencies first.
func (r *Registry) Plugins() []Plugin {
	return r.plugins
}

// Retrieve returns the registered plugin of type T, if any. Plugins whose
// dependencies are still being resolved are not returned.
func Retrieve[T Plugin](r *Registry) (T, bool) {
	for _, p := range r.plugins {
		if v, ok := p.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Require returns the registered plugin of type T, registering the result of
// create when there is none. It fails if T is itself waiting on the current
// chain of dependencies.
func Require[T Plugin](r *Registry, create func() T) (T, error) {
	if v, ok := Retrieve[T](r); ok {
		return v, nil
	}

	for i, p := range r.resolving {
		if _, ok := p.(T); ok {
			var zero T
			return zero, cycleError(r.resolving[i:], p)
		}
	}

	v := create()
	if err := r.register(v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// cycleError reports that p is needed again by the chain of plugins still
// resolving their dependencies.
func cycleError(chain []Plugin, p Plugin) error {
	var names []string
	for _, q := range chain {
		names = append(names, typeName(q))
	}
	return configErrorf("dependency cycle: %s -> %s", strings.Join(names, " -> "), typeName(p))
}

// typeName returns the type name of p without package or pointer.
func typeName(p Plugin) string {
	name := fmt.Sprintf("%T", p)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
