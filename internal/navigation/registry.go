// internal/navigation/registry.go
package navigation

import (
	"fmt"
)

// Registry builds Screen values from the declared catalog. It is the only
// place that knows which controls exist on which screen.
type Registry struct {
	specs map[ScreenID]screenSpec
	order []ScreenID
}

// NewRegistry validates the built-in catalog and returns a Registry for it.
func NewRegistry() (*Registry, error) {
	return newRegistry(catalog)
}

func newRegistry(specs []screenSpec) (*Registry, error) {
	r := &Registry{specs: make(map[ScreenID]screenSpec, len(specs))}
	for _, spec := range specs {
		if spec.id.IsSentinel() || spec.id == ScreenUnknown {
			return nil, fmt.Errorf("catalog declares %s as a screen: %w", spec.id, ErrUnknownScreen)
		}
		if _, dup := r.specs[spec.id]; dup {
			return nil, fmt.Errorf("catalog declares %s twice", spec.id)
		}
		r.specs[spec.id] = spec
		r.order = append(r.order, spec.id)

		// Building once up front surfaces bad keywords and missing default
		// tables at load time instead of on first visit.
		if _, err := r.Create(spec.id); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Create returns a freshly built Screen for id. Sentinels and ids without a
// catalog entry yield ErrUnknownScreen.
func (r *Registry) Create(id ScreenID) (*Screen, error) {
	spec, ok := r.specs[id]
	if !ok {
		return nil, fmt.Errorf("create screen %s: %w", id, ErrUnknownScreen)
	}
	if len(spec.controls[DefaultLanguage]) == 0 {
		return nil, fmt.Errorf("create screen %s: %w", id, ErrMissingDefaultControls)
	}

	screen := &Screen{id: id, controls: make(map[Language][]Control, len(spec.controls))}
	for lang, declared := range spec.controls {
		controls := make([]Control, 0, len(declared))
		for _, cs := range declared {
			c, err := NewControl(cs.keyword, cs.template, cs.target)
			if err != nil {
				return nil, fmt.Errorf("create screen %s (%s): %w", id, lang, err)
			}
			controls = append(controls, c)
		}
		screen.controls[lang] = controls
	}
	return screen, nil
}

// Screens lists the registered screens in catalog order.
func (r *Registry) Screens() []ScreenID {
	out := make([]ScreenID, len(r.order))
	copy(out, r.order)
	return out
}
