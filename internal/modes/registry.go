package modes

import (
	"fmt"

	"github.com/san-kum/primeviz/internal/prime"
	"github.com/san-kum/primeviz/internal/scene"
)

// Order is the fixed registry order; index k is bound to key k+1 in the
// interactive hosts.
var Order = []string{
	"cellular",
	"tesseract",
	"phyllotaxis",
	"ulam",
	"sacks",
	"sexagesimal",
	"flowfield",
	"harmonograph",
}

type Registry struct {
	oracle    *prime.Oracle
	factories map[string]func(*prime.Oracle) scene.Mode
}

func NewRegistry(oracle *prime.Oracle) *Registry {
	r := &Registry{
		oracle:    oracle,
		factories: make(map[string]func(*prime.Oracle) scene.Mode),
	}

	r.factories["cellular"] = func(o *prime.Oracle) scene.Mode { return NewCellular(o) }
	r.factories["tesseract"] = func(o *prime.Oracle) scene.Mode { return NewTesseract(o) }
	r.factories["phyllotaxis"] = func(o *prime.Oracle) scene.Mode { return NewPhyllotaxis(o) }
	r.factories["ulam"] = func(o *prime.Oracle) scene.Mode { return NewUlam(o) }
	r.factories["sacks"] = func(o *prime.Oracle) scene.Mode { return NewSacks(o) }
	r.factories["sexagesimal"] = func(o *prime.Oracle) scene.Mode { return NewSexagesimal(o) }
	r.factories["flowfield"] = func(o *prime.Oracle) scene.Mode { return NewFlowfield(o) }
	r.factories["harmonograph"] = func(o *prime.Oracle) scene.Mode { return NewHarmonograph(o) }

	return r
}

// Get builds a fresh instance of the named mode.
func (r *Registry) Get(id string) (scene.Mode, error) {
	fn, ok := r.factories[id]
	if !ok {
		return nil, fmt.Errorf("unknown mode: %s", id)
	}
	return fn(r.oracle), nil
}

// All builds one instance of every mode in registry order.
func (r *Registry) All() []scene.Mode {
	out := make([]scene.Mode, 0, len(Order))
	for _, id := range Order {
		out = append(out, r.factories[id](r.oracle))
	}
	return out
}

// Index returns the registry position of id, or -1.
func Index(id string) int {
	for i, name := range Order {
		if name == id {
			return i
		}
	}
	return -1
}

// Apply sets every value in params on m, stopping at the first error.
func Apply(m scene.Mode, params map[string]float64) error {
	for _, name := range sortedKeys(params) {
		if err := m.SetParam(name, params[name]); err != nil {
			return err
		}
	}
	return nil
}
