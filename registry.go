package copybook

import (
	"log/slog"
	"sort"

	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v4"
)

// Registry maps schema names to schemas. It is safe for concurrent use.
type Registry struct {
	schemas *xsync.Map[string, *Schema]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: xsync.NewMap[string, *Schema]()}
}

// Register adds schemas to the registry. Registering a second schema under a
// name already in use is an error; registering the same schema again is not.
func (r *Registry) Register(schemas ...*Schema) error {
	for _, s := range schemas {
		if s == nil {
			return errors.New("copybook: cannot register a nil schema")
		}
		prev, loaded := r.schemas.LoadOrStore(s.name, s)
		if loaded && prev != s {
			return errors.Errorf("copybook: schema %s is already registered", s.name)
		}
		if !loaded {
			log().Debug("copybook: registered schema",
				slog.String("schema", s.name),
				slog.Int("length", s.length),
				slog.Int("fields", len(s.fields)))
		}
	}
	return nil
}

// Lookup returns the schema registered as name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	return r.schemas.Load(name)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.schemas.Size())
	r.schemas.Range(func(name string, _ *Schema) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}
