package sheldon

import "github.com/pelletier/go-toml/v2"

// OrderedTemplates is a name-to-Template map that preserves insertion
// order, standing in for the IndexMap the original implementation uses.
// Go's map has no stable iteration order, so LockedConfig needs this to
// keep "serialization is canonical" (spec.md §3) true across runs.
type OrderedTemplates struct {
	names  []string
	values map[string]Template
}

// NewOrderedTemplates returns an empty OrderedTemplates.
func NewOrderedTemplates() *OrderedTemplates {
	return &OrderedTemplates{values: make(map[string]Template)}
}

// Set inserts or overwrites name. Overwriting an existing name does not
// change its position.
func (o *OrderedTemplates) Set(name string, tmpl Template) {
	if _, ok := o.values[name]; !ok {
		o.names = append(o.names, name)
	}
	o.values[name] = tmpl
}

// Get looks up name.
func (o *OrderedTemplates) Get(name string) (Template, bool) {
	t, ok := o.values[name]
	return t, ok
}

// Names returns the template names in insertion order.
func (o *OrderedTemplates) Names() []string {
	return append([]string(nil), o.names...)
}

// Len reports the number of templates.
func (o *OrderedTemplates) Len() int {
	return len(o.names)
}

// namedTemplate is the on-disk shape of one OrderedTemplates entry: an
// array of tables, which TOML can represent in insertion order, unlike a
// bare table (whose key order round-trips through go-toml/v2 but is not
// guaranteed by the TOML format itself).
type namedTemplate struct {
	Name  string `toml:"name"`
	Value string `toml:"value"`
	Each  bool   `toml:"each"`
}

// MarshalTOML implements toml.Marshaler so a LockedConfig's Templates
// field serializes as an ordered array of tables instead of an unordered
// TOML table.
func (o *OrderedTemplates) MarshalTOML() ([]byte, error) {
	entries := make([]namedTemplate, 0, o.Len())
	for _, name := range o.Names() {
		t, _ := o.Get(name)
		entries = append(entries, namedTemplate{Name: name, Value: t.Value, Each: t.Each})
	}
	return toml.Marshal(entries)
}

// UnmarshalTOML implements toml.Unmarshaler, rebuilding order from the
// array of tables MarshalTOML produced.
func (o *OrderedTemplates) UnmarshalTOML(value any) error {
	raw, ok := value.([]any)
	if !ok {
		return wrap(KindLockCorrupt, nil, "templates must be an array of tables")
	}

	*o = *NewOrderedTemplates()
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			return wrap(KindLockCorrupt, nil, "invalid template entry")
		}
		name, _ := m["name"].(string)
		val, _ := m["value"].(string)
		each, _ := m["each"].(bool)
		o.Set(name, Template{Value: val, Each: each})
	}
	return nil
}
