package param

import (
	"sort"
	"strings"
)

// Named binds a value to a named placeholder (":name").
type Named struct {
	Name  string
	Value Value
}

// List is an ordered set of named parameters. Order is preserved so that
// placeholders built from a List follow the caller's order.
type List []Named

// Of builds a List from alternating name/value pairs. Values are classified
// with Infer. A trailing name without a value binds NULL.
func Of(pairs ...any) List {
	l := make(List, 0, (len(pairs)+1)/2)
	for i := 0; i < len(pairs); i += 2 {
		name, _ := pairs[i].(string)
		var v any
		if i+1 < len(pairs) {
			v = pairs[i+1]
		}
		l = l.Set(name, Infer(v))
	}
	return l
}

// FromMap builds a List from a map. Map iteration order is undefined, so
// keys are sorted.
func FromMap(m map[string]any) List {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	l := make(List, 0, len(m))
	for _, k := range keys {
		l = append(l, Named{Name: normalizeName(k), Value: Infer(m[k])})
	}
	return l
}

// Set replaces the value bound to name, or appends it.
func (l List) Set(name string, v Value) List {
	name = normalizeName(name)
	for i := range l {
		if l[i].Name == name {
			l[i].Value = v
			return l
		}
	}
	return append(l, Named{Name: name, Value: v})
}

// Get returns the value bound to name.
func (l List) Get(name string) (Value, bool) {
	name = normalizeName(name)
	for _, n := range l {
		if n.Name == name {
			return n.Value, true
		}
	}
	return Value{}, false
}

// Names returns the parameter names in order.
func (l List) Names() []string {
	names := make([]string, len(l))
	for i, n := range l {
		names[i] = n.Name
	}
	return names
}

// Map returns the driver values keyed by name.
func (l List) Map() map[string]any {
	m := make(map[string]any, len(l))
	for _, n := range l {
		m[n.Name] = n.Value.Driver()
	}
	return m
}

// Modes returns the bind mode per name, for logging.
func (l List) Modes() map[string]Mode {
	m := make(map[string]Mode, len(l))
	for _, n := range l {
		m[n.Name] = n.Value.Mode()
	}
	return m
}

// normalizeName strips a leading colon so ":id" and "id" address the same
// placeholder.
func normalizeName(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), ":")
}
