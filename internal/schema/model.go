package schema

import "fmt"

// Model is the metadata served alongside a field list: what collection the
// records live in, whether the model is a singleton (settings-style single
// record), and whether it uses the booking status vocabulary instead of the
// content one.
type Model struct {
	Key        string  `json:"key"`
	Title      string  `json:"title"`
	Collection string  `json:"collection"`
	Singleton  bool    `json:"singleton"`
	Booking    bool    `json:"booking"`
	Fields     []Field `json:"fields"`
}

// Statuses returns the status vocabulary for the model: the initial status
// first, then the reachable ones.
func (m Model) Statuses() []string {
	if m.Booking {
		return []string{"pending", "confirmed", "cancelled"}
	}
	return []string{"draft", "published", "rejected"}
}

// InitialStatus is what a freshly created record starts in.
func (m Model) InitialStatus() string {
	if m.Booking {
		return "pending"
	}
	return "draft"
}

var registry = map[string]*Model{}
var order []string

// Register adds a model schema. Duplicate leaf keys inside the field tree
// are a programming error and panic at startup.
func Register(m *Model) {
	if _, err := Flatten(m.Fields); err != nil {
		panic(fmt.Sprintf("schema %s: %v", m.Key, err))
	}
	if _, dup := registry[m.Key]; dup {
		panic(fmt.Sprintf("schema %s registered twice", m.Key))
	}
	registry[m.Key] = m
	order = append(order, m.Key)
}

// Lookup returns the schema for a model key.
func Lookup(key string) (*Model, error) {
	m, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("unknown model %q", key)
	}
	return m, nil
}

// All returns every registered model in registration order.
func All() []*Model {
	out := make([]*Model, 0, len(order))
	for _, key := range order {
		out = append(out, registry[key])
	}
	return out
}
