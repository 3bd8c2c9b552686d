package briefquery

// OrderedMap is a string map that remembers insertion order. Setting an
// existing key overwrites the value in place.
type OrderedMap struct {
	keys   []string
	values map[string]string
}

func NewOrderedMap() *OrderedMap {
	return &OrderedMap{
		keys:   []string{},
		values: map[string]string{},
	}
}

func (m *OrderedMap) Set(key string, value string) {
	if _, found := m.values[key]; !found {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *OrderedMap) Get(key string) (string, bool) {
	value, found := m.values[key]
	return value, found
}

// Merge sets every key of other on m, in other's order.
func (m *OrderedMap) Merge(other *OrderedMap) {
	for _, key := range other.keys {
		m.Set(key, other.values[key])
	}
}

func (m *OrderedMap) Keys() []string {
	return append([]string{}, m.keys...)
}

func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// Map returns a copy of the entries without their order.
func (m *OrderedMap) Map() map[string]string {
	result := map[string]string{}
	for _, key := range m.keys {
		result[key] = m.values[key]
	}

	return result
}

func (m *OrderedMap) Values() []string {
	result := []string{}
	for _, key := range m.keys {
		result = append(result, m.values[key])
	}

	return result
}
