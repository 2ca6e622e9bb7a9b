package cbor

// Pair is one key/value entry of a map item.
type Pair struct {
	Key   Item
	Value Item
}

// Map holds the entries of a map item in the order their keys first
// appeared. Keys are compared structurally: two keys are the same when
// they have the same header, argument and value. A key that repeats
// replaces the earlier value in place.
type Map struct {
	pairs []Pair
	index map[string]int
}

func newMap(sz int) *Map {
	return &Map{pairs: make([]Pair, 0, sz), index: make(map[string]int, sz)}
}

func (m *Map) set(k, v Item) {
	key := string(appendKey(nil, k))
	if i, ok := m.index[key]; ok {
		m.pairs[i].Value = v
		return
	}
	m.index[key] = len(m.pairs)
	m.pairs = append(m.pairs, Pair{Key: k, Value: v})
}

// Get returns the value stored under a key equal to k.
func (m *Map) Get(k Item) (Item, bool) {
	if m == nil {
		return Item{}, false
	}
	i, ok := m.index[string(appendKey(nil, k))]
	if !ok {
		return Item{}, false
	}
	return m.pairs[i].Value, true
}

// GetText is a shortcut for Get with a definite-length text string key.
func (m *Map) GetText(s string) (Item, bool) {
	return m.Get(NewText(s))
}

// Len returns the number of distinct keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.pairs)
}

// Keys returns the keys in first-appearance order.
func (m *Map) Keys() []Item {
	if m == nil {
		return nil
	}
	out := make([]Item, len(m.pairs))
	for i, p := range m.pairs {
		out[i] = p.Key
	}
	return out
}

// Pairs returns the entries in first-appearance order. The returned slice
// must not be modified.
func (m *Map) Pairs() []Pair {
	if m == nil {
		return nil
	}
	return m.pairs
}

// Range calls fn for each entry in first-appearance order until fn returns
// false.
func (m *Map) Range(fn func(k, v Item) bool) {
	if m == nil {
		return
	}
	for _, p := range m.pairs {
		if !fn(p.Key, p.Value) {
			return
		}
	}
}
