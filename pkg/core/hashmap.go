package core

// Hasher derives the placeholder token of a value. normalized is the value's
// canonical string, value the original value and position the number of
// entries already in the map the token is built for. Deterministic hashers
// ignore value and position.
type Hasher interface {
	Hash(normalized string, value any, position int) string
}

// HasherFunc adapts a function to Hasher.
type HasherFunc func(normalized string, value any, position int) string

// Hash implements Hasher.
func (f HasherFunc) Hash(normalized string, value any, position int) string {
	return f(normalized, value, position)
}

// HashEntry is one value <-> token binding.
type HashEntry struct {
	Key   string // Normalized value
	Token string
	Value any // Original value, bound at execution time
}

// ValueHashMap binds normalized values to placeholder tokens for a single
// query build. Entries keep their first insertion order; writing an existing
// key replaces its token and value (last write wins). Distinct values that
// normalize to the same string share one entry. A nil *ValueHashMap reads as
// empty.
type ValueHashMap struct {
	keys    []string
	entries map[string]HashEntry
}

// NewValueHashMap returns an empty map.
func NewValueHashMap() *ValueHashMap {
	return &ValueHashMap{entries: make(map[string]HashEntry)}
}

// Add binds key to the token h derives for it, using the current size as the
// position. An existing key keeps its token and only has its value replaced,
// so position dependent hashers never leave gaps.
func (m *ValueHashMap) Add(key string, value any, h Hasher) string {
	if e, ok := m.entries[key]; ok {
		e.Value = value
		m.entries[key] = e
		return e.Token
	}
	token := h.Hash(key, value, len(m.keys))
	m.Put(key, token, value)
	return token
}

// Put binds key to token explicitly.
func (m *ValueHashMap) Put(key, token string, value any) {
	if m.entries == nil {
		m.entries = make(map[string]HashEntry)
	}
	if _, ok := m.entries[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = HashEntry{Key: key, Token: token, Value: value}
}

// Token returns the token bound to key.
func (m *ValueHashMap) Token(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	e, ok := m.entries[key]
	return e.Token, ok
}

// Has reports whether key is bound.
func (m *ValueHashMap) Has(key string) bool {
	_, ok := m.Token(key)
	return ok
}

func (m *ValueHashMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the normalized values in insertion order.
func (m *ValueHashMap) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Entries returns the bindings in insertion order.
func (m *ValueHashMap) Entries() []HashEntry {
	if m == nil {
		return nil
	}
	out := make([]HashEntry, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.entries[k])
	}
	return out
}

// Tokens returns the value -> token view.
func (m *ValueHashMap) Tokens() map[string]string {
	out := make(map[string]string, m.Len())
	for _, e := range m.Entries() {
		out[e.Key] = e.Token
	}
	return out
}

// Args returns the token -> value view used for parameter binding.
func (m *ValueHashMap) Args() map[string]any {
	out := make(map[string]any, m.Len())
	for _, e := range m.Entries() {
		out[e.Token] = e.Value
	}
	return out
}

// Merge returns a new map holding the entries of m followed by those of o.
// Entries of o win on key collision. Neither input is modified.
func (m *ValueHashMap) Merge(o *ValueHashMap) *ValueHashMap {
	out := NewValueHashMap()
	for _, e := range m.Entries() {
		out.Put(e.Key, e.Token, e.Value)
	}
	for _, e := range o.Entries() {
		out.Put(e.Key, e.Token, e.Value)
	}
	return out
}

// Clone returns a copy of m.
func (m *ValueHashMap) Clone() *ValueHashMap {
	return m.Merge(nil)
}
