package regmap

// Attrs is a string-keyed mapping that remembers insertion order.
//
// Values form a document tree: nil, bool, int64, uint64, float64, string,
// []any and *Attrs. uint64 is only used for integers above math.MaxInt64.
// The zero value is an empty mapping ready to use.
type Attrs struct {
	keys   []string
	values map[string]any
}

// NewAttrs creates an empty mapping.
func NewAttrs() *Attrs {
	return &Attrs{}
}

// Len returns the number of keys.
func (a *Attrs) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Keys returns the keys in insertion order.
func (a *Attrs) Keys() []string {
	if a == nil {
		return nil
	}
	keys := make([]string, len(a.keys))
	copy(keys, a.keys)
	return keys
}

// Get returns the value for key.
func (a *Attrs) Get(key string) (any, bool) {
	if a == nil {
		return nil, false
	}
	v, ok := a.values[key]
	return v, ok
}

// Has reports whether key is present.
func (a *Attrs) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// Set stores value under key. An existing key keeps its position.
func (a *Attrs) Set(key string, value any) {
	if a.values == nil {
		a.values = make(map[string]any)
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Delete removes key. Missing keys are ignored.
func (a *Attrs) Delete(key string) {
	if _, ok := a.values[key]; !ok {
		return
	}
	delete(a.values, key)
	for i, k := range a.keys {
		if k == key {
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			break
		}
	}
}

// Range calls fn for each pair in order until fn returns false.
func (a *Attrs) Range(fn func(key string, value any) bool) {
	if a == nil {
		return
	}
	for _, k := range a.keys {
		if !fn(k, a.values[k]) {
			return
		}
	}
}

// Clone returns a deep copy. Nested mappings and sequences are copied too.
func (a *Attrs) Clone() *Attrs {
	if a == nil {
		return nil
	}
	c := &Attrs{
		keys:   make([]string, len(a.keys)),
		values: make(map[string]any, len(a.values)),
	}
	copy(c.keys, a.keys)
	for k, v := range a.values {
		c.values[k] = cloneValue(v)
	}
	return c
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case *Attrs:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
