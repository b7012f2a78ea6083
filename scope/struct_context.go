package scope

// StructContext is an ordered key-value mapping representing the result of
// one Structure/Union/Switch/Select parse. Every key stored in the value
// map appears exactly once in the order list, in insertion order; internal
// anchor keys (see [IsInternal]) are stored but excluded from [Keys].
type StructContext struct {
	name   string
	parent Context
	order  []string
	values map[string]any
}

// NewStructContext creates an empty, named StructContext linked to parent.
// parent may be nil for a root context.
func NewStructContext(name string, parent Context) *StructContext {
	return &StructContext{
		name:   name,
		parent: parent,
		values: make(map[string]any),
	}
}

// Name returns the owning field's name, or "" if unnamed.
func (c *StructContext) Name() string { return c.name }

// Parent returns the enclosing context, or nil at the root.
func (c *StructContext) Parent() Context { return c.parent }

// Set inserts or overwrites key -> value, appending key to the order list
// only on first insertion so re-assignment does not disturb ordering.
func (c *StructContext) Set(key string, value any) {
	if _, exists := c.values[key]; !exists {
		c.order = append(c.order, key)
	}

	c.values[key] = value
}

// Has reports whether key is present, including internal anchor keys.
func (c *StructContext) Has(key string) bool {
	_, ok := c.values[key]

	return ok
}

// Keys returns the visible keys (excluding internal anchors) in insertion
// order.
func (c *StructContext) Keys() []string {
	visible := make([]string, 0, len(c.order))

	for _, k := range c.order {
		if !IsInternal(k) {
			visible = append(visible, k)
		}
	}

	return visible
}

// AllKeys returns every key, including internal anchors, in insertion
// order.
func (c *StructContext) AllKeys() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)

	return out
}

// Value returns the raw value stored at key, panicking with a wrapped
// [ErrContext] if the key is absent. Predicate call sites recover this
// panic via [Invoke] and convert it back into a returned error.
func (c *StructContext) Value(key string) any {
	v, ok := c.values[key]
	if !ok {
		panic(contextErrorf("key %q not found in context %q", key, c.name))
	}

	return v
}

// Int64 returns the int64 value at key, panicking on a missing key or a
// value that is not an int64.
func (c *StructContext) Int64(key string) int64 {
	v := c.Value(key)

	i, ok := v.(int64)
	if !ok {
		panic(contextErrorf("key %q in context %q is %T, not int64", key, c.name, v))
	}

	return i
}

// Uint64 returns the uint64 value at key, panicking on a missing key or a
// value that is not a uint64.
func (c *StructContext) Uint64(key string) uint64 {
	v := c.Value(key)

	u, ok := v.(uint64)
	if !ok {
		panic(contextErrorf("key %q in context %q is %T, not uint64", key, c.name, v))
	}

	return u
}

// String returns the string value at key, panicking on a missing key or a
// value that is not a string.
func (c *StructContext) String(key string) string {
	v := c.Value(key)

	s, ok := v.(string)
	if !ok {
		panic(contextErrorf("key %q in context %q is %T, not string", key, c.name, v))
	}

	return s
}

// Bool returns the bool value at key, panicking on a missing key or a value
// that is not a bool.
func (c *StructContext) Bool(key string) bool {
	v := c.Value(key)

	b, ok := v.(bool)
	if !ok {
		panic(contextErrorf("key %q in context %q is %T, not bool", key, c.name, v))
	}

	return b
}

// Bytes returns the []byte value at key, panicking on a missing key or a
// value that is not a []byte.
func (c *StructContext) Bytes(key string) []byte {
	v := c.Value(key)

	b, ok := v.([]byte)
	if !ok {
		panic(contextErrorf("key %q in context %q is %T, not []byte", key, c.name, v))
	}

	return b
}

// Struct returns the nested *StructContext at key, panicking on a missing
// key or a value that is not a *StructContext.
func (c *StructContext) Struct(key string) *StructContext {
	v := c.Value(key)

	s, ok := v.(*StructContext)
	if !ok {
		panic(contextErrorf("key %q in context %q is %T, not *StructContext", key, c.name, v))
	}

	return s
}

// Array returns the nested *ArrayContext at key, panicking on a missing key
// or a value that is not a *ArrayContext.
func (c *StructContext) Array(key string) *ArrayContext {
	v := c.Value(key)

	a, ok := v.(*ArrayContext)
	if !ok {
		panic(contextErrorf("key %q in context %q is %T, not *ArrayContext", key, c.name, v))
	}

	return a
}
