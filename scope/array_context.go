package scope

// ArrayContext is a positional sequence of values representing the result
// of one Array/RepeatUntil parse.
type ArrayContext struct {
	name   string
	parent Context
	items  []any
}

// NewArrayContext creates an empty, named ArrayContext linked to parent.
// parent may be nil for a root context.
func NewArrayContext(name string, parent Context) *ArrayContext {
	return &ArrayContext{name: name, parent: parent}
}

// Name returns the owning field's name, or "" if unnamed.
func (c *ArrayContext) Name() string { return c.name }

// Parent returns the enclosing context, or nil at the root.
func (c *ArrayContext) Parent() Context { return c.parent }

// Append adds value as the next element.
func (c *ArrayContext) Append(value any) {
	c.items = append(c.items, value)
}

// Len returns the number of elements parsed so far.
func (c *ArrayContext) Len() int { return len(c.items) }

// Items returns the elements in parse order. The returned slice is owned by
// the caller and safe to hold onto; mutating it does not affect the
// context.
func (c *ArrayContext) Items() []any {
	out := make([]any, len(c.items))
	copy(out, c.items)

	return out
}

// ReversedItems returns the elements in reverse parse order, mirroring
// Items reversed. (The source this package is modeled on referenced a
// nonexistent attribute here; this implementation derives the reversal
// directly from Items.)
func (c *ArrayContext) ReversedItems() []any {
	n := len(c.items)
	out := make([]any, n)

	for i, v := range c.items {
		out[n-1-i] = v
	}

	return out
}

// At returns the element at index i, panicking with a wrapped [ErrContext]
// if i is out of range.
func (c *ArrayContext) At(i int) any {
	if i < 0 || i >= len(c.items) {
		panic(contextErrorf("index %d out of range in array context %q (len %d)", i, c.name, len(c.items)))
	}

	return c.items[i]
}

// Last returns the most recently appended element, panicking with a
// wrapped [ErrContext] if the array is empty. This is the Go-accessor
// equivalent of the original source's parent-navigation idiom for
// referencing the previous element while building an array (e.g. a
// RepeatUntil predicate comparing against the last-parsed item).
func (c *ArrayContext) Last() any {
	if len(c.items) == 0 {
		panic(contextErrorf("array context %q is empty", c.name))
	}

	return c.items[len(c.items)-1]
}
