package field

import "go.binlayout.dev/binlayout/scope"

// Predicates are monomorphized per role rather than sharing one generic
// callback type, matching the design note that arity is always one (the
// current context) but the return type varies with the role the predicate
// plays.

// SizePredicate computes a byte count or an array length from the current
// context, used by dynamic-length Bytes/String/Padding and by dynamic
// Array.
type SizePredicate func(scope.Context) int64

// BoolPredicate evaluates a condition over the current context, used by
// IfElse, Select, and Validator.Assertion. RepeatUntil's stop condition is
// an ArrayPredicate instead.
type BoolPredicate func(scope.Context) bool

// KeyPredicate computes a lookup key from the current context, used by
// Switch to select a branch from its mapping.
type KeyPredicate func(scope.Context) any

// StringPredicate computes a string from the current context, used for
// dynamic String encoding names.
type StringPredicate func(scope.Context) string

// ValuePredicate computes an arbitrary value from the current context, used
// by Calculate and Validator.AssertEqual.
type ValuePredicate func(scope.Context) any

// ArrayPredicate evaluates a condition over an in-progress ArrayContext,
// used by RepeatUntil.
type ArrayPredicate func(*scope.ArrayContext) bool
