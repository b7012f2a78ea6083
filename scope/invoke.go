package scope

import "errors"

// Invoke calls fn with ctx, recovering any panic raised by a typed accessor
// (e.g. [StructContext.Int64] on a missing key) and converting it back into
// a normal returned error wrapping [ErrContext]. Every predicate call site
// in the combinator and field packages goes through Invoke so that
// predicates themselves stay simple func(Context) T values instead of
// threading an error return through every callback signature, while parse
// errors still propagate as ordinary Go errors per the library's fail-fast
// unwind policy.
//
// A panic that does not wrap ErrContext is re-raised unchanged: Invoke only
// ever converts context-access failures, never masks a genuine programming
// error elsewhere in a predicate.
func Invoke[T any](fn func(Context) T, ctx Context) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.Is(e, ErrContext) {
				err = e

				return
			}

			panic(r)
		}
	}()

	result = fn(ctx)

	return result, nil
}
