// Package attempt holds combinators for optional steps whose failure must
// not fail the surrounding operation.
package attempt

import "github.com/steveyegge/rd/internal/debug"

// BestEffort runs fn and reports whether it succeeded. On failure the error
// is handed to onDiscard (when non-nil), logged at debug level and dropped;
// the zero value of T is returned with ok false.
func BestEffort[T any](what string, fn func() (T, error), onDiscard func(error)) (result T, ok bool) {
	v, err := fn()
	if err != nil {
		debug.Logf("%s failed, continuing without it: %v\n", what, err)
		if onDiscard != nil {
			onDiscard(err)
		}
		var zero T
		return zero, false
	}
	return v, true
}

