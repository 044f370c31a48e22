// Package partial implements the override-merge algebra used by every
// configuration layer in this project.
//
// A partial value distinguishes "unset" from "set to the zero value". Partial
// values form a monoid under Combine: the operation is associative, the unset
// value is the identity, and for single-valued fields the rightmost set
// operand wins. Maps combine key-wise with the right operand winning on
// collision.
package partial

import "fmt"

// Opt is an optional value of type T. The zero Opt is unset and is the
// identity of Combine.
type Opt[T any] struct {
	value T
	valid bool
}

// Some returns an Opt holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{value: v, valid: true}
}

// None returns the unset Opt.
func None[T any]() Opt[T] {
	return Opt[T]{}
}

// Get returns the held value and whether it was set.
func (o Opt[T]) Get() (T, bool) {
	return o.value, o.valid
}

// IsSet reports whether the value was explicitly set.
func (o Opt[T]) IsSet() bool {
	return o.valid
}

// Or returns the held value, or def when unset.
func (o Opt[T]) Or(def T) T {
	if o.valid {
		return o.value
	}
	return def
}

// String renders the value for diagnostics; unset values render as "<unset>".
func (o Opt[T]) String() string {
	if !o.valid {
		return "<unset>"
	}
	return fmt.Sprint(o.value)
}

// Combine merges two optional values, rightmost-set-wins.
func Combine[T any](a, b Opt[T]) Opt[T] {
	if b.valid {
		return b
	}
	return a
}

// MergeMaps returns the key-wise union of a and b; b's entries win on key
// collision. Returns nil when both operands are nil, so the nil map stays the
// identity.
func MergeMaps[K comparable, V any](a, b map[K]V) map[K]V {
	if a == nil && b == nil {
		return nil
	}
	out := make(map[K]V, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Require extracts the value of a mandatory option. It fails with a
// *MissingError naming the field iff the option is unset.
func Require[T any](field string, o Opt[T]) (T, error) {
	if v, ok := o.Get(); ok {
		return v, nil
	}
	var zero T
	return zero, &MissingError{Field: field}
}
