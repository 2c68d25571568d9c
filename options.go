package norepeat

import (
	"fmt"
	"math"
	"reflect"
)

type options struct {
	resetThreshold int
	hasThreshold   bool
	chosen         any
	source         Source
}

// Option configures a Picker.
type Option func(*options) error

// WithResetThreshold forces a reset once n draws have been made since the
// last reset, even if unchosen items remain. A threshold of 0 or less
// resets on every draw, so only the previous item is excluded.
func WithResetThreshold(n int) Option {
	return func(o *options) error {
		o.resetThreshold = n
		o.hasThreshold = true
		return nil
	}
}

// WithResetThresholdValue is WithResetThreshold for a dynamically typed
// value. v must be an integer or float type; a fractional threshold is
// reached at the next whole draw.
func WithResetThresholdValue(v any) Option {
	return func(o *options) error {
		n, ok, err := toThreshold(v)
		if err != nil {
			return err
		}
		if ok {
			return WithResetThreshold(n)(o)
		}
		return nil
	}
}

// WithChosen marks items as already drawn, so they are not returned until
// after the first reset. values must be a slice or array whose elements
// have the picker's item type.
func WithChosen(values any) Option {
	return func(o *options) error {
		if values == nil {
			return fmt.Errorf("%w: chosen must be a slice, got nil", ErrInvalidArgument)
		}
		o.chosen = values
		return nil
	}
}

// WithSource sets the random source. Inject a seeded source for
// reproducible draws.
func WithSource(src Source) Option {
	return func(o *options) error {
		if src == nil {
			return fmt.Errorf("%w: source must not be nil", ErrInvalidArgument)
		}
		o.source = src
		return nil
	}
}

// sliceOf copies a slice or array of T out of v.
func sliceOf[T any](name string, v any) ([]T, error) {
	if typed, ok := v.([]T); ok {
		out := make([]T, len(typed))
		copy(out, typed)
		return out, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: %s must be a slice, got %T", ErrInvalidArgument, name, v)
	}

	out := make([]T, rv.Len())
	for i := range out {
		raw := rv.Index(i).Interface()
		if raw == nil && nillable(reflect.TypeFor[T]()) {
			continue
		}
		elem, ok := raw.(T)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] has type %T, want %v",
				ErrInvalidArgument, name, i, raw, reflect.TypeFor[T]())
		}
		out[i] = elem
	}
	return out, nil
}

// toThreshold converts a numeric value to a draw count. ok is false when
// the value can never be reached (NaN, +Inf, or beyond int range), which
// behaves the same as no threshold.
func toThreshold(v any) (n int, ok bool, err error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt {
			return 0, false, nil
		}
		return int(rv.Uint()), true, nil
	case reflect.Float32, reflect.Float64:
		f := math.Ceil(rv.Float())
		switch {
		case math.IsNaN(f) || f > math.MaxInt:
			return 0, false, nil
		case f < math.MinInt:
			return math.MinInt, true, nil
		}
		return int(f), true, nil
	default:
		return 0, false, fmt.Errorf("%w: reset threshold must be a number, got %T", ErrInvalidArgument, v)
	}
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
