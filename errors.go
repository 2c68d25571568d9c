package norepeat

import "errors"

var (
	// ErrInvalidArgument is returned when a picker is constructed from
	// input of the wrong shape.
	ErrInvalidArgument = errors.New("norepeat: invalid argument")

	// ErrEmptyPool is returned by Draw when the picker holds no items.
	ErrEmptyPool = errors.New("norepeat: empty pool")
)
