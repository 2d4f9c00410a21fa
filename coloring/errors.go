package coloring

import "errors"

var (
	// ErrIncompatibleColor is returned when values or targets of different
	// colors (or color schemes) are combined.
	ErrIncompatibleColor = errors.New("incompatible color")
	// ErrInvalidValue is returned for amounts that are not integers or for
	// malformed kernel input.
	ErrInvalidValue = errors.New("invalid color value")
	// ErrInvalidColor is returned for malformed descriptors and unknown
	// scheme codes.
	ErrInvalidColor = errors.New("invalid color")
	// ErrColorNotFound is returned when a descriptor or color id is not
	// registered and auto registration was not requested.
	ErrColorNotFound = errors.New("color not found")
	// ErrInvalidTarget is returned when a target list has the wrong shape.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrInsufficientFunds is returned when coin selection cannot reach the
	// required value.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrZeroSelect is returned when coins are requested for a zero value.
	ErrZeroSelect = errors.New("zero value coin selection")
	// ErrTxNotFound is returned when a transaction is neither in the chain
	// nor in the mempool.
	ErrTxNotFound = errors.New("transaction not found")
)
