package colordata

import "errors"

var (
	// ErrUnknownStrategy is returned for a builder strategy other than full
	// or aided.
	ErrUnknownStrategy = errors.New("unknown scan strategy")
	// ErrNoExplorer is returned when the aided strategy has no explorer.
	ErrNoExplorer = errors.New("aided scan needs an explorer")
	// ErrBlockNotFound is returned when a block cannot be walked back to
	// the genesis of a color.
	ErrBlockNotFound = errors.New("block not found")
)
