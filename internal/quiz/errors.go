package quiz

import "errors"

// Sentinel errors for the quiz package.
var (
	ErrInvalidInput = errors.New("quiz: empty kana list")
	ErrInvalidState = errors.New("quiz: no unquizzed items")
	ErrUnknownFont  = errors.New("quiz: unknown font preference")
)
