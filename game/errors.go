package game

import "errors"

var (
	// ErrConfig is returned before a game starts when its setup is unusable.
	ErrConfig = errors.New("invalid game configuration")

	// ErrInvalidAction marks an action that breaks the phase table.
	ErrInvalidAction = errors.New("invalid action")

	// ErrInvalidObservation marks a malformed observation payload.
	ErrInvalidObservation = errors.New("invalid observation")
)
