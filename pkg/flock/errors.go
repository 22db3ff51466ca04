package flock

import "errors"

var (
	// ErrZeroVelocity means an agent lost its heading. Velocity must never be
	// the zero vector once the store is populated.
	ErrZeroVelocity = errors.New("agent velocity is zero")

	// ErrHalted is returned by Engine.Tick once a previous tick has failed.
	ErrHalted = errors.New("simulation halted")

	// ErrInvalidSpawn reports unusable population parameters.
	ErrInvalidSpawn = errors.New("invalid spawn parameters")

	// ErrInvalidParams reports unusable simulation parameters.
	ErrInvalidParams = errors.New("invalid simulation parameters")

	// ErrAlreadyPopulated is returned when Populate is called on a non-empty store.
	ErrAlreadyPopulated = errors.New("store already populated")
)
