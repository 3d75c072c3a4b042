package avplayer

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound is returned by Prepare when no source is set or it cannot be read.
	ErrSourceNotFound = errors.New("media source not found")
	// ErrInvalidState is returned when an operation is not allowed in the current state.
	ErrInvalidState = errors.New("invalid player state")
	// ErrEngineFailure matches every *EngineError via errors.Is.
	ErrEngineFailure = errors.New("decode engine failure")
	// ErrClosed is returned by operations on a closed Player.
	ErrClosed = errors.New("player closed")
	// ErrNoFrameBuffer is returned when the engine reports a successful prepare
	// without ever asking for a frame buffer.
	ErrNoFrameBuffer = errors.New("engine prepared without allocating a frame buffer")
)

// EngineError carries the non-zero status code returned by the decode engine.
type EngineError struct {
	Op   string
	Code int
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s[%d]", e.Op, e.Code)
}

// Is reports ErrEngineFailure as a match.
func (e *EngineError) Is(target error) bool {
	return target == ErrEngineFailure
}
