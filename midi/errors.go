package midi

import (
	"errors"
	"fmt"
)

var (
	// ErrRange is matched by every *RangeError.
	ErrRange = errors.New("midi: value out of range")

	// ErrMalformed is wrapped by every decode failure.
	ErrMalformed = errors.New("midi: malformed wire data")

	// ErrUnsupportedProtocol is returned when an event cannot be represented
	// in the requested protocol.
	ErrUnsupportedProtocol = errors.New("midi: unsupported protocol combination")
)

// RangeError reports a numeric field that does not fit its bit width.
type RangeError struct {
	Field string
	Value int64
	Max   int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("midi: %s %d out of range 0...%d", e.Field, e.Value, e.Max)
}

// Is reports true for ErrRange so callers can test with errors.Is.
func (e *RangeError) Is(target error) bool {
	return target == ErrRange
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

func unsupported(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedProtocol, fmt.Sprintf(format, args...))
}
