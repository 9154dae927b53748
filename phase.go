package phaselight

import (
	"fmt"
	"strings"
)

// Phase is the observable signal color of a traffic light. It is backed by
// an int32 so it can be read and written atomically.
type Phase int32

const (
	// Red means traffic must stop
	Red Phase = iota
	// Green means traffic may proceed
	Green
)

// String returns "red" or "green"
func (p Phase) String() string {
	switch p {
	case Red:
		return "red"
	case Green:
		return "green"
	default:
		return fmt.Sprintf("phase(%d)", int32(p))
	}
}

// Valid reports whether p is Red or Green
func (p Phase) Valid() bool {
	return p == Red || p == Green
}

// Next returns the phase that follows p in the cycle
func (p Phase) Next() Phase {
	if p == Red {
		return Green
	}
	return Red
}

// ParsePhase converts a phase name into a Phase
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return Red, nil
	case "green":
		return Green, nil
	default:
		return Red, fmt.Errorf("unknown phase %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (p Phase) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid phase %d", int32(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
