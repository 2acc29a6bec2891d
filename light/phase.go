package light

import (
	"errors"
	"fmt"
)

var ErrUnknownPhase = errors.New("unknown phase")

// Phase is the signal a light is showing. There are exactly two.
type Phase uint32

const (
	Red Phase = iota
	Green
)

func (p Phase) String() string {
	switch p {
	case Red:
		return "red"
	case Green:
		return "green"
	default:
		return fmt.Sprintf("unknown phase: %d", uint32(p))
	}
}

// Next returns the phase a light flips to from p.
func (p Phase) Next() Phase {
	if p == Red {
		return Green
	}
	return Red
}

func ParsePhase(s string) (Phase, error) {
	switch s {
	case "red":
		return Red, nil
	case "green":
		return Green, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPhase, s)
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	if p != Red && p != Green {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPhase, uint32(p))
	}

	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	v, err := ParsePhase(string(b))
	if err != nil {
		return err
	}

	*p = v
	return nil
}
