package timeline

import (
	"fmt"
	"strings"
)

// Interpolation selects how a key's tangents are computed and how the
// segment that starts at the key is evaluated.
type Interpolation uint8

const (
	InterpolationAuto Interpolation = iota
	InterpolationLinear
	InterpolationConstant
	InterpolationCubic
)

// interpolationInvalid marks a mode read from outside that matched no name.
const interpolationInvalid Interpolation = 0xFF

var interpolationNames = map[Interpolation]string{
	InterpolationAuto:     "auto",
	InterpolationLinear:   "linear",
	InterpolationConstant: "constant",
	InterpolationCubic:    "cubic",
}

// ParseInterpolation maps a name to a mode. Matching is case-insensitive;
// "step" is accepted as an alias for constant.
func ParseInterpolation(s string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return InterpolationAuto, nil
	case "linear":
		return InterpolationLinear, nil
	case "constant", "step":
		return InterpolationConstant, nil
	case "cubic":
		return InterpolationCubic, nil
	default:
		return interpolationInvalid, fmt.Errorf("%w: %q", ErrUnknownInterpolationMode, s)
	}
}

// Known reports whether m is one of the four modes.
func (m Interpolation) Known() bool {
	_, ok := interpolationNames[m]
	return ok
}

// OrAuto returns m, or Auto when m is not a known mode.
func (m Interpolation) OrAuto() Interpolation {
	if m.Known() {
		return m
	}
	return InterpolationAuto
}

func (m Interpolation) String() string {
	if name, ok := interpolationNames[m]; ok {
		return name
	}
	return fmt.Sprintf("interpolation(%d)", uint8(m))
}

func (m Interpolation) MarshalText() ([]byte, error) {
	if !m.Known() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownInterpolationMode, uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText never fails: an unknown name is kept as an invalid mode so
// the copier can fall back to Auto and report it.
func (m *Interpolation) UnmarshalText(text []byte) error {
	parsed, _ := ParseInterpolation(string(text))
	*m = parsed
	return nil
}
