package timeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FrameNumber is an integer position on a tick grid.
type FrameNumber int32

// quantizeTolerance absorbs float error like 0.29*100 = 28.999999999999996.
const quantizeTolerance = 1e-9

// FrameRate is a rational number of frames per second (e.g. 30000/1001).
type FrameRate struct {
	Numerator   int32
	Denominator int32
}

// NewFrameRate creates a FrameRate, rejecting non-positive parts.
func NewFrameRate(num, den int32) (FrameRate, error) {
	r := FrameRate{Numerator: num, Denominator: den}
	if !r.Valid() {
		return FrameRate{}, fmt.Errorf("%w: %d/%d", ErrInvalidFrameRate, num, den)
	}
	return r, nil
}

// ParseFrameRate accepts "60", "60/1" and "30000/1001".
func ParseFrameRate(s string) (FrameRate, error) {
	s = strings.TrimSpace(s)
	numStr, denStr, found := strings.Cut(s, "/")
	if !found {
		denStr = "1"
	}

	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 32)
	if err != nil {
		return FrameRate{}, fmt.Errorf("%w: %q", ErrInvalidFrameRate, s)
	}
	den, err := strconv.ParseInt(strings.TrimSpace(denStr), 10, 32)
	if err != nil {
		return FrameRate{}, fmt.Errorf("%w: %q", ErrInvalidFrameRate, s)
	}
	return NewFrameRate(int32(num), int32(den))
}

func (r FrameRate) Valid() bool {
	return r.Numerator > 0 && r.Denominator > 0
}

// FPS returns the rate as a float.
func (r FrameRate) FPS() float64 {
	if r.Denominator == 0 {
		return 0
	}
	return float64(r.Numerator) / float64(r.Denominator)
}

// Less reports whether r is a coarser grid than other.
func (r FrameRate) Less(other FrameRate) bool {
	return int64(r.Numerator)*int64(other.Denominator) < int64(other.Numerator)*int64(r.Denominator)
}

// Equal compares rates by value, so 120/2 equals 60/1.
func (r FrameRate) Equal(other FrameRate) bool {
	return int64(r.Numerator)*int64(other.Denominator) == int64(other.Numerator)*int64(r.Denominator)
}

func (r FrameRate) String() string {
	return fmt.Sprintf("%d/%d", r.Numerator, r.Denominator)
}

func (r FrameRate) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *FrameRate) UnmarshalText(text []byte) error {
	parsed, err := ParseFrameRate(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Quantize converts seconds into a frame on the rate's grid.
// The rule is floor(seconds * num / den); values within quantizeTolerance
// below an integer are snapped up to it.
func Quantize(seconds float64, rate FrameRate) (FrameNumber, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidTime, seconds)
	}
	if !rate.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidFrameRate, rate)
	}

	frames := seconds * float64(rate.Numerator) / float64(rate.Denominator)
	return floorFrame(frames)
}

// Seconds converts a frame back into seconds on the given grid.
func (f FrameNumber) Seconds(rate FrameRate) float64 {
	return float64(f) * float64(rate.Denominator) / float64(rate.Numerator)
}

// Resample moves a frame from one grid onto another, flooring like Quantize.
func Resample(frame FrameNumber, from, to FrameRate) (FrameNumber, error) {
	if !from.Valid() || !to.Valid() {
		return 0, fmt.Errorf("%w: %s -> %s", ErrInvalidFrameRate, from, to)
	}
	if from.Equal(to) {
		return frame, nil
	}

	// frame * (to.num/to.den) / (from.num/from.den)
	scaled := float64(frame) * float64(to.Numerator) * float64(from.Denominator) /
		(float64(to.Denominator) * float64(from.Numerator))
	return floorFrame(scaled)
}

func floorFrame(frames float64) (FrameNumber, error) {
	floored := math.Floor(frames + quantizeTolerance)
	if floored > math.MaxInt32 || floored < math.MinInt32 {
		return 0, fmt.Errorf("%w: %v frames out of range", ErrInvalidTime, frames)
	}
	return FrameNumber(floored), nil
}

// Range is a half-open frame interval [Start, End).
type Range struct {
	Start FrameNumber `yaml:"start"`
	End   FrameNumber `yaml:"end"`
}

// Contains reports whether frame lies inside the range.
func (r Range) Contains(frame FrameNumber) bool {
	return frame >= r.Start && frame < r.End
}

// Len returns the number of frames in the range.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return int(r.End - r.Start)
}
