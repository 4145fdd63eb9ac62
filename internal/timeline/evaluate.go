package timeline

import "sort"

// Evaluate returns the channel value at a (possibly fractional) frame.
// Before the first key it holds the first value, after the last key the last
// value. An empty channel returns the role's default and false.
func (c *Channel) Evaluate(frame float64) (float64, bool) {
	if len(c.keys) == 0 {
		return c.role.DefaultValue(), false
	}

	first, last := c.keys[0], c.keys[len(c.keys)-1]
	if frame <= float64(first.Frame) {
		return first.Value, true
	}
	if frame >= float64(last.Frame) {
		return last.Value, true
	}

	// Find surrounding keys
	i := sort.Search(len(c.keys), func(i int) bool {
		return float64(c.keys[i].Frame) > frame
	})
	prev, next := c.keys[i-1], c.keys[i]

	span := float64(next.Frame - prev.Frame)
	t := (frame - float64(prev.Frame)) / span

	switch prev.Interpolation {
	case InterpolationConstant:
		return prev.Value, true
	case InterpolationLinear:
		return lerp(prev.Value, next.Value, t), true
	default:
		return hermite(prev.Value, prev.LeaveTangent*span, next.Value, next.ArriveTangent*span, t), true
	}
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// hermite evaluates a cubic Hermite segment from p0 to p1 with tangents m0, m1
// already scaled to the segment length.
func hermite(p0, m0, p1, m1, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return (2*t3-3*t2+1)*p0 + (t3-2*t2+t)*m0 + (-2*t3+3*t2)*p1 + (t3-t2)*m1
}
