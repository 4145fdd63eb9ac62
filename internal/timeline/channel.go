package timeline

import (
	"math"
	"sort"
)

// Key is a single sample on a channel.
type Key struct {
	Frame         FrameNumber   `yaml:"frame"`
	Value         float64       `yaml:"value"`
	Interpolation Interpolation `yaml:"interp"`

	// Tangents are in value units per frame and are derived on insertion.
	ArriveTangent float64 `yaml:"-"`
	LeaveTangent  float64 `yaml:"-"`
}

// Channel is an ordered key sequence for one scalar property.
// Keys are strictly increasing in frame.
type Channel struct {
	role Role
	keys []Key
}

func NewChannel(role Role) *Channel {
	return &Channel{role: role}
}

// NewChannelFromKeys builds a channel from keys in any order. Keys sharing a
// frame collapse to the last one given. Modes are kept as-is, including modes
// this package does not know, so a later copy can report them.
func NewChannelFromKeys(role Role, keys []Key) *Channel {
	sorted := make([]Key, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Frame < sorted[j].Frame
	})

	c := &Channel{role: role, keys: make([]Key, 0, len(sorted))}
	for _, k := range sorted {
		if n := len(c.keys); n > 0 && c.keys[n-1].Frame == k.Frame {
			c.keys[n-1] = k
			continue
		}
		c.keys = append(c.keys, k)
	}
	for i := range c.keys {
		c.computeTangents(i)
	}
	return c
}

func (c *Channel) Role() Role {
	return c.role
}

func (c *Channel) Len() int {
	return len(c.keys)
}

// Keys returns a copy of the keys in frame order.
func (c *Channel) Keys() []Key {
	out := make([]Key, len(c.keys))
	copy(out, c.keys)
	return out
}

// Key returns the i-th key in frame order.
func (c *Channel) Key(i int) Key {
	return c.keys[i]
}

// Find returns the key at frame, if any.
func (c *Channel) Find(frame FrameNumber) (Key, bool) {
	i := c.search(frame)
	if i < len(c.keys) && c.keys[i].Frame == frame {
		return c.keys[i], true
	}
	return Key{}, false
}

// InsertKey adds a key or overwrites the value and mode of the key already at
// frame. Unknown modes are stored as Auto. It returns the key's index.
func (c *Channel) InsertKey(frame FrameNumber, value float64, mode Interpolation) int {
	mode = mode.OrAuto()

	i := c.search(frame)
	if i < len(c.keys) && c.keys[i].Frame == frame {
		c.keys[i].Value = value
		c.keys[i].Interpolation = mode
	} else {
		c.keys = append(c.keys, Key{})
		copy(c.keys[i+1:], c.keys[i:])
		c.keys[i] = Key{Frame: frame, Value: value, Interpolation: mode}
	}

	// Neighbour tangents depend on the inserted value.
	for j := i - 1; j <= i+1; j++ {
		if j >= 0 && j < len(c.keys) {
			c.computeTangents(j)
		}
	}
	return i
}

func (c *Channel) search(frame FrameNumber) int {
	return sort.Search(len(c.keys), func(i int) bool {
		return c.keys[i].Frame >= frame
	})
}

func (c *Channel) slope(a, b int) float64 {
	df := float64(c.keys[b].Frame - c.keys[a].Frame)
	if df == 0 {
		return 0
	}
	return (c.keys[b].Value - c.keys[a].Value) / df
}

func (c *Channel) computeTangents(i int) {
	k := &c.keys[i]
	hasPrev := i > 0
	hasNext := i < len(c.keys)-1

	switch k.Interpolation {
	case InterpolationConstant:
		k.ArriveTangent, k.LeaveTangent = 0, 0

	case InterpolationLinear:
		var arrive, leave float64
		switch {
		case hasPrev && hasNext:
			arrive, leave = c.slope(i-1, i), c.slope(i, i+1)
		case hasPrev:
			arrive = c.slope(i-1, i)
			leave = arrive
		case hasNext:
			leave = c.slope(i, i+1)
			arrive = leave
		}
		k.ArriveTangent, k.LeaveTangent = arrive, leave

	case InterpolationCubic:
		t := c.catmullRom(i)
		k.ArriveTangent, k.LeaveTangent = t, t

	default:
		t := c.autoTangent(i)
		k.ArriveTangent, k.LeaveTangent = t, t
	}
}

// catmullRom uses the neighbour on each side, or a one-sided slope at the ends.
func (c *Channel) catmullRom(i int) float64 {
	hasPrev := i > 0
	hasNext := i < len(c.keys)-1

	switch {
	case hasPrev && hasNext:
		return c.slope(i-1, i+1)
	case hasNext:
		return c.slope(i, i+1)
	case hasPrev:
		return c.slope(i-1, i)
	default:
		return 0
	}
}

// autoTangent is a Catmull-Rom tangent weighted so the curve stays flat at
// local extrema and never overshoots the neighbouring key values.
func (c *Channel) autoTangent(i int) float64 {
	if i == 0 || i == len(c.keys)-1 {
		return c.catmullRom(i)
	}

	left := c.slope(i-1, i)
	right := c.slope(i, i+1)
	if left*right <= 0 {
		return 0
	}

	t := c.catmullRom(i)
	limit := 3 * math.Min(math.Abs(left), math.Abs(right))
	if math.Abs(t) > limit {
		t = math.Copysign(limit, t)
	}
	return t
}
