package timeline

import (
	"fmt"

	"github.com/ivlev/sequencer/internal/transform"
)

// Timeline holds the nine transform channels of one build, its playback
// range and its time bases. Range and rates are fixed at creation.
type Timeline struct {
	displayRate    FrameRate
	tickResolution FrameRate
	playbackRange  Range
	channels       [NumRoles]*Channel
}

// New creates an empty timeline whose playback range is [0, length) in ticks.
// A zero tickResolution means "same as displayRate".
func New(displayRate, tickResolution FrameRate, lengthSeconds float64) (*Timeline, error) {
	if !displayRate.Valid() {
		return nil, fmt.Errorf("display rate: %w: %s", ErrInvalidFrameRate, displayRate)
	}
	if tickResolution == (FrameRate{}) {
		tickResolution = displayRate
	}
	if !tickResolution.Valid() {
		return nil, fmt.Errorf("tick resolution: %w: %s", ErrInvalidFrameRate, tickResolution)
	}
	if tickResolution.Less(displayRate) {
		return nil, fmt.Errorf("%w: %s < %s", ErrInvalidTickResolution, tickResolution, displayRate)
	}

	duration, err := Quantize(lengthSeconds, tickResolution)
	if err != nil {
		return nil, fmt.Errorf("sequence length: %w", err)
	}

	tl := &Timeline{
		displayRate:    displayRate,
		tickResolution: tickResolution,
		playbackRange:  Range{Start: 0, End: duration},
	}
	for _, role := range Roles() {
		tl.channels[role] = NewChannel(role)
	}
	return tl, nil
}

func (tl *Timeline) DisplayRate() FrameRate {
	return tl.displayRate
}

func (tl *Timeline) TickResolution() FrameRate {
	return tl.tickResolution
}

// Range returns the playback range in ticks.
func (tl *Timeline) Range() Range {
	return tl.playbackRange
}

// Channel returns the channel for role.
func (tl *Timeline) Channel(role Role) (*Channel, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannelRole, uint8(role))
	}
	return tl.channels[role], nil
}

// Channels returns the channels in role order.
func (tl *Timeline) Channels() []*Channel {
	out := make([]*Channel, NumRoles)
	copy(out, tl.channels[:])
	return out
}

// KeyCount returns the total number of keys across all channels.
func (tl *Timeline) KeyCount() int {
	n := 0
	for _, c := range tl.channels {
		n += c.Len()
	}
	return n
}

// Quantize converts seconds onto this timeline's tick grid.
func (tl *Timeline) Quantize(seconds float64) (FrameNumber, error) {
	return Quantize(seconds, tl.tickResolution)
}

// Sample evaluates every channel at the tick position frame. Components
// whose channel has no keys keep the value from base.
func (tl *Timeline) Sample(frame float64, base transform.Transform) transform.Transform {
	values := base.Components()
	for role, c := range tl.channels {
		if v, ok := c.Evaluate(frame); ok {
			values[role] = v
		}
	}
	return transform.FromComponents(values)
}

// Track exposes the timeline's channels as a single transform track.
func (tl *Timeline) Track(binding, entity string) Track {
	return Track{Binding: binding, Entity: entity, Channels: tl.channels}
}

// TransformTracks makes a built timeline usable as a copy source.
func (tl *Timeline) TransformTracks() ([]Track, FrameRate, error) {
	return []Track{tl.Track("", "")}, tl.tickResolution, nil
}

// Source is a timeline that can seed another one: its transform tracks in
// order, and the tick resolution their frames are expressed in.
type Source interface {
	TransformTracks() ([]Track, FrameRate, error)
}

// Track is one binding's set of transform channels inside a source timeline.
// A nil channel means the source did not carry that role.
type Track struct {
	Binding  string
	Entity   string
	Channels [NumRoles]*Channel
}

// Channel returns the track's channel for role, or ErrIncompleteSourceChannel.
func (t Track) Channel(role Role) (*Channel, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannelRole, uint8(role))
	}
	if t.Channels[role] == nil {
		return nil, fmt.Errorf("%w: track %q has no %s", ErrIncompleteSourceChannel, t.name(), role)
	}
	return t.Channels[role], nil
}

func (t Track) name() string {
	if t.Entity != "" {
		return t.Entity
	}
	return t.Binding
}
