package sequence

import (
	"fmt"

	"github.com/ivlev/sequencer/internal/timeline"
)

const documentVersion = "1.0"

// Document is the stored form of a sequence: one or more transform tracks,
// each bound to an entity, on a shared tick grid.
type Document struct {
	Version        string             `yaml:"version"`
	Name           string             `yaml:"name"`
	DisplayRate    timeline.FrameRate `yaml:"display_rate"`
	TickResolution timeline.FrameRate `yaml:"tick_resolution"`
	Range          timeline.Range     `yaml:"playback_range"`
	Tracks         []Track            `yaml:"tracks"`
}

// Track is the keys of one bound entity
type Track struct {
	Binding  string        `yaml:"binding"`
	Entity   string        `yaml:"entity"`
	Channels []ChannelData `yaml:"channels"`
}

// ChannelData is one channel's keys in frame order
type ChannelData struct {
	Role timeline.Role  `yaml:"role"`
	Keys []timeline.Key `yaml:"keys"`
}

// FromTimeline captures a built timeline as a single-track document.
func FromTimeline(name string, tl *timeline.Timeline, binding, entity string) *Document {
	track := Track{Binding: binding, Entity: entity}
	for _, c := range tl.Channels() {
		track.Channels = append(track.Channels, ChannelData{
			Role: c.Role(),
			Keys: c.Keys(),
		})
	}

	return &Document{
		Version:        documentVersion,
		Name:           name,
		DisplayRate:    tl.DisplayRate(),
		TickResolution: tl.TickResolution(),
		Range:          tl.Range(),
		Tracks:         []Track{track},
	}
}

// TransformTracks converts the stored tracks into channels. Roles missing
// from a track are left nil so the copy reports them.
func (d *Document) TransformTracks() ([]timeline.Track, timeline.FrameRate, error) {
	if !d.TickResolution.Valid() {
		return nil, timeline.FrameRate{}, fmt.Errorf("document %q: tick resolution: %w", d.Name, timeline.ErrInvalidFrameRate)
	}

	tracks := make([]timeline.Track, 0, len(d.Tracks))
	for i, t := range d.Tracks {
		track := timeline.Track{Binding: t.Binding, Entity: t.Entity}
		for _, ch := range t.Channels {
			if !ch.Role.Valid() {
				return nil, timeline.FrameRate{}, fmt.Errorf("track %d: %w: %d", i, timeline.ErrInvalidChannelRole, uint8(ch.Role))
			}
			if track.Channels[ch.Role] != nil {
				return nil, timeline.FrameRate{}, fmt.Errorf("track %d: duplicate channel %s", i, ch.Role)
			}
			track.Channels[ch.Role] = timeline.NewChannelFromKeys(ch.Role, ch.Keys)
		}
		tracks = append(tracks, track)
	}
	return tracks, d.TickResolution, nil
}

// KeyCount returns the number of keys across all tracks.
func (d *Document) KeyCount() int {
	n := 0
	for _, t := range d.Tracks {
		for _, ch := range t.Channels {
			n += len(ch.Keys)
		}
	}
	return n
}
