package sequencer

import (
	"errors"
	"fmt"
	"log"

	"github.com/ivlev/sequencer/internal/source"
	"github.com/ivlev/sequencer/internal/timeline"
)

var (
	ErrEntityResolution  = errors.New("entity resolution failed")
	ErrUnknownDataSource = errors.New("unknown data source")
	ErrNoTransformTracks = errors.New("source timeline has no transform tracks")
)

// Builder fills a freshly created timeline with keys.
type Builder interface {
	Build(tl *timeline.Timeline) error
}

// SourceProvider finds a previously authored timeline by id.
type SourceProvider interface {
	Source(id string) (timeline.Source, error)
}

// RecordsBuilder keys every record onto all nine channels.
type RecordsBuilder struct {
	Source source.Source
}

func (b *RecordsBuilder) Build(tl *timeline.Timeline) error {
	records, err := b.Source.Records()
	if err != nil {
		return fmt.Errorf("records: %w", err)
	}

	var channels [timeline.NumRoles]*timeline.Channel
	for _, role := range timeline.Roles() {
		ch, err := tl.Channel(role)
		if err != nil {
			return err
		}
		channels[role] = ch
	}

	r := tl.Range()
	outside := 0
	for i, rec := range records {
		frame, err := tl.Quantize(rec.TimeInSeconds)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if !r.Contains(frame) {
			outside++
		}

		values := rec.Transform.Components()
		for _, role := range timeline.Roles() {
			channels[role].InsertKey(frame, values[role], rec.Interpolation)
		}
	}

	if outside > 0 {
		log.Printf("[!] %d records fall outside the playback range [%d, %d)", outside, r.Start, r.End)
	}
	return nil
}

// SourceBuilder copies every transform track of a stored timeline. Tracks
// are copied in order, so a later track overwrites keys an earlier one
// placed on the same frame.
type SourceBuilder struct {
	Provider SourceProvider
	ID       string
}

func (b *SourceBuilder) Build(tl *timeline.Timeline) error {
	src, err := b.Provider.Source(b.ID)
	if err != nil {
		return err
	}
	tracks, rate, err := src.TransformTracks()
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return fmt.Errorf("%w: %q", ErrNoTransformTracks, b.ID)
	}
	if len(tracks) > 1 {
		log.Printf("[!] Source %q has %d transform tracks; later tracks overwrite shared frames", b.ID, len(tracks))
	}

	var total timeline.CopyReport
	for i, track := range tracks {
		report, err := tl.CopyTrack(track, rate)
		if err != nil {
			return fmt.Errorf("track %d: %w", i, err)
		}
		total.Copied += report.Copied
		total.Fallbacks += report.Fallbacks
	}

	if total.Fallbacks > 0 {
		log.Printf("[!] %d of %d copied keys used an unknown interpolation mode and were keyed as auto", total.Fallbacks, total.Copied)
	}
	return nil
}

// Build creates a timeline and runs b on it. The timeline is returned only
// if every key made it in.
func Build(display, tick timeline.FrameRate, lengthSeconds float64, b Builder) (*timeline.Timeline, error) {
	tl, err := timeline.New(display, tick, lengthSeconds)
	if err != nil {
		return nil, err
	}
	if err := b.Build(tl); err != nil {
		return nil, err
	}
	return tl, nil
}
