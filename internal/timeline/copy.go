package timeline

import (
	"fmt"
	"log"
)

// CopyReport summarizes a channel copy.
type CopyReport struct {
	Copied    int
	Fallbacks int // keys whose mode was unknown and were inserted as Auto
}

func (r *CopyReport) add(other CopyReport) {
	r.Copied += other.Copied
	r.Fallbacks += other.Fallbacks
}

// CopyChannel re-inserts every key of src into dst in frame order, keeping
// each key's own interpolation mode.
func CopyChannel(dst, src *Channel) CopyReport {
	var report CopyReport
	for _, k := range src.keys {
		dst.InsertKey(k.Frame, k.Value, report.mode(k, src.role))
		report.Copied++
	}
	return report
}

// CopyChannelResampled copies src, recorded on the from grid, into dst on the
// to grid. Keys landing on the same target frame keep the later one.
func CopyChannelResampled(dst, src *Channel, from, to FrameRate) (CopyReport, error) {
	if from.Equal(to) {
		return CopyChannel(dst, src), nil
	}

	var report CopyReport
	for _, k := range src.keys {
		frame, err := Resample(k.Frame, from, to)
		if err != nil {
			return report, fmt.Errorf("resample %s key at frame %d: %w", src.role, k.Frame, err)
		}
		dst.InsertKey(frame, k.Value, report.mode(k, src.role))
		report.Copied++
	}
	return report, nil
}

func (r *CopyReport) mode(k Key, role Role) Interpolation {
	if k.Interpolation.Known() {
		return k.Interpolation
	}
	r.Fallbacks++
	log.Printf("[!] %v on %s key at frame %d, using auto", ErrUnknownInterpolationMode, role, k.Frame)
	return InterpolationAuto
}

// CopyTrack copies all nine channels of a track onto the timeline. A missing
// channel aborts the copy with ErrIncompleteSourceChannel before any key is
// written.
func (tl *Timeline) CopyTrack(track Track, from FrameRate) (CopyReport, error) {
	var report CopyReport
	for _, role := range Roles() {
		if _, err := track.Channel(role); err != nil {
			return report, err
		}
	}

	for _, role := range Roles() {
		src, _ := track.Channel(role)
		r, err := CopyChannelResampled(tl.channels[role], src, from, tl.tickResolution)
		report.add(r)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}
