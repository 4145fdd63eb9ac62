package timeline

import (
	"errors"
	"reflect"
	"testing"
)

func TestCopyChannelPreservesModes(t *testing.T) {
	src := NewChannel(RoleTranslationX)
	src.InsertKey(20, 2, InterpolationLinear)
	src.InsertKey(10, 1, InterpolationConstant)

	dst := NewChannel(RoleTranslationX)
	report := CopyChannel(dst, src)

	if report.Copied != 2 || report.Fallbacks != 0 {
		t.Errorf("Unexpected report: %+v", report)
	}
	if dst.Len() != 2 {
		t.Fatalf("Expected 2 keys, got %d", dst.Len())
	}

	first, second := dst.Key(0), dst.Key(1)
	if first.Frame != 10 || first.Interpolation != InterpolationConstant {
		t.Errorf("Expected constant key at 10, got %s at %d", first.Interpolation, first.Frame)
	}
	if second.Frame != 20 || second.Interpolation != InterpolationLinear {
		t.Errorf("Expected linear key at 20, got %s at %d", second.Interpolation, second.Frame)
	}
}

func TestCopyChannelRoundTrip(t *testing.T) {
	src := NewChannel(RoleRotationPitch)
	modes := []Interpolation{InterpolationCubic, InterpolationAuto, InterpolationLinear, InterpolationConstant}
	for i, f := range []FrameNumber{90, 0, 45, 12, 300, 150, 7} {
		src.InsertKey(f, float64(i*i)-3, modes[i%len(modes)])
	}

	a := NewChannel(RoleRotationPitch)
	CopyChannel(a, src)
	b := NewChannel(RoleRotationPitch)
	CopyChannel(b, a)

	if a.Len() != src.Len() {
		t.Fatalf("Key count changed: %d -> %d", src.Len(), a.Len())
	}
	for i := 0; i < src.Len(); i++ {
		s, d := src.Key(i), a.Key(i)
		if s.Frame != d.Frame || s.Value != d.Value || s.Interpolation != d.Interpolation {
			t.Errorf("Key %d differs: %+v vs %+v", i, s, d)
		}
	}
	if !reflect.DeepEqual(a.Keys(), b.Keys()) {
		t.Errorf("Re-copy is not identical:\n%+v\n%+v", a.Keys(), b.Keys())
	}
}

func TestCopyChannelUnknownModeFallsBack(t *testing.T) {
	unknown, err := ParseInterpolation("bezier")
	if !errors.Is(err, ErrUnknownInterpolationMode) {
		t.Fatalf("Expected ErrUnknownInterpolationMode, got %v", err)
	}

	src := NewChannelFromKeys(RoleScaleX, []Key{
		{Frame: 0, Value: 1, Interpolation: InterpolationLinear},
		{Frame: 10, Value: 2, Interpolation: unknown},
	})
	dst := NewChannel(RoleScaleX)
	report := CopyChannel(dst, src)

	if report.Fallbacks != 1 {
		t.Errorf("Expected 1 fallback, got %d", report.Fallbacks)
	}
	if got := dst.Key(1).Interpolation; got != InterpolationAuto {
		t.Errorf("Expected auto fallback, got %s", got)
	}
}

func TestCopyChannelResampled(t *testing.T) {
	src := NewChannel(RoleTranslationY)
	src.InsertKey(10, 1, InterpolationConstant)
	src.InsertKey(20, 2, InterpolationLinear)

	dst := NewChannel(RoleTranslationY)
	if _, err := CopyChannelResampled(dst, src, FrameRate{60, 1}, FrameRate{120, 1}); err != nil {
		t.Fatalf("CopyChannelResampled failed: %v", err)
	}

	if dst.Key(0).Frame != 20 || dst.Key(1).Frame != 40 {
		t.Errorf("Expected frames 20 and 40, got %d and %d", dst.Key(0).Frame, dst.Key(1).Frame)
	}
}

func TestCopyTrackIncomplete(t *testing.T) {
	src, err := New(FrameRate{60, 1}, FrameRate{}, 10)
	if err != nil {
		t.Fatal(err)
	}
	x, _ := src.Channel(RoleTranslationX)
	x.InsertKey(0, 1, InterpolationAuto)

	track := src.Track("guid", "Pawn")
	track.Channels[RoleRotationPitch] = nil

	dst, _ := New(FrameRate{60, 1}, FrameRate{}, 10)
	_, err = dst.CopyTrack(track, FrameRate{60, 1})
	if !errors.Is(err, ErrIncompleteSourceChannel) {
		t.Fatalf("Expected ErrIncompleteSourceChannel, got %v", err)
	}
	if dst.KeyCount() != 0 {
		t.Errorf("Expected no keys copied on failure, got %d", dst.KeyCount())
	}
}
