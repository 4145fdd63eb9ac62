package playback

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ivlev/sequencer/internal/scene"
	"github.com/ivlev/sequencer/internal/timeline"
	"github.com/ivlev/sequencer/internal/transform"
)

func setup(t *testing.T, length float64) (*scene.World, scene.Entity, uuid.UUID, *timeline.Timeline) {
	t.Helper()

	w := scene.NewWorld()
	if err := w.Add(scene.NewActor("Pawn", "Character", transform.Identity())); err != nil {
		t.Fatal(err)
	}
	w.SetPrimary("Pawn")
	pawn, err := w.Resolve("")
	if err != nil {
		t.Fatal(err)
	}
	binding, err := w.Bind(pawn)
	if err != nil {
		t.Fatal(err)
	}

	tl, err := timeline.New(timeline.FrameRate{Numerator: 10, Denominator: 1}, timeline.FrameRate{Numerator: 100, Denominator: 1}, length)
	if err != nil {
		t.Fatal(err)
	}
	x, _ := tl.Channel(timeline.RoleTranslationX)
	x.InsertKey(0, 0, timeline.InterpolationLinear)
	x.InsertKey(50, 100, timeline.InterpolationLinear)
	return w, pawn, binding, tl
}

func TestPlayAppliesTimeline(t *testing.T) {
	w, pawn, binding, tl := setup(t, 1)
	svc := NewService(w)

	id, err := svc.CreatePlayer(tl, binding, DefaultSettings())
	if err != nil {
		t.Fatalf("CreatePlayer failed: %v", err)
	}
	if err := svc.Play(context.Background(), id); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	if got := pawn.Transform().Translation.X; got != 100 {
		t.Errorf("Expected final X=100, got %v", got)
	}
	if pawn.Transform().Scale.X != 1 {
		t.Error("Unkeyed scale should keep the entity's value")
	}
	if !pawn.InputEnabled() {
		t.Error("Input should be enabled again after playback")
	}

	p, _ := svc.Player(id)
	if p.FramesPlayed() != 10 {
		t.Errorf("Expected 10 display frames, got %d", p.FramesPlayed())
	}
	if p.Playing() {
		t.Error("Player should be idle after Play returns")
	}
}

func TestPlayLoops(t *testing.T) {
	w, _, binding, tl := setup(t, 1)
	svc := NewService(w)

	settings := DefaultSettings()
	settings.LoopCount = 2
	id, _ := svc.CreatePlayer(tl, binding, settings)
	if err := svc.Play(context.Background(), id); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	p, _ := svc.Player(id)
	if p.FramesPlayed() != 30 {
		t.Errorf("Expected 30 frames over 3 passes, got %d", p.FramesPlayed())
	}
}

func TestPlayStopsOnCancel(t *testing.T) {
	w, _, binding, tl := setup(t, 1)
	svc := NewService(w)

	settings := DefaultSettings()
	settings.LoopCount = -1
	settings.Realtime = true
	settings.PlayRate = 50
	id, _ := svc.CreatePlayer(tl, binding, settings)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := svc.Play(ctx, id); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestCreatePlayerErrors(t *testing.T) {
	w, _, binding, tl := setup(t, 1)
	svc := NewService(w)

	if _, err := svc.CreatePlayer(tl, uuid.New(), DefaultSettings()); !errors.Is(err, scene.ErrUnknownBinding) {
		t.Errorf("Expected ErrUnknownBinding, got %v", err)
	}
	if _, err := svc.CreatePlayer(tl, binding, Settings{PlayRate: 0}); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("Expected ErrInvalidSettings, got %v", err)
	}
	if _, err := svc.CreatePlayer(nil, binding, DefaultSettings()); err == nil {
		t.Error("Expected error for nil timeline")
	}
	if err := svc.Play(context.Background(), Handle{}); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("Expected ErrUnknownPlayer, got %v", err)
	}
}

func TestCreatePlayerRealtimeInterval(t *testing.T) {
	w, _, binding, tl := setup(t, 1)
	svc := NewService(w)

	tests := []struct {
		name     string
		rate     float64
		realtime bool
		wantErr  bool
	}{
		{"normal", 1, true, false},
		{"too fast for a ticker", 1e12, true, true},
		{"too slow for a duration", 1e-12, true, true},
		{"infinite", math.Inf(1), false, true},
		{"fast without realtime", 1e12, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			settings.PlayRate = tt.rate
			settings.Realtime = tt.realtime

			id, err := svc.CreatePlayer(tl, binding, settings)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSettings) {
					t.Errorf("Expected ErrInvalidSettings, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreatePlayer failed: %v", err)
			}
			if !tt.realtime {
				if err := svc.Play(context.Background(), id); err != nil {
					t.Errorf("Play failed: %v", err)
				}
			}
		})
	}
}

func TestStop(t *testing.T) {
	w, pawn, binding, tl := setup(t, 1)
	svc := NewService(w)

	settings := DefaultSettings()
	settings.LoopCount = -1
	settings.Realtime = true
	settings.PlayRate = 10
	id, err := svc.CreatePlayer(tl, binding, settings)
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- svc.Play(context.Background(), id) }()

	p, _ := svc.Player(id)
	deadline := time.Now().Add(time.Second)
	for p.FramesPlayed() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	pawn.DisableInput()

	if err := svc.Stop(id); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Play did not return after Stop")
	}

	if p.Playing() {
		t.Error("Player should be idle after Stop")
	}
	if !pawn.InputEnabled() {
		t.Error("Input should be enabled again after Stop")
	}
	if err := svc.Stop(id); err != nil {
		t.Errorf("Stopping an idle player should be a no-op, got %v", err)
	}
}
