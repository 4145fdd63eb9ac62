package playback

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/ivlev/sequencer/internal/scene"
	"github.com/ivlev/sequencer/internal/timeline"
)

var (
	ErrUnknownPlayer   = errors.New("unknown player")
	ErrInvalidSettings = errors.New("invalid playback settings")
	ErrAlreadyPlaying  = errors.New("player is already playing")
)

// Settings control how a player runs its timeline.
type Settings struct {
	LoopCount int     // extra passes after the first; negative loops until stopped
	PlayRate  float64 // 1.0 is normal speed
	AutoPlay  bool
	Realtime  bool // pace frames with the wall clock instead of stepping at once
}

func DefaultSettings() Settings {
	return Settings{PlayRate: 1.0}
}

func (s Settings) validate() error {
	if !(s.PlayRate > 0) || math.IsInf(s.PlayRate, 0) {
		return fmt.Errorf("%w: play rate %v", ErrInvalidSettings, s.PlayRate)
	}
	return nil
}

// frameInterval is the wall-clock time between display frames in realtime
// mode. It must fit a time.Ticker: at least 1ns, at most math.MaxInt64.
func (s Settings) frameInterval(display timeline.FrameRate) (time.Duration, error) {
	ns := float64(time.Second) / (display.FPS() * s.PlayRate)
	if math.IsNaN(ns) || ns < 1 || ns >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: play rate %v at %s fps gives no usable frame interval", ErrInvalidSettings, s.PlayRate, display)
	}
	return time.Duration(ns), nil
}

// BindingLookup resolves a binding ID to the entity it drives.
type BindingLookup interface {
	Lookup(id uuid.UUID) (scene.Entity, error)
}

// Handle identifies a player.
type Handle = ulid.ULID

// Player drives one bound entity from one timeline.
type Player struct {
	id       Handle
	timeline *timeline.Timeline
	binding  uuid.UUID
	settings Settings
	interval time.Duration

	mu           sync.Mutex
	cancel       context.CancelFunc
	framesPlayed int
}

func (p *Player) ID() Handle {
	return p.id
}

func (p *Player) Settings() Settings {
	return p.settings
}

// FramesPlayed returns the number of display frames applied so far.
func (p *Player) FramesPlayed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.framesPlayed
}

// Playing reports whether Play is running.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// Service creates and runs players.
type Service struct {
	bindings BindingLookup

	mu      sync.Mutex
	players map[Handle]*Player
}

func NewService(bindings BindingLookup) *Service {
	return &Service{
		bindings: bindings,
		players:  make(map[Handle]*Player),
	}
}

// CreatePlayer registers a player for a fully built timeline.
func (s *Service) CreatePlayer(tl *timeline.Timeline, binding uuid.UUID, settings Settings) (Handle, error) {
	if tl == nil {
		return Handle{}, fmt.Errorf("create player: nil timeline")
	}
	if err := settings.validate(); err != nil {
		return Handle{}, err
	}
	var interval time.Duration
	if settings.Realtime {
		var err error
		if interval, err = settings.frameInterval(tl.DisplayRate()); err != nil {
			return Handle{}, err
		}
	}
	if _, err := s.bindings.Lookup(binding); err != nil {
		return Handle{}, fmt.Errorf("create player: %w", err)
	}

	p := &Player{
		id:       ulid.Make(),
		timeline: tl,
		binding:  binding,
		settings: settings,
		interval: interval,
	}

	s.mu.Lock()
	s.players[p.id] = p
	s.mu.Unlock()
	return p.id, nil
}

// Player returns the player for a handle.
func (s *Service) Player(id Handle) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
	}
	return p, nil
}

// Play runs the player until its last pass ends, ctx is done or Stop is
// called. Every display frame the timeline is sampled and written to the
// bound entity. Input on the entity is enabled again when playback ends.
func (s *Service) Play(ctx context.Context, id Handle) error {
	p, err := s.Player(id)
	if err != nil {
		return err
	}
	entity, err := s.bindings.Lookup(p.binding)
	if err != nil {
		return fmt.Errorf("play %s: %w", id, err)
	}

	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyPlaying, id)
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.mu.Unlock()

	defer func() {
		cancel()
		p.mu.Lock()
		p.cancel = nil
		p.mu.Unlock()
		entity.EnableInput()
	}()

	return p.run(ctx, entity)
}

// Stop ends a running player. Stopping an idle player is a no-op.
func (s *Service) Stop(id Handle) error {
	p, err := s.Player(id)
	if err != nil {
		return err
	}
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()
	return nil
}

func (p *Player) run(ctx context.Context, entity scene.Entity) error {
	tl := p.timeline
	display := tl.DisplayRate()
	ticks := tl.TickResolution()
	r := tl.Range()

	ticksPerFrame := ticks.FPS() / display.FPS()
	frames := int(float64(r.Len()) / ticksPerFrame)
	if float64(frames)*ticksPerFrame < float64(r.Len()) {
		frames++
	}
	if frames == 0 {
		return nil
	}

	var tick <-chan time.Time
	if p.settings.Realtime {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	base := entity.Transform()
	for pass := 0; p.settings.LoopCount < 0 || pass <= p.settings.LoopCount; pass++ {
		for f := 0; f < frames; f++ {
			if tick != nil {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-tick:
				}
			} else if err := ctx.Err(); err != nil {
				return err
			}

			pos := float64(r.Start) + float64(f)*ticksPerFrame
			if last := float64(r.End - 1); pos > last {
				pos = last
			}
			entity.SetTransform(tl.Sample(pos, base))

			p.mu.Lock()
			p.framesPlayed++
			p.mu.Unlock()
		}
	}
	return nil
}
