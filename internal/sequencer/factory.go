package sequencer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ivlev/sequencer/internal/config"
	"github.com/ivlev/sequencer/internal/playback"
	"github.com/ivlev/sequencer/internal/preview"
	"github.com/ivlev/sequencer/internal/scene"
	"github.com/ivlev/sequencer/internal/sequence"
	"github.com/ivlev/sequencer/internal/system"
	"github.com/ivlev/sequencer/internal/timeline"
)

// EntityResolver finds the entity a sequence animates. An empty target
// selects the default entity.
type EntityResolver interface {
	Resolve(target string) (scene.Entity, error)
}

// BindingService registers an entity with the timeline and returns the
// binding its track is keyed under.
type BindingService interface {
	Bind(e scene.Entity) (uuid.UUID, error)
}

type PlaybackService interface {
	CreatePlayer(tl *timeline.Timeline, binding uuid.UUID, settings playback.Settings) (playback.Handle, error)
	Play(ctx context.Context, id playback.Handle) error
}

// Factory builds one timeline for one entity and hands it to a player.
type Factory struct {
	Config   *config.Config
	Resolver EntityResolver
	Binder   BindingService
	Player   PlaybackService
	Builder  Builder
}

func NewFactory(cfg *config.Config, resolver EntityResolver, binder BindingService, player PlaybackService, builder Builder) *Factory {
	return &Factory{
		Config:   cfg,
		Resolver: resolver,
		Binder:   binder,
		Player:   player,
		Builder:  builder,
	}
}

// Result describes a finished run.
type Result struct {
	Timeline     *timeline.Timeline
	Entity       scene.Entity
	Binding      uuid.UUID
	Player       playback.Handle
	DocumentPath string
	PreviewPath  string
}

// Run resolves the target, builds the timeline and creates its player,
// playing it right away when auto-play is on. Nothing reaches the playback
// service unless the timeline was built completely.
func (f *Factory) Run(ctx context.Context) (res *Result, err error) {
	startTime := time.Now()
	cfg := f.Config

	entity, err := f.Resolver.Resolve(cfg.TargetEntity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEntityResolution, err)
	}
	// The default entity comes back with input disabled. Give it back if the
	// sequence never starts.
	defer func() {
		if err != nil && cfg.TargetEntity == "" {
			entity.EnableInput()
		}
	}()

	binding, err := f.Binder.Bind(entity)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", entity.Name(), err)
	}

	display, tick, err := cfg.Rates()
	if err != nil {
		return nil, err
	}

	buildStart := time.Now()
	tl, err := Build(display, tick, cfg.SequenceLength, f.Builder)
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки таймлайна: %w", err)
	}
	buildTime := time.Since(buildStart)

	fmt.Println("--- [SEQUENCER] ---")
	fmt.Printf("[*] Сущность: %s (%s) | Binding: %s\n", entity.Name(), entity.Class(), binding)
	fmt.Printf("[*] %s FPS | Ticks: %s | Range: [%d, %d) | Keys: %d\n",
		tl.DisplayRate(), tl.TickResolution(), tl.Range().Start, tl.Range().End, tl.KeyCount())
	fmt.Println("-------------------")

	res = &Result{Timeline: tl, Entity: entity, Binding: binding}

	settings := playback.Settings{
		LoopCount: cfg.LoopCount,
		PlayRate:  cfg.PlayRate,
		AutoPlay:  cfg.AutoPlay,
		Realtime:  cfg.Realtime,
	}
	res.Player, err = f.Player.CreatePlayer(tl, binding, settings)
	if err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}

	// Files land only once the player exists, so a rejected run leaves the
	// library untouched.
	if cfg.PreviewPath != "" {
		if err = preview.WritePNG(tl, cfg.PreviewPath, cfg.PreviewWidth, cfg.PreviewHeight); err != nil {
			return nil, fmt.Errorf("ошибка записи превью: %w", err)
		}
		res.PreviewPath = cfg.PreviewPath
		fmt.Printf("[*] Превью сохранено: %s\n", cfg.PreviewPath)
	}

	if cfg.OutputPath != "" {
		doc := sequence.FromTimeline(cfg.Name, tl, binding.String(), entity.Name())
		if err = os.MkdirAll(filepath.Dir(cfg.OutputPath), 0755); err != nil {
			return nil, err
		}
		if err = sequence.WriteDocument(doc, cfg.OutputPath); err != nil {
			return nil, fmt.Errorf("ошибка записи документа: %w", err)
		}
		res.DocumentPath = cfg.OutputPath
		fmt.Printf("[*] Документ сохранен: %s\n", cfg.OutputPath)
	}

	var playTime time.Duration
	if settings.AutoPlay {
		playStart := time.Now()
		if err = f.Player.Play(ctx, res.Player); err != nil {
			return nil, fmt.Errorf("play: %w", err)
		}
		playTime = time.Since(playStart)
	}

	if cfg.ShowStats {
		f.report(tl, time.Since(startTime), buildTime, playTime)
	}
	return res, nil
}

func (f *Factory) report(tl *timeline.Timeline, total, build, play time.Duration) {
	stats, err := system.Collect()
	if err != nil {
		fmt.Printf("[!] Не удалось получить статистику процесса: %v\n", err)
	}

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.3fs\n"+
			"Timeline Build: %.3fs\n"+
			"Playback: %.3fs\n"+
			"Keys: %d\n"+
			"Memory (RSS): %.1f MB\n"+
			"CPU: %.1f%%\n"+
			"Threads: %d\n"+
			"----------------------------\n",
		f.Config.BuildVersion, total.Seconds(), build.Seconds(), play.Seconds(),
		tl.KeyCount(), stats.RSSMegabytes(), stats.CPUPercent, stats.Threads,
	)
	fmt.Print(report)

	logEntry := fmt.Sprintf("[%s] Build: %s | Target: %s | Keys: %d | Total: %.3fs | Build: %.3fs | Play: %.3fs | RSS: %.1fMB | Threads: %d\n",
		time.Now().Format("2006-01-02 15:04:05"),
		f.Config.BuildVersion,
		f.Config.TargetEntity,
		tl.KeyCount(),
		total.Seconds(),
		build.Seconds(),
		play.Seconds(),
		stats.RSSMegabytes(),
		stats.Threads,
	)
	if err := system.AppendLog("benchmark.log", logEntry); err != nil {
		fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
	}
}
