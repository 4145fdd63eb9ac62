package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/ivlev/sequencer/internal/timeline"
)

const (
	DataSourceRecords  = "records"
	DataSourceTimeline = "timeline"
)

type Config struct {
	TargetEntity   string  `toml:"target"`
	DataSource     string  `toml:"data_source"`
	RecordsPath    string  `toml:"records"`
	SourceTimeline string  `toml:"source_timeline"`
	LibraryDir     string  `toml:"library"`
	ScenePath      string  `toml:"scene"`
	Name           string  `toml:"name"`
	DisplayRate    string  `toml:"display_rate"`
	TickResolution string  `toml:"tick_resolution"`
	SequenceLength float64 `toml:"sequence_length"`
	OutputPath     string  `toml:"output"`
	PreviewPath    string  `toml:"preview"`
	PreviewWidth   int     `toml:"preview_width"`
	PreviewHeight  int     `toml:"preview_height"`
	LoopCount      int     `toml:"loop_count"`
	PlayRate       float64 `toml:"play_rate"`
	AutoPlay       bool    `toml:"auto_play"`
	Realtime       bool    `toml:"realtime"`
	BatchDir       string  `toml:"batch"`
	Workers        int     `toml:"workers"`
	ShowStats      bool    `toml:"show_stats"`
	BuildVersion   string  `toml:"-"`
}

// Default mirrors the plugin defaults: 60 fps, a 60 second sequence,
// built from explicit records and played once as soon as it is ready.
func Default() Config {
	return Config{
		DataSource:     DataSourceRecords,
		LibraryDir:     "sequences",
		Name:           "sequence",
		DisplayRate:    "60/1",
		SequenceLength: 60,
		PreviewWidth:   1280,
		PreviewHeight:  720,
		PlayRate:       1.0,
		AutoPlay:       true,
		Workers:        runtime.NumCPU(),
	}
}

// LoadFile overlays values from a TOML file onto cfg.
func LoadFile(path string, cfg *Config) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		log.Printf("[!] Неизвестный ключ в %s: %s", path, key.String())
	}
	return nil
}

// LoadEnv reads .env files (missing ones are ignored) and applies
// SEQUENCER_* variables onto cfg.
func LoadEnv(cfg *Config, files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("env %s: %w", f, err)
		}
	}

	strs := map[string]*string{
		"SEQUENCER_TARGET":          &cfg.TargetEntity,
		"SEQUENCER_DATA_SOURCE":     &cfg.DataSource,
		"SEQUENCER_RECORDS":         &cfg.RecordsPath,
		"SEQUENCER_SOURCE_TIMELINE": &cfg.SourceTimeline,
		"SEQUENCER_LIBRARY":         &cfg.LibraryDir,
		"SEQUENCER_SCENE":           &cfg.ScenePath,
		"SEQUENCER_DISPLAY_RATE":    &cfg.DisplayRate,
		"SEQUENCER_TICK_RESOLUTION": &cfg.TickResolution,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv("SEQUENCER_LENGTH"); ok {
		length, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("SEQUENCER_LENGTH: %w", err)
		}
		cfg.SequenceLength = length
	}
	if v, ok := os.LookupEnv("SEQUENCER_WORKERS"); ok {
		workers, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("SEQUENCER_WORKERS: %w", err)
		}
		cfg.Workers = workers
	}
	return nil
}

// Rates parses the display rate and tick resolution. An empty tick
// resolution yields the zero FrameRate, which timelines read as "same as
// display rate".
func (c *Config) Rates() (display, tick timeline.FrameRate, err error) {
	display, err = timeline.ParseFrameRate(c.DisplayRate)
	if err != nil {
		return display, tick, fmt.Errorf("display rate: %w", err)
	}
	if strings.TrimSpace(c.TickResolution) == "" {
		return display, tick, nil
	}
	tick, err = timeline.ParseFrameRate(c.TickResolution)
	if err != nil {
		return display, tick, fmt.Errorf("tick resolution: %w", err)
	}
	return display, tick, nil
}

// Validate checks the fields a build needs.
func (c *Config) Validate() error {
	if _, _, err := c.Rates(); err != nil {
		return err
	}
	if c.SequenceLength <= 0 {
		return fmt.Errorf("sequence length must be positive, got %v", c.SequenceLength)
	}
	if !(c.PlayRate > 0) || math.IsInf(c.PlayRate, 0) {
		return fmt.Errorf("play rate must be positive, got %v", c.PlayRate)
	}
	if c.BatchDir != "" {
		return nil
	}
	switch c.DataSource {
	case DataSourceRecords:
		if c.RecordsPath == "" {
			return fmt.Errorf("data source %q needs a records file", c.DataSource)
		}
	case DataSourceTimeline:
		if c.SourceTimeline == "" {
			return fmt.Errorf("data source %q needs a source timeline id", c.DataSource)
		}
	default:
		return fmt.Errorf("unknown data source %q", c.DataSource)
	}
	return nil
}
