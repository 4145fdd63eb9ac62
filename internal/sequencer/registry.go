package sequencer

import (
	"fmt"

	"github.com/ivlev/sequencer/internal/config"
	"github.com/ivlev/sequencer/internal/source"
)

// NewBuilder creates the builder for the configured data source.
func NewBuilder(cfg *config.Config, sources SourceProvider) (Builder, error) {
	switch cfg.DataSource {
	case config.DataSourceRecords, "":
		if cfg.RecordsPath == "" {
			return nil, fmt.Errorf("records data source needs a records file")
		}
		return &RecordsBuilder{Source: source.NewYAMLSource(cfg.RecordsPath)}, nil
	case config.DataSourceTimeline:
		if sources == nil {
			return nil, fmt.Errorf("timeline data source needs a source provider")
		}
		if cfg.SourceTimeline == "" {
			return nil, fmt.Errorf("timeline data source needs a source timeline id")
		}
		return &SourceBuilder{Provider: sources, ID: cfg.SourceTimeline}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDataSource, cfg.DataSource)
	}
}
