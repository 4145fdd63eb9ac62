package sequencer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/sequencer/internal/config"
	"github.com/ivlev/sequencer/internal/sequence"
	"github.com/ivlev/sequencer/internal/source"
)

// BuildBatch builds one timeline per records file in dir and saves each as a
// document in lib. It returns the written paths in file name order.
func BuildBatch(ctx context.Context, cfg *config.Config, dir string, lib *sequence.Library) ([]string, error) {
	display, tick, err := cfg.Rates()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("в папке %s не найдено файлов с записями", dir)
	}
	sort.Strings(files)

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	paths := make([]string, len(files))
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			tl, err := Build(display, tick, cfg.SequenceLength, &RecordsBuilder{Source: source.NewYAMLSource(file)})
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(file), err)
			}

			name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			path, err := lib.Save(sequence.FromTimeline(name, tl, "", ""))
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(file), err)
			}
			paths[i] = path
			fmt.Printf("[>] Ready: %s (%d keys)\n", filepath.Base(path), tl.KeyCount())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
