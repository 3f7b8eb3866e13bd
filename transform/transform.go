// Package transform is the public facade over the engine: configuration,
// single-file entry points, and parallel directory processing.
package transform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lesleslie/recast/internal"
	"github.com/lesleslie/recast/internal/types"
)

// Engine is the surface the facade needs from the transform engine.
type Engine interface {
	Transform(source []byte, fileID string, lineStart, lineEnd int) (*types.ChangeSpec, error)
	Metrics() types.TransformMetrics
	ResetMetrics()
	DisablePattern(name string)
}

// New builds an engine from a configuration file. An empty path uses the
// defaults.
func New(logger *zap.Logger, configPath string) (*internal.Engine, error) {
	cfg := DefaultConfig()
	if configPath != "" {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	engine := internal.NewEngine(logger, cfg.Strict)
	for _, name := range cfg.DisabledPatterns {
		engine.DisablePattern(name)
	}
	return engine, nil
}

// ProcessFile runs the engine over one file's full line range.
func ProcessFile(engine Engine, path string) (*types.ChangeSpec, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return engine.Transform(source, path, 1, 0)
}

// ProcessPath walks a file or directory and collects every proposed
// change. Files are processed in parallel, one engine call each; per-file
// parse failures are accumulated, not fatal.
func ProcessPath(ctx context.Context, logger *zap.Logger, engine Engine, path string) ([]*types.ChangeSpec, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if filepath.Ext(path) != ".go" {
			return nil, nil
		}
		spec, err := ProcessFile(engine, path)
		if err != nil {
			return nil, err
		}
		if spec == nil {
			return nil, nil
		}
		return []*types.ChangeSpec{spec}, nil
	}

	var files []string
	err = filepath.Walk(path, func(filePath string, fileInfo os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fileInfo.IsDir() && filepath.Ext(filePath) == ".go" {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, nil
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription(path),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount())

	specs := make([]*types.ChangeSpec, len(files))
	var errsMu sync.Mutex
	var fileErrs error

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, filePath := range files {
		i, filePath := i, filePath
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			spec, err := ProcessFile(engine, filePath)
			if err != nil {
				if logger != nil {
					logger.Error("error processing file", zap.String("file", filePath), zap.Error(err))
				}
				errsMu.Lock()
				fileErrs = multierr.Append(fileErrs, err)
				errsMu.Unlock()
			} else {
				specs[i] = spec
			}
			_ = bar.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []*types.ChangeSpec
	for _, spec := range specs {
		if spec != nil {
			out = append(out, spec)
		}
	}

	if logger != nil && fileErrs != nil {
		logger.Warn("some files could not be processed",
			zap.Int("failed", len(multierr.Errors(fileErrs))))
	}
	return out, nil
}
