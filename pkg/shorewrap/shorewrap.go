// Package shorewrap orchestrates a ShorelineS model run: load the YAML run
// configuration, normalize and validate it, convert it to the engine's
// native record, and invoke the model through an engine session.
package shorewrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/coastalkit/shorewrap/pkg/engine"
	"github.com/coastalkit/shorewrap/pkg/matfile"
	"github.com/coastalkit/shorewrap/pkg/runconfig"
)

// Version is the shorewrap release version.
const Version = "0.1.0"

// ErrBadConfigInput is returned when the configuration input is neither a
// path nor a mapping.
var ErrBadConfigInput = errors.New("config input must be a file path or a mapping")

// Options configures a simulation run.
type Options struct {
	// Engine, when non-nil, is reused for the call and its lifecycle is
	// left untouched. When nil, a session is opened for the duration of
	// the run and closed afterward.
	Engine engine.Engine

	// EngineBinary overrides the engine executable used when a session is
	// opened. Ignored when Engine is supplied.
	EngineBinary string

	// ProjectRoot is the modelling project root holding the model function
	// directories. The working directory is used when empty.
	ProjectRoot string

	// SavePath, when non-empty, is where the run's result container is
	// copied before the session closes. The engine must implement
	// engine.ResultSaver.
	SavePath string
}

// Run executes one ShorelineS simulation and returns the model state and
// output structs. configInput is a path to a YAML configuration, a
// path-like value with a String method, or an in-memory mapping; anything
// else returns ErrBadConfigInput. The call is atomic: no retry, no
// timeout of its own, no partial results. Cancellation comes from ctx.
func Run(ctx context.Context, configInput any, opts Options) (*matfile.Node, *matfile.Node, error) {
	cfg, err := resolveConfig(configInput)
	if err != nil {
		return nil, nil, err
	}

	cfg = runconfig.NormalizeDates(cfg)
	if err := runconfig.Check(cfg); err != nil {
		return nil, nil, err
	}

	if err := ensureOutputDir(cfg); err != nil {
		return nil, nil, err
	}

	eng := opts.Engine
	if eng == nil {
		session := engine.NewSession(func() (engine.Engine, error) {
			return engine.Start(engine.Options{Binary: opts.EngineBinary})
		})
		eng, err = session.Open(ctx)
		if err != nil {
			return nil, nil, err
		}
		defer session.Close()
	}

	projectRoot := opts.ProjectRoot
	if projectRoot == "" {
		projectRoot = "."
	}
	if err := engine.InitPaths(ctx, eng, projectRoot); err != nil {
		return nil, nil, err
	}

	rec, err := engine.BuildRecord(cfg)
	if err != nil {
		return nil, nil, err
	}

	start := time.Now()
	state, output, err := eng.Call(ctx, rec)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("model run complete", "elapsed", time.Since(start))

	if opts.SavePath != "" {
		saver, ok := eng.(engine.ResultSaver)
		if !ok {
			return nil, nil, fmt.Errorf("engine %T cannot persist result containers", eng)
		}
		if err := saver.SaveResult(opts.SavePath); err != nil {
			return nil, nil, err
		}
		slog.Info("result container saved", "path", opts.SavePath)
	}

	return state, output, nil
}

func resolveConfig(configInput any) (runconfig.Config, error) {
	switch v := configInput.(type) {
	case string:
		return runconfig.Load(v)
	case runconfig.Config:
		return v, nil
	case map[string]any:
		return runconfig.Config(v), nil
	case fmt.Stringer:
		return runconfig.Load(v.String())
	default:
		return nil, fmt.Errorf("%w, got %T", ErrBadConfigInput, configInput)
	}
}

// ensureOutputDir creates the configured output directory when the
// configuration names one.
func ensureOutputDir(cfg runconfig.Config) error {
	dir, ok := cfg["outputdir"].(string)
	if !ok || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}
