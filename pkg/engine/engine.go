// Package engine drives the external ShorelineS MATLAB engine: it converts
// run configurations into the engine's native structured record, manages
// the lifetime of one engine handle, and invokes the model entry point.
package engine

import (
	"context"
	"errors"

	"github.com/coastalkit/shorewrap/pkg/matfile"
)

// Engine is a handle on one external engine process. Implementations own
// exactly one engine; they are not safe for concurrent use.
type Engine interface {
	// AddPath registers dir (recursively) on the engine's function search
	// path for subsequent calls.
	AddPath(ctx context.Context, dir string) error

	// Call invokes the model entry point with the given record and returns
	// the model state and output structs. The call is atomic: no retry, no
	// partial results. Cancellation comes from ctx.
	Call(ctx context.Context, rec *Record) (state, output *matfile.Node, err error)

	// Quit shuts the engine down and releases its resources.
	Quit() error
}

// ResultSaver is implemented by engines that can persist the most recent
// call's result container to a file.
type ResultSaver interface {
	SaveResult(dst string) error
}

// Engine lifecycle errors.
var (
	ErrSessionActive = errors.New("session already holds an engine handle")
	ErrNotStarted    = errors.New("engine is not started")
)
