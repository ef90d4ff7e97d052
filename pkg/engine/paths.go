package engine

import (
	"context"
	"fmt"
	"path/filepath"
)

// FunctionsDirName is the subdirectory of the modelling project root that
// holds the model functions.
const FunctionsDirName = "mat_functions"

// InitPaths registers the model function directories under projectRoot on
// the engine's search path. It must run before every invocation; the
// directory set is fixed.
func InitPaths(ctx context.Context, eng Engine, projectRoot string) error {
	dirs := []string{
		filepath.Join(projectRoot, FunctionsDirName),
	}
	for _, dir := range dirs {
		if err := eng.AddPath(ctx, dir); err != nil {
			return fmt.Errorf("add engine path %q: %w", dir, err)
		}
	}
	return nil
}
