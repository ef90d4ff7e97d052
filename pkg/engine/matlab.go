package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/coastalkit/shorewrap/pkg/matfile"
)

// DefaultBinary is the engine executable looked up on PATH when no
// explicit binary is configured.
const DefaultBinary = "matlab"

// entryPoint is the model function invoked with the native record.
const entryPoint = "ShorelineS"

// MatlabEngine runs the external engine as a subprocess. Each Call renders
// the native record to a generated script, executes it in batch mode, and
// reads the state and output structs back from the result container the
// script saves. The engine is not safe for concurrent use.
type MatlabEngine struct {
	bin         string
	workDir     string
	ownsWorkDir bool
	paths       []string
	artifacts   []string
	lastResult  string
	started     bool
}

// Options configures a MatlabEngine.
type Options struct {
	// Binary is the engine executable; DefaultBinary when empty.
	Binary string

	// WorkDir hosts generated scripts and result containers. A fresh
	// temporary directory is created when empty.
	WorkDir string
}

// Start validates the engine binary and allocates a private workspace.
// Startup errors propagate unchanged to the caller.
func Start(opts Options) (*MatlabEngine, error) {
	bin := opts.Binary
	if bin == "" {
		bin = DefaultBinary
	}
	resolved, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("engine binary %q: %w", bin, err)
	}

	workDir := opts.WorkDir
	ownsWorkDir := workDir == ""
	if ownsWorkDir {
		workDir = filepath.Join(os.TempDir(), "shorewrap-"+uuid.NewString())
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create engine workspace: %w", err)
	}

	slog.Info("engine started", "binary", resolved, "workspace", workDir)
	return &MatlabEngine{
		bin:         resolved,
		workDir:     workDir,
		ownsWorkDir: ownsWorkDir,
		started:     true,
	}, nil
}

// AddPath registers dir recursively on the function search path applied to
// every subsequent call.
func (e *MatlabEngine) AddPath(ctx context.Context, dir string) error {
	if !e.started {
		return ErrNotStarted
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve path %q: %w", dir, err)
	}
	e.paths = append(e.paths, abs)
	return nil
}

// Call invokes the model entry point with rec and returns the state and
// output structs. Engine failures propagate with the batch run's trailing
// output attached; there is no retry and no partial result.
func (e *MatlabEngine) Call(ctx context.Context, rec *Record) (*matfile.Node, *matfile.Node, error) {
	if !e.started {
		return nil, nil, ErrNotStarted
	}

	runID := uuid.NewString()
	scriptPath := filepath.Join(e.workDir, "run_"+runID+".m")
	resultPath := filepath.Join(e.workDir, "result_"+runID+".mat")

	script := e.buildScript(rec, resultPath)
	if err := os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return nil, nil, fmt.Errorf("write engine script: %w", err)
	}
	e.artifacts = append(e.artifacts, scriptPath, resultPath)

	cmd := exec.CommandContext(ctx, e.bin, "-batch", batchCommand(scriptPath))
	cmd.Dir = e.workDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		return nil, nil, fmt.Errorf("engine call failed: %w: %s", err, tail(out, 512))
	}

	result, err := matfile.Load(resultPath)
	if err != nil {
		return nil, nil, fmt.Errorf("collect engine result: %w", err)
	}
	e.lastResult = resultPath
	return result.ModelState, result.Output, nil
}

// SaveResult copies the most recent call's result container to dst. It
// must run before Quit, which discards the per-run artifacts.
func (e *MatlabEngine) SaveResult(dst string) error {
	if e.lastResult == "" {
		return errors.New("no result container to save")
	}
	data, err := os.ReadFile(e.lastResult)
	if err != nil {
		return fmt.Errorf("read result container: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("save result container: %w", err)
	}
	return nil
}

// WorkDir returns the engine workspace directory. Result containers for
// completed calls live here until Quit; callers persisting results copy
// them out.
func (e *MatlabEngine) WorkDir() string { return e.workDir }

// Quit tears the engine workspace down. A workspace the engine created is
// removed wholesale; a caller-supplied one is left in place with only the
// per-run artifacts deleted. Safe to call more than once.
func (e *MatlabEngine) Quit() error {
	if !e.started {
		return nil
	}
	e.started = false

	if e.ownsWorkDir {
		if err := os.RemoveAll(e.workDir); err != nil {
			return fmt.Errorf("remove engine workspace: %w", err)
		}
	} else {
		for _, path := range e.artifacts {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove engine artifact: %w", err)
			}
		}
	}
	e.artifacts = nil

	slog.Info("engine shut down", "workspace", e.workDir)
	return nil
}

// buildScript assembles the batch script: search path setup, the native
// record assignments, the two-output model call, and the result save.
func (e *MatlabEngine) buildScript(rec *Record, resultPath string) string {
	var sb strings.Builder
	for _, p := range e.paths {
		fmt.Fprintf(&sb, "addpath(genpath(%s));\n", quoteString(p))
	}
	sb.WriteString(renderAssignments("S", rec))
	fmt.Fprintf(&sb, "[S, O] = %s(S);\n", entryPoint)
	fmt.Fprintf(&sb, "save(%s, 'S', 'O', '-v7');\n", quoteString(resultPath))
	return sb.String()
}

func batchCommand(scriptPath string) string {
	return fmt.Sprintf("run(%s)", quoteString(scriptPath))
}

func tail(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
