package shorewrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastalkit/shorewrap/pkg/engine"
	"github.com/coastalkit/shorewrap/pkg/matfile"
	"github.com/coastalkit/shorewrap/pkg/runconfig"
)

// recordingEngine satisfies engine.Engine and records what reaches it.
type recordingEngine struct {
	paths  []string
	calls  int
	quits  int
	gotRec *engine.Record
	state  *matfile.Node
	output *matfile.Node
}

func (e *recordingEngine) AddPath(ctx context.Context, dir string) error {
	e.paths = append(e.paths, dir)
	return nil
}

func (e *recordingEngine) Call(ctx context.Context, rec *engine.Record) (*matfile.Node, *matfile.Node, error) {
	e.calls++
	e.gotRec = rec
	return e.state, e.output, nil
}

func (e *recordingEngine) Quit() error {
	e.quits++
	return nil
}

func newRecordingEngine() *recordingEngine {
	return &recordingEngine{
		state:  matfile.NewStruct(),
		output: matfile.NewStruct(),
	}
}

func TestRunWithMapping(t *testing.T) {
	eng := newRecordingEngine()
	cfg := runconfig.Config{"storageinterval": 30, "d": 10}

	state, output, err := Run(context.Background(), cfg, Options{Engine: eng, ProjectRoot: "/proj"})
	require.NoError(t, err)

	assert.Same(t, eng.state, state)
	assert.Same(t, eng.output, output)
	assert.Equal(t, 1, eng.calls)

	// Search path initialization happens before the invocation.
	require.Len(t, eng.paths, 1)
	assert.Contains(t, eng.paths[0], "mat_functions")

	_, ok := eng.gotRec.Field("storageinterval")
	assert.True(t, ok)
}

func TestRunWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	content := "storageinterval: 30\nreftime: 2020-01-01\noutputdir: " +
		filepath.Join(dir, "out") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	eng := newRecordingEngine()
	_, _, err := Run(context.Background(), path, Options{Engine: eng})
	require.NoError(t, err)

	// Dates reach the engine as fixed-format strings.
	f, ok := eng.gotRec.Field("reftime")
	require.True(t, ok)
	assert.Equal(t, "2020-01-01", f.Scalar)

	// The configured output directory is created before the call.
	assert.DirExists(t, filepath.Join(dir, "out"))
}

func TestRunMissingRequiredField(t *testing.T) {
	eng := newRecordingEngine()

	_, _, err := Run(context.Background(), runconfig.Config{"d": 10}, Options{Engine: eng})
	require.Error(t, err)

	var missing *runconfig.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"storageinterval"}, missing.Fields)

	// No model invocation happens on a failed validation.
	assert.Equal(t, 0, eng.calls)
}

func TestRunRejectsUnknownInputType(t *testing.T) {
	_, _, err := Run(context.Background(), 42, Options{Engine: newRecordingEngine()})
	assert.ErrorIs(t, err, ErrBadConfigInput)
}

// savingEngine extends recordingEngine with result persistence.
type savingEngine struct {
	recordingEngine
	saved []string
}

func (e *savingEngine) SaveResult(dst string) error {
	e.saved = append(e.saved, dst)
	return os.WriteFile(dst, []byte("MATLAB 5.0"), 0o644)
}

func TestRunSavesResultContainer(t *testing.T) {
	eng := &savingEngine{recordingEngine: *newRecordingEngine()}
	dst := filepath.Join(t.TempDir(), "result.mat")

	_, _, err := Run(context.Background(), runconfig.Config{"storageinterval": 30},
		Options{Engine: eng, SavePath: dst})
	require.NoError(t, err)

	assert.Equal(t, []string{dst}, eng.saved)
	assert.FileExists(t, dst)
}

func TestRunSavePathNeedsPersistingEngine(t *testing.T) {
	eng := newRecordingEngine()

	_, _, err := Run(context.Background(), runconfig.Config{"storageinterval": 30},
		Options{Engine: eng, SavePath: filepath.Join(t.TempDir(), "result.mat")})
	require.ErrorContains(t, err, "cannot persist")

	// The model call itself still went through; only persistence failed.
	assert.Equal(t, 1, eng.calls)
}

func TestRunSuppliedEngineNotQuit(t *testing.T) {
	eng := newRecordingEngine()

	_, _, err := Run(context.Background(), runconfig.Config{"storageinterval": 30}, Options{Engine: eng})
	require.NoError(t, err)

	// A supplied engine's lifecycle is not owned by the run.
	assert.Equal(t, 1, eng.calls)
	assert.Equal(t, 0, eng.quits)
}
