package runconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `config_version: 3
description: spit base case
storageinterval: 30
dt: 0.5
d: 10
reftime: 2020-01-01
LDBplot: ['a.ldb', 'b.ldb']
walls: [1, 2, null]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("drops reserved metadata keys", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, sampleYAML))
		require.NoError(t, err)

		assert.NotContains(t, cfg, KeyConfigVersion)
		assert.NotContains(t, cfg, KeyDescription)
		assert.Contains(t, cfg, "storageinterval")
		assert.Contains(t, cfg, "LDBplot")
	})

	t.Run("preserves key case", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "LDBcoastline: coast.ldb\nstorageinterval: 30\n"))
		require.NoError(t, err)

		assert.Contains(t, cfg, "LDBcoastline")
		assert.NotContains(t, cfg, "ldbcoastline")
	})

	t.Run("empty file yields empty mapping", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, ""))
		require.NoError(t, err)
		assert.Empty(t, cfg)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{
			name: "required field present",
			cfg:  Config{"storageinterval": 30},
			want: true,
		},
		{
			name: "required field absent",
			cfg:  Config{},
			want: false,
		},
		{
			name: "unrelated fields do not satisfy the requirement",
			cfg:  Config{"dt": 0.5, "d": 10},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.cfg))
		})
	}
}

func TestCheck(t *testing.T) {
	t.Run("names the missing keys in the error", func(t *testing.T) {
		err := Check(Config{}, "storageinterval", "dt")
		require.Error(t, err)

		var missing *MissingFieldsError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"storageinterval", "dt"}, missing.Fields)
		assert.Contains(t, err.Error(), "storageinterval")
	})

	t.Run("nil for a complete configuration", func(t *testing.T) {
		assert.NoError(t, Check(Config{"storageinterval": 30}))
	})
}

func TestNormalizeDates(t *testing.T) {
	ref := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{
		"reftime":         ref,
		"storageinterval": 30,
		"name":            "base",
	}

	got := NormalizeDates(cfg)
	assert.Equal(t, "2020-01-01", got["reftime"])
	assert.Equal(t, 30, got["storageinterval"])
	assert.Equal(t, "base", got["name"])

	t.Run("idempotent", func(t *testing.T) {
		again := NormalizeDates(got)
		assert.Equal(t, got, again)
	})

	t.Run("original mapping is untouched", func(t *testing.T) {
		assert.Equal(t, ref, cfg["reftime"])
	})
}

func TestNormalizeDatesFromYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	got := NormalizeDates(cfg)
	assert.Equal(t, "2020-01-01", got["reftime"])
}
