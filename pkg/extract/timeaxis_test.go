package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastalkit/shorewrap/pkg/matfile"
	"github.com/coastalkit/shorewrap/pkg/runconfig"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestNewTimeAxisStep(t *testing.T) {
	tests := []struct {
		name      string
		stepYears float64
		want      time.Duration
	}{
		{
			name:      "one day expressed in years",
			stepYears: 1.0 / 365,
			want:      24 * time.Hour,
		},
		{
			name:      "one year",
			stepYears: 1,
			want:      365 * 24 * time.Hour,
		},
		{
			name:      "fractional step rounds to the nearest second",
			stepYears: 0.0001, // 3153.6 seconds
			want:      3154 * time.Second,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis := NewTimeAxis(datePtr(2020, 1, 1), []float64{0, 1}, tt.stepYears)
			assert.Equal(t, tt.want, axis.Step())
		})
	}
}

func TestTimeAxisTimes(t *testing.T) {
	axis := NewTimeAxis(datePtr(2020, 1, 1), []float64{0, 1, 3}, 1.0/365)

	require.Equal(t, 3, axis.Len())

	times, err := axis.Times()
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 1, 4, 0, 0, 0, 0, time.UTC),
	}, times)

	got, err := axis.At(1)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestTimeAxisFractionalIterations(t *testing.T) {
	axis := NewTimeAxis(datePtr(2020, 1, 1), []float64{0, 0.5, 1.5}, 1.0/365)

	times, err := axis.Times()
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2020, 1, 2, 12, 0, 0, 0, time.UTC),
	}, times)
}

func TestTimeAxisCenturiesOfOffset(t *testing.T) {
	axis := NewTimeAxis(datePtr(2020, 1, 1), []float64{300}, 1)

	got, err := axis.At(0)
	require.NoError(t, err)

	want := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 300*365)
	assert.Equal(t, want, got)
	assert.Equal(t, 2319, got.Year())
}

func TestSyntheticAxisFails(t *testing.T) {
	axis := NewTimeAxis(nil, []float64{0, 1}, 1.0/365)

	assert.True(t, axis.Synthetic())
	assert.Equal(t, 2, axis.Len())

	_, err := axis.Times()
	assert.ErrorIs(t, err, ErrSyntheticAxis)

	_, err = axis.At(0)
	assert.ErrorIs(t, err, ErrSyntheticAxis)
}

func TestTimeAxisFromRecord(t *testing.T) {
	output := matfile.NewStruct()
	output.SetField("it", matfile.NewNumeric([]int{1, 3}, []float64{0, 1, 2}))
	rec := &matfile.Record{Output: output}

	cfg := runconfig.Config{
		"reftime": "2020-01-01",
		"dt":      1.0 / 365,
	}

	axis, err := TimeAxisFromRecord(rec, cfg)
	require.NoError(t, err)
	require.Equal(t, 3, axis.Len())

	times, err := axis.Times()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC), times[2])
}

func TestTimeAxisFromRecordFallsBackToNt(t *testing.T) {
	output := matfile.NewStruct()
	output.SetField("nt", matfile.NewNumeric([]int{1, 2}, []float64{0, 1}))
	rec := &matfile.Record{Output: output}

	axis, err := TimeAxisFromRecord(rec, runconfig.Config{"reftime": "2020-01-01", "dt": 1})
	require.NoError(t, err)
	assert.Equal(t, 2, axis.Len())
}

func TestTimeAxisFromRecordSynthetic(t *testing.T) {
	output := matfile.NewStruct()
	output.SetField("it", matfile.NewNumeric([]int{1, 1}, []float64{0}))
	rec := &matfile.Record{Output: output}

	axis, err := TimeAxisFromRecord(rec, runconfig.Config{"dt": 1})
	require.NoError(t, err)
	assert.True(t, axis.Synthetic())
}

func TestTimeAxisFromRecordBadConfig(t *testing.T) {
	rec := &matfile.Record{Output: matfile.NewStruct()}

	t.Run("missing step", func(t *testing.T) {
		_, err := TimeAxisFromRecord(rec, runconfig.Config{"reftime": "2020-01-01"})
		assert.Error(t, err)
	})

	t.Run("malformed start date", func(t *testing.T) {
		_, err := TimeAxisFromRecord(rec, runconfig.Config{"reftime": "01/01/2020", "dt": 1})
		assert.Error(t, err)
	})
}
