// Package extract turns parsed result containers into time-indexed
// coastline tables. It reconstructs the time axis from iteration counts and
// the configured step size, pulls the coastline coordinate arrays out of
// the output struct, and assembles a flat (time, x, y) table.
package extract

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/coastalkit/shorewrap/pkg/matfile"
	"github.com/coastalkit/shorewrap/pkg/runconfig"
)

// Configuration keys the extractor reads.
const (
	StartTimeField = "reftime"
	TimeStepField  = "dt"
)

// Output struct fields holding iteration counts, in preference order.
const (
	IterationField         = "it"
	IterationFallbackField = "nt"
)

// ErrSyntheticAxis is returned when a time axis built without a start date
// is asked for absolute timestamps. Synthetic axes are declared but not
// implemented.
var ErrSyntheticAxis = errors.New("synthetic time axis (no start date) is not implemented")

// daysPerYear converts the configured step size, given in years, to days.
const (
	daysPerYear   = 365
	secondsPerDay = 24 * 60 * 60
)

// TimeAxis maps elapsed iteration counts to timestamps: each axis entry is
// the start date plus iteration count times the step size.
type TimeAxis struct {
	start      *time.Time
	iterations []float64
	step       time.Duration
}

// NewTimeAxis builds an axis from an optional start date, the elapsed
// iteration counts, and a step size in years. The step is converted to its
// day equivalent and rounded to the nearest second. A nil start yields a
// synthetic axis whose timestamps cannot be materialized.
func NewTimeAxis(start *time.Time, iterations []float64, stepYears float64) TimeAxis {
	seconds := math.Round(stepYears * daysPerYear * 24 * 60 * 60)
	return TimeAxis{
		start:      start,
		iterations: iterations,
		step:       time.Duration(seconds) * time.Second,
	}
}

// Len returns the number of axis entries. It always equals the length of
// the iteration array the axis was built from.
func (a TimeAxis) Len() int { return len(a.iterations) }

// Step returns the axis step size per iteration.
func (a TimeAxis) Step() time.Duration { return a.step }

// Synthetic reports whether the axis lacks a start date.
func (a TimeAxis) Synthetic() bool { return a.start == nil }

// At returns the i-th timestamp.
func (a TimeAxis) At(i int) (time.Time, error) {
	if a.start == nil {
		return time.Time{}, ErrSyntheticAxis
	}
	return a.timeFor(a.iterations[i]), nil
}

// Times materializes the full timestamp sequence.
func (a TimeAxis) Times() ([]time.Time, error) {
	if a.start == nil {
		return nil, ErrSyntheticAxis
	}
	out := make([]time.Time, len(a.iterations))
	for i, it := range a.iterations {
		out[i] = a.timeFor(it)
	}
	return out, nil
}

// timeFor offsets the start date by it steps. Iteration counts are
// fractional, and the total offset can exceed the range of a Duration, so
// the offset is computed in float seconds and split into whole days plus a
// sub-day remainder.
func (a TimeAxis) timeFor(it float64) time.Time {
	seconds := math.Round(it * a.step.Seconds())
	days := int(seconds / secondsPerDay)
	rem := seconds - float64(days)*secondsPerDay
	return a.start.AddDate(0, 0, days).Add(time.Duration(rem) * time.Second)
}

// TimeAxisFromRecord builds the axis for a result record: the start date
// comes from the configuration's reftime, the step size in years from dt,
// and the iteration counts from the output's it field, falling back to nt.
func TimeAxisFromRecord(rec *matfile.Record, cfg runconfig.Config) (TimeAxis, error) {
	start, err := startDate(cfg)
	if err != nil {
		return TimeAxis{}, err
	}

	stepYears, err := toFloat(cfg[TimeStepField])
	if err != nil {
		return TimeAxis{}, fmt.Errorf("config %s: %w", TimeStepField, err)
	}

	iterations := matfile.ExtractArray(rec.Output, IterationField, matfile.Empty)
	if iterations.IsEmpty() {
		iterations = matfile.ExtractArray(rec.Output, IterationFallbackField, matfile.Empty)
	}

	return NewTimeAxis(start, iterations.Data, stepYears), nil
}

func startDate(cfg runconfig.Config) (*time.Time, error) {
	raw, ok := cfg[StartTimeField]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case time.Time:
		return &v, nil
	case string:
		t, err := time.Parse(runconfig.DefaultDateFormat, v)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", StartTimeField, err)
		}
		return &t, nil
	default:
		return nil, fmt.Errorf("config %s has type %T, want date", StartTimeField, raw)
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case nil:
		return 0, errors.New("value is missing")
	default:
		return 0, fmt.Errorf("value has type %T, want number", v)
	}
}
