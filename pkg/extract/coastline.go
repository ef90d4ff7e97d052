package extract

import (
	"fmt"
	"time"

	"github.com/coastalkit/shorewrap/pkg/matfile"
)

// Coords holds the coastline coordinate arrays keyed x and y, each shaped
// (points, timesteps) in column-major order.
type Coords struct {
	X matfile.Array
	Y matfile.Array
}

// Coastline pulls the x and y coordinate arrays out of a result record's
// output struct. Absent or empty fields yield empty arrays.
func Coastline(rec *matfile.Record) Coords {
	return Coords{
		X: matfile.ExtractArray(rec.Output, "x", matfile.Empty),
		Y: matfile.ExtractArray(rec.Output, "y", matfile.Empty),
	}
}

// ShapeMismatchError reports a coordinate array whose timestep dimension
// disagrees with the time axis length.
type ShapeMismatchError struct {
	Timesteps int
	AxisLen   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("coordinate arrays have %d timesteps but time axis has %d entries",
		e.Timesteps, e.AxisLen)
}

// BuildTable assembles a flat coastline table from coordinate arrays and a
// time axis: one row per (time, point) pair, each axis value repeated once
// per point in its snapshot, values taken in point-major then time-major
// order matching the arrays' column-major memory layout.
//
// The axis length must equal the arrays' timestep dimension; a
// *ShapeMismatchError is returned otherwise and no table is produced.
func BuildTable(coords Coords, axis TimeAxis) (*Table, error) {
	points := coords.X.Rows()
	timesteps := coords.X.Cols()

	if coords.Y.Rows() != points || coords.Y.Cols() != timesteps {
		return nil, fmt.Errorf("x array is %dx%d but y array is %dx%d",
			points, timesteps, coords.Y.Rows(), coords.Y.Cols())
	}
	if axis.Len() != timesteps {
		return nil, &ShapeMismatchError{Timesteps: timesteps, AxisLen: axis.Len()}
	}

	times, err := axis.Times()
	if err != nil {
		return nil, err
	}

	tbl := &Table{
		Times: make([]time.Time, 0, points*timesteps),
		X:     make([]float64, 0, points*timesteps),
		Y:     make([]float64, 0, points*timesteps),
	}
	for t := 0; t < timesteps; t++ {
		for p := 0; p < points; p++ {
			tbl.Times = append(tbl.Times, times[t])
			tbl.X = append(tbl.X, coords.X.At(p, t))
			tbl.Y = append(tbl.Y, coords.Y.At(p, t))
		}
	}
	return tbl, nil
}
