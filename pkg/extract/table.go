package extract

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// Table is a flat, time-indexed coastline position table. The three column
// slices are parallel; row i is (Times[i], X[i], Y[i]).
type Table struct {
	Times []time.Time
	X     []float64
	Y     []float64
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Times) }

// Row returns row i.
func (t *Table) Row(i int) (time.Time, float64, float64) {
	return t.Times[i], t.X[i], t.Y[i]
}

// WriteCSV writes the table with a time,x,y header. Timestamps are rendered
// in RFC 3339.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "x", "y"}); err != nil {
		return err
	}
	for i := range t.Times {
		row := []string{
			t.Times[i].Format(time.RFC3339),
			strconv.FormatFloat(t.X[i], 'g', -1, 64),
			strconv.FormatFloat(t.Y[i], 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
