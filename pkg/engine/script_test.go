package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastalkit/shorewrap/pkg/runconfig"
)

func TestRenderAssignments(t *testing.T) {
	rec, err := BuildRecord(runconfig.Config{
		"LDBplot":         []any{"a.ldb"},
		"d":               10,
		"ds0":             0.5,
		"fnorfile":        nil,
		"outputdir":       "out dir",
		"storageinterval": 30,
		"walls":           []any{1, nil, 2},
		"xhard":           []any{},
	})
	require.NoError(t, err)

	got := renderAssignments("S", rec)
	want := "S = struct();\n" +
		"S.LDBplot = {'a.ldb'};\n" +
		"S.d = 10;\n" +
		"S.ds0 = 0.5;\n" +
		"S.fnorfile = NaN;\n" +
		"S.outputdir = 'out dir';\n" +
		"S.storageinterval = 30;\n" +
		"S.walls = [1 NaN 2];\n" +
		"S.xhard = [];\n"
	assert.Equal(t, want, got)
}

func TestRenderField(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{"nan sentinel", Field{Kind: KindNaN}, "NaN"},
		{"bool", Field{Kind: KindScalar, Scalar: true}, "true"},
		{"float", Field{Kind: KindScalar, Scalar: 2.5}, "2.5"},
		{"quoted string", Field{Kind: KindScalar, Scalar: "it's"}, "'it''s'"},
		{"empty numeric", Field{Kind: KindNumeric}, "[]"},
		{"numeric with nan", Field{Kind: KindNumeric, Numbers: []float64{1, math.NaN()}}, "[1 NaN]"},
		{"cell strings", Field{Kind: KindCellString, Strings: []string{"a", "b"}}, "{'a', 'b'}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderField(tt.field))
		})
	}
}
