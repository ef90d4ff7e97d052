package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// renderAssignments renders a record as engine-language struct field
// assignments on the named variable, one per line, in field order.
func renderAssignments(varName string, rec *Record) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s = struct();\n", varName)
	for _, name := range rec.Names() {
		field, _ := rec.Field(name)
		fmt.Fprintf(&sb, "%s.%s = %s;\n", varName, name, renderField(field))
	}
	return sb.String()
}

func renderField(f Field) string {
	switch f.Kind {
	case KindNaN:
		return "NaN"
	case KindScalar:
		return renderScalar(f.Scalar)
	case KindNumeric:
		return renderNumeric(f.Numbers)
	case KindCellString:
		items := make([]string, len(f.Strings))
		for i, s := range f.Strings {
			items[i] = quoteString(s)
		}
		return "{" + strings.Join(items, ", ") + "}"
	}
	return "NaN"
}

func renderScalar(v any) string {
	switch s := v.(type) {
	case string:
		return quoteString(s)
	case bool:
		if s {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return formatNumber(s)
	case float32:
		return formatNumber(float64(s))
	}
	return quoteString(fmt.Sprint(v))
}

func renderNumeric(nums []float64) string {
	if len(nums) == 0 {
		return "[]"
	}
	items := make([]string, len(nums))
	for i, n := range nums {
		items[i] = formatNumber(n)
	}
	return "[" + strings.Join(items, " ") + "]"
}

func formatNumber(n float64) string {
	if n != n {
		return "NaN"
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// quoteString renders a single-quoted engine string, doubling embedded
// quotes.
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
