package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/coastalkit/shorewrap/pkg/runconfig"
)

// FieldKind classifies a native record field. The builder maps the closed
// set of configuration value shapes onto this closed set of field types;
// anything outside either set is rejected.
type FieldKind int

const (
	// KindNaN is the engine's not-a-number sentinel, standing in for null.
	KindNaN FieldKind = iota

	// KindScalar is a single bool, number, or string passed through as-is.
	KindScalar

	// KindNumeric is a numeric array; null entries become NaN.
	KindNumeric

	// KindCellString is a cell array of strings.
	KindCellString
)

// Field is one native record field.
type Field struct {
	Kind    FieldKind
	Scalar  any       // KindScalar
	Numbers []float64 // KindNumeric
	Strings []string  // KindCellString
}

// Record is the engine's native structured record mirroring a run
// configuration. Field order is preserved for stable script rendering.
type Record struct {
	names  []string
	fields map[string]Field
}

// Names returns the field names in insertion order.
func (r *Record) Names() []string { return r.names }

// Field returns the named field.
func (r *Record) Field(name string) (Field, bool) {
	f, ok := r.fields[name]
	return f, ok
}

func (r *Record) set(name string, f Field) {
	if r.fields == nil {
		r.fields = make(map[string]Field)
	}
	if _, exists := r.fields[name]; !exists {
		r.names = append(r.names, name)
	}
	r.fields[name] = f
}

// BuildRecord converts a run configuration into the engine's native record.
// Keys beginning with an underscore are skipped as residual metadata. The
// value coercion rules are a closed set:
//
//   - nil becomes the NaN sentinel
//   - an empty list becomes an empty numeric array
//   - a list under a cell-string key becomes a cell array of strings
//   - any other list becomes a numeric array, nil entries as NaN
//   - a string shaped like a braced cell literal is parsed as one
//   - remaining scalars (bool, int, float, string) pass through
//
// Any other value shape is an error rather than a silent coercion.
func BuildRecord(cfg runconfig.Config) (*Record, error) {
	rec := &Record{}
	for _, key := range cfg.Keys() {
		if strings.HasPrefix(key, "_") {
			continue
		}

		field, err := buildField(key, cfg[key])
		if err != nil {
			return nil, fmt.Errorf("config key %q: %w", key, err)
		}
		rec.set(key, field)
	}
	return rec, nil
}

func buildField(key string, value any) (Field, error) {
	switch v := value.(type) {
	case nil:
		return Field{Kind: KindNaN}, nil

	case string:
		if looksLikeCellLiteral(v) {
			items, err := parseCellLiteral(v)
			if err != nil {
				return Field{}, err
			}
			return Field{Kind: KindCellString, Strings: items}, nil
		}
		return Field{Kind: KindScalar, Scalar: v}, nil

	case []any:
		return buildListField(key, v)

	case bool, int, int64, float64, float32:
		return Field{Kind: KindScalar, Scalar: v}, nil

	case time.Time:
		return Field{}, fmt.Errorf("date value not normalized; run NormalizeDates first")

	default:
		return Field{}, fmt.Errorf("unsupported value type %T", value)
	}
}

func buildListField(key string, list []any) (Field, error) {
	if len(list) == 0 {
		return Field{Kind: KindNumeric}, nil
	}

	if runconfig.CellStringFields[key] {
		items := make([]string, len(list))
		for i, el := range list {
			s, ok := el.(string)
			if !ok {
				return Field{}, fmt.Errorf("element %d has type %T, want string", i, el)
			}
			items[i] = s
		}
		return Field{Kind: KindCellString, Strings: items}, nil
	}

	nums := make([]float64, len(list))
	for i, el := range list {
		switch n := el.(type) {
		case nil:
			nums[i] = math.NaN()
		case int:
			nums[i] = float64(n)
		case int64:
			nums[i] = float64(n)
		case float64:
			nums[i] = n
		case float32:
			nums[i] = float64(n)
		default:
			return Field{}, fmt.Errorf("element %d has type %T, want number or null", i, el)
		}
	}
	return Field{Kind: KindNumeric, Numbers: nums}, nil
}

// looksLikeCellLiteral reports whether s has the shape of a braced,
// comma-containing cell literal such as {'a','b'}.
func looksLikeCellLiteral(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") && strings.Contains(s, ",")
}

// parseCellLiteral parses a restricted cell-of-strings literal:
// single-quoted items separated by commas inside braces, with '' as the
// quote escape. Nothing is ever evaluated by the engine; any other content
// inside the braces is an error.
func parseCellLiteral(s string) ([]string, error) {
	body := strings.TrimSpace(s)
	body = strings.TrimSpace(body[1 : len(body)-1])
	if body == "" {
		return nil, fmt.Errorf("empty cell literal %q", s)
	}

	var items []string
	i := 0
	for {
		for i < len(body) && (body[i] == ' ' || body[i] == '\t') {
			i++
		}
		if i >= len(body) || body[i] != '\'' {
			return nil, fmt.Errorf("cell literal %q: expected quoted string at offset %d", s, i)
		}
		i++

		var sb strings.Builder
		for {
			if i >= len(body) {
				return nil, fmt.Errorf("cell literal %q: unterminated string", s)
			}
			if body[i] == '\'' {
				if i+1 < len(body) && body[i+1] == '\'' {
					sb.WriteByte('\'')
					i += 2
					continue
				}
				i++
				break
			}
			sb.WriteByte(body[i])
			i++
		}
		items = append(items, sb.String())

		for i < len(body) && (body[i] == ' ' || body[i] == '\t') {
			i++
		}
		if i >= len(body) {
			return items, nil
		}
		if body[i] != ',' {
			return nil, fmt.Errorf("cell literal %q: expected comma at offset %d", s, i)
		}
		i++
	}
}
