package matfile

// Class identifies the kind of value a Node holds.
type Class int

// Node classes, covering the subset of matrix classes the engine emits.
const (
	ClassEmpty Class = iota
	ClassNumeric
	ClassChar
	ClassCell
	ClassStruct
)

func (c Class) String() string {
	switch c {
	case ClassEmpty:
		return "empty"
	case ClassNumeric:
		return "numeric"
	case ClassChar:
		return "char"
	case ClassCell:
		return "cell"
	case ClassStruct:
		return "struct"
	}
	return "unknown"
}

// Node is one matrix element of a parsed container: a numeric array, a
// character array, a cell array, or a struct. Struct fields and cell
// contents are Nodes themselves.
type Node struct {
	Class Class

	// Dims is the matrix dimension vector, column-major.
	Dims []int

	// Values holds numeric (and logical) data in column-major order.
	Values []float64

	// Chars holds character array data as a string.
	Chars string

	// Cells holds cell array contents in column-major order.
	Cells []*Node

	fields     map[string]*Node
	fieldOrder []string
}

// NewNumeric returns a numeric node with the given dimensions and
// column-major data.
func NewNumeric(dims []int, data []float64) *Node {
	return &Node{Class: ClassNumeric, Dims: dims, Values: data}
}

// NewStruct returns an empty scalar struct node. Populate it with SetField.
func NewStruct() *Node {
	return &Node{Class: ClassStruct, Dims: []int{1, 1}}
}

// SetField sets a struct field, preserving first-insertion order.
func (n *Node) SetField(name string, v *Node) { n.setField(name, v) }

// Field returns the named struct field. The second result is false when the
// node is not a struct or has no such field.
func (n *Node) Field(name string) (*Node, bool) {
	if n == nil || n.fields == nil {
		return nil, false
	}
	f, ok := n.fields[name]
	return f, ok
}

// FieldNames returns the struct field names in declaration order.
func (n *Node) FieldNames() []string {
	if n == nil {
		return nil
	}
	return n.fieldOrder
}

func (n *Node) setField(name string, v *Node) {
	if n.fields == nil {
		n.fields = make(map[string]*Node)
	}
	if _, exists := n.fields[name]; !exists {
		n.fieldOrder = append(n.fieldOrder, name)
	}
	n.fields[name] = v
}

// IsEmpty reports whether the node carries no data.
func (n *Node) IsEmpty() bool {
	if n == nil {
		return true
	}
	switch n.Class {
	case ClassNumeric:
		return len(n.Values) == 0
	case ClassChar:
		return len(n.Chars) == 0
	case ClassCell:
		return len(n.Cells) == 0
	case ClassStruct:
		return len(n.fieldOrder) == 0
	}
	return true
}

// Array is a dense numeric array extracted from a Node. Data is stored in
// column-major order, matching the container's memory layout.
type Array struct {
	Dims []int
	Data []float64
}

// Empty is the zero-size Array used as the conventional extraction default.
var Empty = Array{}

// Size returns the number of elements.
func (a Array) Size() int { return len(a.Data) }

// IsEmpty reports whether the array has no elements.
func (a Array) IsEmpty() bool { return len(a.Data) == 0 }

// Rows returns the first dimension, or 0 for an empty array.
func (a Array) Rows() int {
	if len(a.Dims) == 0 {
		return 0
	}
	return a.Dims[0]
}

// Cols returns the second dimension, or 0 when absent.
func (a Array) Cols() int {
	if len(a.Dims) < 2 {
		return 0
	}
	return a.Dims[1]
}

// At returns the element at (row, col) of a 2-D array.
func (a Array) At(row, col int) float64 {
	return a.Data[col*a.Dims[0]+row]
}

// ExtractArray reduces the single-element wrapper nesting around a struct
// field to its inner numeric array. It returns def when the field is absent
// or the inner array is empty. No bounds or type checking is applied beyond
// emptiness.
func ExtractArray(n *Node, field string, def Array) Array {
	f, ok := n.Field(field)
	if !ok {
		return def
	}
	for f != nil && f.Class == ClassCell && len(f.Cells) == 1 {
		f = f.Cells[0]
	}
	if f == nil || f.Class != ClassNumeric || len(f.Values) == 0 {
		return def
	}
	return Array{Dims: f.Dims, Data: f.Values}
}
