// Level 5 MAT container parsing. Only the subset the engine emits is
// covered: numeric, logical, char, cell, and struct matrices, plus
// zlib-compressed elements. Sparse and object matrices are rejected.
package matfile

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf16"
)

// MAT data type tags.
const (
	miINT8       = 1
	miUINT8      = 2
	miINT16      = 3
	miUINT16     = 4
	miINT32      = 5
	miUINT32     = 6
	miSINGLE     = 7
	miDOUBLE     = 9
	miINT64      = 12
	miUINT64     = 13
	miMATRIX     = 14
	miCOMPRESSED = 15
	miUTF8       = 16
	miUTF16      = 17
)

// Matrix class tags.
const (
	mxCELL   = 1
	mxSTRUCT = 2
	mxOBJECT = 3
	mxCHAR   = 4
	mxSPARSE = 5
	mxDOUBLE = 6
	mxSINGLE = 7
	mxINT8   = 8
	mxUINT8  = 9
	mxINT16  = 10
	mxUINT16 = 11
	mxINT32  = 12
	mxUINT32 = 13
	mxINT64  = 14
	mxUINT64 = 15
)

const headerSize = 128

// topElement is one named top-level matrix with its global flag.
type topElement struct {
	name   string
	node   *Node
	global bool
}

// parseContainer parses a whole MAT container: header plus element stream.
func parseContainer(data []byte) (header string, elements []topElement, err error) {
	if len(data) < headerSize {
		return "", nil, fmt.Errorf("container truncated: %d bytes", len(data))
	}

	var order binary.ByteOrder
	switch string(data[126:128]) {
	case "IM":
		order = binary.LittleEndian
	case "MI":
		order = binary.BigEndian
	default:
		return "", nil, fmt.Errorf("bad endian indicator %q", data[126:128])
	}

	version := order.Uint16(data[124:126])
	if version != 0x0100 {
		return "", nil, fmt.Errorf("unsupported container version 0x%04x", version)
	}

	header = strings.TrimRight(string(data[:116]), " \x00")

	r := &reader{buf: data, pos: headerSize, order: order}
	for r.remaining() >= 8 {
		dataType, payload, err := r.element()
		if err != nil {
			return "", nil, err
		}

		switch dataType {
		case miCOMPRESSED:
			inflated, err := inflate(payload)
			if err != nil {
				return "", nil, fmt.Errorf("decompress element: %w", err)
			}
			sub := &reader{buf: inflated, order: order}
			subType, subPayload, err := sub.element()
			if err != nil {
				return "", nil, fmt.Errorf("compressed element: %w", err)
			}
			if subType != miMATRIX {
				return "", nil, fmt.Errorf("compressed element holds type %d, want matrix", subType)
			}
			el, err := parseMatrix(subPayload, order)
			if err != nil {
				return "", nil, err
			}
			elements = append(elements, el)
		case miMATRIX:
			el, err := parseMatrix(payload, order)
			if err != nil {
				return "", nil, err
			}
			elements = append(elements, el)
		default:
			// Unknown top-level element types are skipped, not fatal.
		}
	}

	return header, elements, nil
}

func inflate(payload []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// reader walks an element stream with 8-byte alignment.
type reader struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
}

func (r *reader) remaining() int { return len(r.buf) - r.pos }

// element reads one tagged data element, handling the small element format,
// and leaves the reader aligned to the next 8-byte boundary.
func (r *reader) element() (dataType uint32, payload []byte, err error) {
	if r.remaining() < 8 {
		return 0, nil, fmt.Errorf("element tag truncated at offset %d", r.pos)
	}

	first := r.order.Uint32(r.buf[r.pos : r.pos+4])
	if first>>16 != 0 {
		// Small element: size in the upper half word, data in the next
		// four bytes, eight bytes total.
		size := int(first >> 16)
		dataType = first & 0xffff
		if size > 4 {
			return 0, nil, fmt.Errorf("small element size %d at offset %d", size, r.pos)
		}
		payload = r.buf[r.pos+4 : r.pos+4+size]
		r.pos += 8
		return dataType, payload, nil
	}

	dataType = first
	size := int(r.order.Uint32(r.buf[r.pos+4 : r.pos+8]))
	r.pos += 8
	if size > r.remaining() {
		return 0, nil, fmt.Errorf("element of %d bytes overruns container at offset %d", size, r.pos)
	}
	payload = r.buf[r.pos : r.pos+size]
	r.pos += size

	// Compressed elements are not padded; everything else is.
	if dataType != miCOMPRESSED {
		if pad := (8 - r.pos%8) % 8; pad > 0 && pad <= r.remaining() {
			r.pos += pad
		}
	}
	return dataType, payload, nil
}

// parseMatrix parses a miMATRIX payload into a named Node.
func parseMatrix(payload []byte, order binary.ByteOrder) (topElement, error) {
	if len(payload) == 0 {
		return topElement{node: &Node{Class: ClassEmpty}}, nil
	}

	r := &reader{buf: payload, order: order}

	flagType, flagData, err := r.element()
	if err != nil {
		return topElement{}, fmt.Errorf("array flags: %w", err)
	}
	if flagType != miUINT32 || len(flagData) < 4 {
		return topElement{}, fmt.Errorf("array flags have type %d, want uint32", flagType)
	}
	flags := order.Uint32(flagData[:4])
	class := int(flags & 0xff)
	global := flags&0x0400 != 0

	dimType, dimData, err := r.element()
	if err != nil {
		return topElement{}, fmt.Errorf("dimensions: %w", err)
	}
	if dimType != miINT32 {
		return topElement{}, fmt.Errorf("dimensions have type %d, want int32", dimType)
	}
	dims := make([]int, len(dimData)/4)
	for i := range dims {
		dims[i] = int(int32(order.Uint32(dimData[i*4 : i*4+4])))
	}

	_, nameData, err := r.element()
	if err != nil {
		return topElement{}, fmt.Errorf("array name: %w", err)
	}
	name := string(nameData)

	node, err := parseBody(r, class, dims, order)
	if err != nil {
		return topElement{}, fmt.Errorf("matrix %q: %w", name, err)
	}
	return topElement{name: name, node: node, global: global}, nil
}

func parseBody(r *reader, class int, dims []int, order binary.ByteOrder) (*Node, error) {
	switch class {
	case mxDOUBLE, mxSINGLE, mxINT8, mxUINT8, mxINT16, mxUINT16,
		mxINT32, mxUINT32, mxINT64, mxUINT64:
		return parseNumeric(r, dims, order)
	case mxCHAR:
		return parseChar(r, dims, order)
	case mxCELL:
		return parseCell(r, dims, order)
	case mxSTRUCT:
		return parseStruct(r, dims, order)
	case mxSPARSE, mxOBJECT:
		return nil, fmt.Errorf("unsupported matrix class %d", class)
	default:
		return nil, fmt.Errorf("unknown matrix class %d", class)
	}
}

func parseNumeric(r *reader, dims []int, order binary.ByteOrder) (*Node, error) {
	if r.remaining() == 0 {
		return &Node{Class: ClassNumeric, Dims: dims}, nil
	}
	dataType, data, err := r.element()
	if err != nil {
		return nil, fmt.Errorf("numeric data: %w", err)
	}
	values, err := decodeNumbers(dataType, data, order)
	if err != nil {
		return nil, err
	}
	// An imaginary part may follow; this layer only reads real data.
	return &Node{Class: ClassNumeric, Dims: dims, Values: values}, nil
}

func parseChar(r *reader, dims []int, order binary.ByteOrder) (*Node, error) {
	if r.remaining() == 0 {
		return &Node{Class: ClassChar, Dims: dims}, nil
	}
	dataType, data, err := r.element()
	if err != nil {
		return nil, fmt.Errorf("char data: %w", err)
	}

	var s string
	switch dataType {
	case miUINT8, miINT8, miUTF8:
		s = string(data)
	case miUINT16, miINT16, miUTF16:
		codes := make([]uint16, len(data)/2)
		for i := range codes {
			codes[i] = order.Uint16(data[i*2 : i*2+2])
		}
		s = string(utf16.Decode(codes))
	default:
		return nil, fmt.Errorf("char data has type %d", dataType)
	}
	return &Node{Class: ClassChar, Dims: dims, Chars: s}, nil
}

func parseCell(r *reader, dims []int, order binary.ByteOrder) (*Node, error) {
	n := numel(dims)
	cells := make([]*Node, 0, n)
	for i := 0; i < n; i++ {
		dataType, payload, err := r.element()
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		if dataType != miMATRIX {
			return nil, fmt.Errorf("cell %d has type %d, want matrix", i, dataType)
		}
		el, err := parseMatrix(payload, order)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		cells = append(cells, el.node)
	}
	return &Node{Class: ClassCell, Dims: dims, Cells: cells}, nil
}

func parseStruct(r *reader, dims []int, order binary.ByteOrder) (*Node, error) {
	lenType, lenData, err := r.element()
	if err != nil {
		return nil, fmt.Errorf("field name length: %w", err)
	}
	if lenType != miINT32 || len(lenData) < 4 {
		return nil, fmt.Errorf("field name length has type %d, want int32", lenType)
	}
	fieldLen := int(int32(order.Uint32(lenData[:4])))
	if fieldLen <= 0 {
		return nil, fmt.Errorf("bad field name length %d", fieldLen)
	}

	_, namesData, err := r.element()
	if err != nil {
		return nil, fmt.Errorf("field names: %w", err)
	}
	count := len(namesData) / fieldLen
	names := make([]string, count)
	for i := range names {
		raw := namesData[i*fieldLen : (i+1)*fieldLen]
		names[i] = strings.TrimRight(string(raw), "\x00")
	}

	node := &Node{Class: ClassStruct, Dims: dims}
	n := numel(dims)
	for el := 0; el < n; el++ {
		for _, name := range names {
			dataType, payload, err := r.element()
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			if dataType != miMATRIX {
				return nil, fmt.Errorf("field %q has type %d, want matrix", name, dataType)
			}
			field, err := parseMatrix(payload, order)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			// Later struct-array elements do not overwrite the first;
			// the engine's results are scalar structs in practice.
			if _, exists := node.Field(name); !exists {
				node.setField(name, field.node)
			}
		}
	}
	return node, nil
}

func decodeNumbers(dataType uint32, data []byte, order binary.ByteOrder) ([]float64, error) {
	switch dataType {
	case miDOUBLE:
		out := make([]float64, len(data)/8)
		for i := range out {
			out[i] = math.Float64frombits(order.Uint64(data[i*8 : i*8+8]))
		}
		return out, nil
	case miSINGLE:
		out := make([]float64, len(data)/4)
		for i := range out {
			out[i] = float64(math.Float32frombits(order.Uint32(data[i*4 : i*4+4])))
		}
		return out, nil
	case miINT8:
		out := make([]float64, len(data))
		for i := range out {
			out[i] = float64(int8(data[i]))
		}
		return out, nil
	case miUINT8:
		out := make([]float64, len(data))
		for i := range out {
			out[i] = float64(data[i])
		}
		return out, nil
	case miINT16:
		out := make([]float64, len(data)/2)
		for i := range out {
			out[i] = float64(int16(order.Uint16(data[i*2 : i*2+2])))
		}
		return out, nil
	case miUINT16:
		out := make([]float64, len(data)/2)
		for i := range out {
			out[i] = float64(order.Uint16(data[i*2 : i*2+2]))
		}
		return out, nil
	case miINT32:
		out := make([]float64, len(data)/4)
		for i := range out {
			out[i] = float64(int32(order.Uint32(data[i*4 : i*4+4])))
		}
		return out, nil
	case miUINT32:
		out := make([]float64, len(data)/4)
		for i := range out {
			out[i] = float64(order.Uint32(data[i*4 : i*4+4]))
		}
		return out, nil
	case miINT64:
		out := make([]float64, len(data)/8)
		for i := range out {
			out[i] = float64(int64(order.Uint64(data[i*8 : i*8+8])))
		}
		return out, nil
	case miUINT64:
		out := make([]float64, len(data)/8)
		for i := range out {
			out[i] = float64(order.Uint64(data[i*8 : i*8+8]))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("numeric data has unsupported type %d", dataType)
	}
}

func numel(dims []int) int {
	n := 1
	for _, d := range dims {
		if d <= 0 {
			return 0
		}
		n *= d
	}
	return n
}
