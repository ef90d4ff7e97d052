// Package matfile reads the binary result containers the ShorelineS engine
// persists. A container carries the model state under S, the model output
// under O, and housekeeping metadata (header text, version, global
// variable names). Only the container subset the engine writes is parsed;
// the format itself is owned by the engine.
package matfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Metadata is the container's housekeeping information.
type Metadata struct {
	// Header is the container's descriptive header text, decoded as UTF-8.
	// Empty when the container carries none.
	Header string

	// Version is the container format version tag.
	Version string

	// Globals lists the names of variables stored with the global flag.
	Globals []string
}

// Record is a parsed result container.
type Record struct {
	// ModelState is the S struct: the input settings echoed by the model.
	ModelState *Node

	// Output is the O struct: the model's output results.
	Output *Node

	// Metadata holds the container's housekeeping fields.
	Metadata Metadata
}

// Top-level container variable names.
const (
	stateName  = "S"
	outputName = "O"
)

// Load reads and parses a result container from path. A missing path is
// reported as an fs.ErrNotExist-wrapping error before any parsing is
// attempted. Missing S or O variables default to empty nodes.
func Load(path string) (*Record, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("result container not found: %s: %w", path, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("stat result container: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read result container: %w", err)
	}

	return Parse(data)
}

// Parse parses an in-memory result container.
func Parse(data []byte) (*Record, error) {
	header, elements, err := parseContainer(data)
	if err != nil {
		return nil, fmt.Errorf("parse result container: %w", err)
	}

	rec := &Record{
		ModelState: &Node{Class: ClassEmpty},
		Output:     &Node{Class: ClassEmpty},
		Metadata: Metadata{
			Header:  header,
			Version: "1.0",
		},
	}

	for _, el := range elements {
		if el.global {
			rec.Metadata.Globals = append(rec.Metadata.Globals, el.name)
		}
		switch el.name {
		case stateName:
			rec.ModelState = el.node
		case outputName:
			rec.Output = el.node
		}
	}

	return rec, nil
}
