package roadmap

import (
	"encoding/json"
	"fmt"
)

// Decode parses a roadmap document. Missing feature and task lists are
// normalized to empty lists so the document always re-encodes with arrays.
func Decode(data []byte) (*Roadmap, error) {
	var r Roadmap
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding roadmap: %w", err)
	}
	r.normalize()
	return &r, nil
}

// Encode renders the document with two-space indentation and a trailing newline.
func Encode(r *Roadmap) ([]byte, error) {
	r.normalize()
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding roadmap: %w", err)
	}
	return append(data, '\n'), nil
}

func (r *Roadmap) normalize() {
	if r.Features == nil {
		r.Features = []Feature{}
	}
	for i := range r.Features {
		if r.Features[i].Tasks == nil {
			r.Features[i].Tasks = []Task{}
		}
	}
}
