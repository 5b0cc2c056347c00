package plan

import (
	"encoding/json"
	"fmt"
)

// Marshal serializes a plan to an indented JSON document.
func Marshal(p *Plan) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}
	return append(data, '\n'), nil
}

// Unmarshal decodes a plan document and validates its write policies.
func Unmarshal(data []byte) (*Plan, error) {
	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal plan: %w", err)
	}
	for _, w := range p.Writes {
		if !w.Policy.Valid() {
			return nil, fmt.Errorf("write %s: unknown policy %q", w.Path, w.Policy)
		}
	}
	for _, pt := range p.Patches {
		if !pt.Policy.Valid() {
			return nil, fmt.Errorf("patch %s: unknown policy %q", pt.Path, pt.Policy)
		}
	}
	return &p, nil
}
