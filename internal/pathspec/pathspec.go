// Package pathspec turns abstract path specifications plus caller-supplied
// selector values into concrete filesystem paths, and seeds initial
// document trees from spec templates.
package pathspec

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Visibility controls which root a spec resolves under.
type Visibility string

const (
	// Public specs resolve under the caller's root.
	Public Visibility = "public"
	// Private specs resolve under the private root when one is supplied.
	Private Visibility = "private"
)

// Spec is a reusable, parametrized description of where a document
// family lives. Each segment is either a literal or contains
// {selector} placeholders. A placeholder that resolves to an empty
// string collapses its segment out of the final path, which is how
// optional buckets like "_pending" are modeled.
type Spec struct {
	ID         string         `json:"id"`
	Segments   []string       `json:"segments"`
	Visibility Visibility     `json:"visibility,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Template returns the seed template from the spec metadata, if any.
func (s Spec) Template() (string, bool) {
	if s.Metadata == nil {
		return "", false
	}
	tmpl, ok := s.Metadata["template"].(string)
	return tmpl, ok && tmpl != ""
}

// ResolutionError reports a placeholder with no matching selector.
type ResolutionError struct {
	SpecID      string
	Placeholder string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("pathspec %s: no selector for placeholder {%s}", e.SpecID, e.Placeholder)
}

var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// Resolve substitutes selector values into the spec's segments and joins
// the result under root. Private specs join under privateRoot instead,
// falling back to root when privateRoot is empty. Every placeholder must
// have a matching selector key or resolution fails with *ResolutionError.
func Resolve(spec Spec, selectors map[string]string, root, privateRoot string) (string, error) {
	base := root
	if spec.Visibility == Private && privateRoot != "" {
		base = privateRoot
	}

	parts := []string{base}
	for _, segment := range spec.Segments {
		expanded, err := expandSegment(spec.ID, segment, selectors)
		if err != nil {
			return "", err
		}
		if expanded == "" {
			continue
		}
		parts = append(parts, expanded)
	}
	return filepath.Join(parts...), nil
}

// expandSegment replaces every {selector} occurrence in segment. A
// segment that was pure placeholder and resolved empty is dropped by the
// caller; a literal segment passes through unchanged.
func expandSegment(specID, segment string, selectors map[string]string) (string, error) {
	var missing string
	expanded := placeholderPattern.ReplaceAllStringFunc(segment, func(match string) string {
		key := strings.Trim(match, "{}")
		value, ok := selectors[key]
		if !ok {
			if missing == "" {
				missing = key
			}
			return match
		}
		return value
	})
	if missing != "" {
		return "", &ResolutionError{SpecID: specID, Placeholder: missing}
	}
	return expanded, nil
}
