package plan

import (
	"fmt"
	"strings"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/aware-network/aware-kernel/api"
)

// PatchRequest describes the inputs to BuildPatch.
type PatchRequest struct {
	Path      string
	Original  string
	Updated   string
	DocType   string
	Timestamp time.Time
	Policy    api.Policy
	Metadata  map[string]any
	Summary   string
	Event     string
}

// BuildPatch computes a unified diff between the original and updated
// text and wraps it in a Patch instruction. Identical texts return
// (nil, "", nil) so callers can skip emitting an instruction: re-submitting
// unchanged content is always a safe no-op, never a spurious write.
func BuildPatch(req PatchRequest) (*Patch, string, error) {
	if req.Original == req.Updated {
		return nil, "", nil
	}

	diff := difflib.UnifiedDiff{
		A:        splitLines(req.Original),
		B:        splitLines(req.Updated),
		FromFile: req.Path,
		ToFile:   req.Path,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return nil, "", fmt.Errorf("diff %s: %w", req.Path, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, "", nil
	}

	event := req.Event
	if event == "" {
		event = api.EventModified
	}
	hookMetadata := map[string]any{}
	if req.Summary != "" {
		hookMetadata["summary"] = req.Summary
	}

	instruction := &Patch{
		Path:         req.Path,
		Diff:         text,
		Policy:       req.Policy,
		DocType:      req.DocType,
		Timestamp:    req.Timestamp,
		Metadata:     cloneMeta(req.Metadata),
		HookMetadata: hookMetadata,
		Summary:      req.Summary,
		Event:        event,
	}
	return instruction, text, nil
}

// splitLines splits text into newline-terminated lines without the
// phantom trailing element difflib.SplitLines adds. The hunk counts in
// the emitted diff must match the real line counts or downstream
// appliers reject the fragment.
func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func cloneMeta(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
