// Package plan defines the operation-plan data model: an inert,
// declarative description of one logical mutation. Constructing a plan
// has zero side effects; plans are immutable once built and may be
// shared freely across goroutines before application.
package plan

import (
	"time"

	"github.com/aware-network/aware-kernel/api"
)

// Context identifies the call that produced a plan. It is attached
// verbatim to the resulting receipt for traceability.
type Context struct {
	ObjectType string            `json:"object_type"`
	Function   string            `json:"function"`
	Selectors  map[string]string `json:"selectors"`
}

// Instruction is the sealed set of plan instruction kinds. The executor
// matches exhaustively on the four concrete types.
type Instruction interface {
	instruction()
}

// Ensure declares a directory that must exist before writes or moves
// targeting it.
type Ensure struct {
	Path string `json:"path"`
}

// Write persists full content to a target path under a write policy.
type Write struct {
	Path         string         `json:"path"`
	Content      string         `json:"content"`
	Policy       api.Policy     `json:"policy"`
	Event        string         `json:"event"`
	DocType      string         `json:"doc_type"`
	Timestamp    time.Time      `json:"timestamp"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	HookMetadata map[string]any `json:"hook_metadata,omitempty"`
	// Force overrides the write_once guard. Setting it is an explicit,
	// auditable choice by the caller.
	Force bool `json:"force,omitempty"`
}

// Move relocates a file. The destination parent is created on demand;
// an existing destination fails the move unless Overwrite is set.
type Move struct {
	Src       string `json:"src"`
	Dest      string `json:"dest"`
	Overwrite bool   `json:"overwrite,omitempty"`
}

// Patch carries a unified diff against the target's current contents.
// Patches are produced only when content actually changed (see BuildPatch).
type Patch struct {
	Path         string         `json:"path"`
	Diff         string         `json:"diff"`
	Policy       api.Policy     `json:"policy"`
	DocType      string         `json:"doc_type"`
	Timestamp    time.Time      `json:"timestamp"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	HookMetadata map[string]any `json:"hook_metadata,omitempty"`
	Summary      string         `json:"summary,omitempty"`
	Event        string         `json:"event,omitempty"`
}

func (Ensure) instruction() {}
func (Write) instruction()  {}
func (Move) instruction()   {}
func (Patch) instruction()  {}

// Plan is one operation context plus four ordered instruction groups.
// The executor applies groups in this fixed order: ensures, writes,
// moves, patches. A plan with empty groups is valid and a no-op.
type Plan struct {
	Context Context  `json:"context"`
	Ensures []Ensure `json:"ensures,omitempty"`
	Writes  []Write  `json:"writes,omitempty"`
	Moves   []Move   `json:"moves,omitempty"`
	Patches []Patch  `json:"patches,omitempty"`
}

// Empty reports whether the plan carries no instructions.
func (p *Plan) Empty() bool {
	return len(p.Ensures) == 0 && len(p.Writes) == 0 && len(p.Moves) == 0 && len(p.Patches) == 0
}

// Result is the distinguished handler return carrying a plan together
// with a caller-facing payload. Handlers that only need the plan return
// *Plan directly.
type Result struct {
	Plan    *Plan
	Payload any
}
