// Package policy enforces write policies through a pluggable adapter.
// The default adapter guards against a billy.Filesystem; tests inject
// recording fakes to make the executor observable without I/O.
package policy

import (
	"fmt"

	"github.com/aware-network/aware-kernel/internal/plan"
)

// AlreadyExistsError reports a write_once guard violation: the target
// exists and the write was not forced.
type AlreadyExistsError struct {
	Path string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("target already exists: %s", e.Path)
}

// HookResult is one hook invocation log destined for the receipt.
type HookResult struct {
	Name   string
	Path   string
	Status string
	Error  string
}

// Hook statuses recorded in receipts. Hook failures are advisory: they
// are captured, not propagated.
const (
	HookOK     = "ok"
	HookFailed = "failed"
)

// Adapter guards each instruction against policy violations, builds the
// receipt entry handed to hooks, and runs post-write hooks.
type Adapter interface {
	// GuardCreate fails with *AlreadyExistsError when the target exists
	// and force is false.
	GuardCreate(path string, force bool) error
	// GuardAppend runs before any byte of an append_entry target is
	// written. The default adapter never rejects.
	GuardAppend(path string) error
	// GuardModify runs before any byte of a modifiable target is
	// written. The default adapter never rejects.
	GuardModify(path string) error
	// BuildReceiptEntry assembles the entry passed to RunHooks.
	BuildReceiptEntry(action, path string, metadata map[string]any) map[string]any
	// RunHooks invokes post-write hooks with the receipt entry and
	// returns their invocation logs.
	RunHooks(entry map[string]any) []HookResult
}

// Provider selects the active adapter for one instruction.
type Provider func(instr plan.Instruction) Adapter
