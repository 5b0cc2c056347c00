package policy

import (
	billy "github.com/go-git/go-billy/v5"

	"github.com/aware-network/aware-kernel/internal/plan"
)

// Hook is a named post-write side effect invoked with receipt metadata.
type Hook struct {
	Name string
	Fn   func(entry map[string]any) error
}

// FSAdapter is the default Adapter, guarding against a billy.Filesystem.
type FSAdapter struct {
	fsys  billy.Filesystem
	hooks []Hook
}

// NewFSAdapter builds the default adapter over fsys with optional
// post-write hooks.
func NewFSAdapter(fsys billy.Filesystem, hooks ...Hook) *FSAdapter {
	return &FSAdapter{fsys: fsys, hooks: hooks}
}

func (a *FSAdapter) GuardCreate(path string, force bool) error {
	if force {
		return nil
	}
	if _, err := a.fsys.Stat(path); err == nil {
		return &AlreadyExistsError{Path: path}
	}
	return nil
}

func (a *FSAdapter) GuardAppend(path string) error { return nil }

func (a *FSAdapter) GuardModify(path string) error { return nil }

func (a *FSAdapter) BuildReceiptEntry(action, path string, metadata map[string]any) map[string]any {
	meta := make(map[string]any, len(metadata))
	for k, v := range metadata {
		meta[k] = v
	}
	return map[string]any{
		"action":   action,
		"path":     path,
		"metadata": meta,
	}
}

func (a *FSAdapter) RunHooks(entry map[string]any) []HookResult {
	if len(a.hooks) == 0 {
		return nil
	}
	path, _ := entry["path"].(string)
	results := make([]HookResult, 0, len(a.hooks))
	for _, hook := range a.hooks {
		result := HookResult{Name: hook.Name, Path: path, Status: HookOK}
		if err := hook.Fn(entry); err != nil {
			result.Status = HookFailed
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results
}

// DefaultProvider returns a Provider that hands every instruction the
// same FSAdapter. The adapter is constructed per call rather than held
// in package state, so concurrent callers never share hidden defaults.
func DefaultProvider(fsys billy.Filesystem, hooks ...Hook) Provider {
	adapter := NewFSAdapter(fsys, hooks...)
	return func(plan.Instruction) Adapter { return adapter }
}

var _ Adapter = (*FSAdapter)(nil)
