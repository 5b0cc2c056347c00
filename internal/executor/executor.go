// Package executor applies operation plans to durable storage through
// the active policy adapter, producing receipts.
//
// Instructions within one plan are applied independently in a fixed
// group order: ensures, writes, moves, patches. A guard failure aborts
// the remainder of the plan without rolling back instructions already
// applied; callers that need atomicity must order irrecoverable
// instructions first or treat partial application as an
// idempotent-retry scenario.
package executor

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/zeebo/blake3"

	"github.com/aware-network/aware-kernel/api"
	"github.com/aware-network/aware-kernel/internal/plan"
	"github.com/aware-network/aware-kernel/internal/policy"
	"github.com/aware-network/aware-kernel/internal/receipt"
)

// Options configure one Apply call.
type Options struct {
	// DryRun previews the plan: no filesystem mutation, receipt with
	// zero fs_ops.
	DryRun bool
	// Provider selects the policy adapter per instruction. Defaults to
	// policy.DefaultProvider over the target filesystem.
	Provider policy.Provider
}

// Option mutates Options.
type Option func(*Options)

// DryRun enables preview mode.
func DryRun() Option {
	return func(o *Options) { o.DryRun = true }
}

// WithProvider overrides the policy adapter provider.
func WithProvider(p policy.Provider) Option {
	return func(o *Options) { o.Provider = p }
}

// Apply executes the plan's instructions against fsys and returns the
// receipt. On failure the receipt returned alongside the error reflects
// everything applied before the failing instruction.
func Apply(fsys billy.Filesystem, p *plan.Plan, opts ...Option) (*receipt.Receipt, error) {
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Provider == nil {
		options.Provider = policy.DefaultProvider(fsys)
	}

	rec := receipt.New(p.Context)
	if options.DryRun {
		return rec, nil
	}

	// 1. Ensures
	for _, ins := range p.Ensures {
		if err := fsys.MkdirAll(ins.Path, 0o755); err != nil {
			return rec, fmt.Errorf("ensure %s: %w", ins.Path, err)
		}
		rec.FsOps = append(rec.FsOps, receipt.EnsureOp{Path: ins.Path})
	}

	// 2. Writes
	for _, ins := range p.Writes {
		adapter := options.Provider(ins)
		if err := guard(rec, adapter, ins.Policy, ins.Path, ins.Force); err != nil {
			return rec, err
		}
		if err := util.WriteFile(fsys, ins.Path, []byte(ins.Content), 0o644); err != nil {
			return rec, fmt.Errorf("write %s: %w", ins.Path, err)
		}
		rec.FsOps = append(rec.FsOps, receipt.WriteOp{
			Path:         ins.Path,
			Event:        ins.Event,
			Policy:       ins.Policy,
			DocType:      ins.DocType,
			ContentHash:  contentHash([]byte(ins.Content)),
			Metadata:     ins.Metadata,
			HookMetadata: ins.HookMetadata,
			Timestamp:    ins.Timestamp,
		})
		runHooks(rec, adapter, api.OpWrite, ins.Path, ins.HookMetadata)
	}

	// 3. Moves
	for _, ins := range p.Moves {
		if dir := filepath.Dir(ins.Dest); dir != "." {
			if err := fsys.MkdirAll(dir, 0o755); err != nil {
				return rec, fmt.Errorf("ensure parent of %s: %w", ins.Dest, err)
			}
		}
		if !ins.Overwrite {
			if _, err := fsys.Stat(ins.Dest); err == nil {
				return rec, fmt.Errorf("move %s: %w", ins.Src, &policy.AlreadyExistsError{Path: ins.Dest})
			}
		}
		if err := fsys.Rename(ins.Src, ins.Dest); err != nil {
			return rec, fmt.Errorf("move %s to %s: %w", ins.Src, ins.Dest, err)
		}
		rec.FsOps = append(rec.FsOps, receipt.MoveOp{Src: ins.Src, Dest: ins.Dest, Overwrite: ins.Overwrite})
	}

	// 4. Patches
	for _, ins := range p.Patches {
		adapter := options.Provider(ins)
		if err := guard(rec, adapter, ins.Policy, ins.Path, false); err != nil {
			return rec, err
		}

		current, err := util.ReadFile(fsys, ins.Path)
		if err != nil && !os.IsNotExist(err) {
			return rec, fmt.Errorf("read %s: %w", ins.Path, err)
		}

		var merged []byte
		if ins.Policy == api.PolicyAppendEntry {
			merged = appendDiff(current, ins.Diff)
		} else {
			merged, err = applyDiff(current, ins.Diff)
			if err != nil {
				return rec, fmt.Errorf("patch %s: %w", ins.Path, err)
			}
		}
		if err := util.WriteFile(fsys, ins.Path, merged, 0o644); err != nil {
			return rec, fmt.Errorf("patch %s: %w", ins.Path, err)
		}

		event := ins.Event
		if event == "" {
			event = api.EventModified
			if ins.Policy == api.PolicyAppendEntry {
				event = api.EventAppended
			}
		}
		rec.FsOps = append(rec.FsOps, receipt.WriteOp{
			Path:         ins.Path,
			Event:        event,
			Policy:       ins.Policy,
			DocType:      ins.DocType,
			ContentHash:  contentHash(merged),
			Metadata:     ins.Metadata,
			HookMetadata: ins.HookMetadata,
			Timestamp:    ins.Timestamp,
		})
		runHooks(rec, adapter, api.OpWrite, ins.Path, ins.HookMetadata)
	}

	return rec, nil
}

// guard dispatches the policy guard matching the instruction's write
// policy and records the decision, successful or denied.
func guard(rec *receipt.Receipt, adapter policy.Adapter, pol api.Policy, path string, force bool) error {
	var action string
	var err error
	switch pol {
	case api.PolicyWriteOnce:
		action, err = "create", adapter.GuardCreate(path, force)
	case api.PolicyAppendEntry:
		action, err = "append", adapter.GuardAppend(path)
	case api.PolicyModifiable:
		action, err = "modify", adapter.GuardModify(path)
	default:
		return fmt.Errorf("unknown write policy %q for %s", pol, path)
	}

	decision := receipt.Decision{Path: path, Action: action, Policy: pol, Result: receipt.DecisionOK}
	if err != nil {
		decision.Result = receipt.DecisionDenied
		decision.Message = err.Error()
		rec.PolicyDecisions = append(rec.PolicyDecisions, decision)
		return fmt.Errorf("guard %s %s: %w", action, path, err)
	}
	rec.PolicyDecisions = append(rec.PolicyDecisions, decision)
	return nil
}

func runHooks(rec *receipt.Receipt, adapter policy.Adapter, action, path string, hookMetadata map[string]any) {
	entry := adapter.BuildReceiptEntry(action, path, hookMetadata)
	for _, result := range adapter.RunHooks(entry) {
		rec.Hooks = append(rec.Hooks, receipt.HookLog(result))
	}
}

func contentHash(content []byte) string {
	sum := blake3.Sum256(content)
	return "blake3:" + hex.EncodeToString(sum[:])
}
