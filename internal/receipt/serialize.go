package receipt

import (
	"time"

	"github.com/aware-network/aware-kernel/api"
)

// FormatTimestamp renders t as strict UTC ISO-8601 with a literal Z
// suffix, never +00:00.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ToDict converts a receipt into its JSON-shaped wire form.
func ToDict(r *Receipt) map[string]any {
	selectors := map[string]any{}
	for k, v := range r.Context.Selectors {
		selectors[k] = v
	}

	fsOps := make([]any, 0, len(r.FsOps))
	for _, op := range r.FsOps {
		fsOps = append(fsOps, opToDict(op))
	}

	decisions := make([]any, 0, len(r.PolicyDecisions))
	for _, d := range r.PolicyDecisions {
		decisions = append(decisions, map[string]any{
			"path":    d.Path,
			"action":  d.Action,
			"policy":  string(d.Policy),
			"result":  d.Result,
			"message": d.Message,
		})
	}

	hooks := make([]any, 0, len(r.Hooks))
	for _, h := range r.Hooks {
		hooks = append(hooks, map[string]any{
			"name":   h.Name,
			"path":   h.Path,
			"status": h.Status,
			"error":  h.Error,
		})
	}

	return map[string]any{
		"schema":    r.Schema,
		"timestamp": FormatTimestamp(r.Timestamp),
		"context": map[string]any{
			"object_type": r.Context.ObjectType,
			"function":    r.Context.Function,
			"selectors":   selectors,
		},
		"fs_ops":           fsOps,
		"policy_decisions": decisions,
		"hooks":            hooks,
	}
}

// ToJournalEntry derives a compact journal entry from a receipt dict:
// the write ops only, restricted to {path, event, doc_type, policy},
// for downstream indexing without re-parsing full receipts.
func ToJournalEntry(receiptDict map[string]any) map[string]any {
	context, _ := receiptDict["context"].(map[string]any)
	if context == nil {
		context = map[string]any{}
	}
	selectors, _ := context["selectors"].(map[string]any)
	if selectors == nil {
		selectors = map[string]any{}
	}

	writes := []any{}
	if fsOps, ok := receiptDict["fs_ops"].([]any); ok {
		for _, raw := range fsOps {
			op, ok := raw.(map[string]any)
			if !ok || op["type"] != api.OpWrite {
				continue
			}
			entry := map[string]any{}
			for _, key := range []string{"path", "event", "doc_type", "policy"} {
				if value, ok := op[key]; ok {
					entry[key] = value
				}
			}
			writes = append(writes, entry)
		}
	}

	return map[string]any{
		"action":      api.JournalAction,
		"object_type": context["object_type"],
		"function":    context["function"],
		"selectors":   selectors,
		"writes":      writes,
		"timestamp":   receiptDict["timestamp"],
	}
}

func opToDict(op Op) map[string]any {
	switch o := op.(type) {
	case EnsureOp:
		return map[string]any{
			"type":     api.OpEnsure,
			"path":     o.Path,
			"metadata": mapOrEmpty(o.Metadata),
		}
	case WriteOp:
		var ts any
		if !o.Timestamp.IsZero() {
			ts = FormatTimestamp(o.Timestamp)
		}
		return map[string]any{
			"type":          api.OpWrite,
			"path":          o.Path,
			"event":         o.Event,
			"policy":        string(o.Policy),
			"doc_type":      o.DocType,
			"content_hash":  o.ContentHash,
			"metadata":      mapOrEmpty(o.Metadata),
			"hook_metadata": mapOrEmpty(o.HookMetadata),
			"timestamp":     ts,
		}
	case MoveOp:
		return map[string]any{
			"type":      api.OpMove,
			"src":       o.Src,
			"dest":      o.Dest,
			"overwrite": o.Overwrite,
			"metadata":  mapOrEmpty(o.Metadata),
		}
	case RawOp:
		out := make(map[string]any, len(o))
		for k, v := range o {
			out[k] = v
		}
		return out
	}
	return map[string]any{}
}

func mapOrEmpty(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
