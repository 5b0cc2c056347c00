// Package api defines the wire-level contracts of the aware kernel:
// write-policy values, lifecycle event labels, and the schema tags on
// receipt/journal documents. These strings are persisted and transmitted
// to external consumers (CLI, release pipeline, indexers) and must not
// be renamed without a migration.
package api

// Policy is the conflict-resolution strategy attached to a mutation.
type Policy string

const (
	// PolicyWriteOnce creates the target and fails if it already
	// exists, unless the write is explicitly forced.
	PolicyWriteOnce Policy = "write_once"
	// PolicyModifiable creates or overwrites the target with no
	// history requirement.
	PolicyModifiable Policy = "modifiable"
	// PolicyAppendEntry treats the target as an append-only log; new
	// content is merged with existing content via diff, never a
	// wholesale replacement.
	PolicyAppendEntry Policy = "append_entry"
)

// Valid reports whether p is one of the known policy values.
func (p Policy) Valid() bool {
	switch p {
	case PolicyWriteOnce, PolicyModifiable, PolicyAppendEntry:
		return true
	}
	return false
}

// Lifecycle event labels carried on write operations.
const (
	EventCreated   = "created"
	EventModified  = "modified"
	EventAppended  = "appended"
	EventUnchanged = "unchanged"
)

// ReceiptSchema tags every receipt document emitted by the plan executor.
const ReceiptSchema = "aware.kernel/receipt/v1"

// JournalAction is the action label on journal entries derived from
// apply-plan receipts.
const JournalAction = "apply-plan"

// Filesystem operation type tags used in receipt fs_ops entries.
const (
	OpEnsure = "ensure"
	OpWrite  = "write"
	OpMove   = "move"
)
