// Package receipt models the audit record produced by applying a plan
// and serializes it into the receipt/journal wire shapes.
package receipt

import (
	"time"

	"github.com/aware-network/aware-kernel/api"
	"github.com/aware-network/aware-kernel/internal/plan"
)

// Op is the sealed set of applied filesystem operations recorded in a
// receipt. RawOp carries foreign op shapes through the serializer
// untouched so future op kinds do not break older consumers.
type Op interface {
	op()
}

// EnsureOp records a directory-ensure.
type EnsureOp struct {
	Path     string
	Metadata map[string]any
}

// WriteOp records a content write, including the patch-derived ones.
type WriteOp struct {
	Path         string
	Event        string
	Policy       api.Policy
	DocType      string
	ContentHash  string
	Metadata     map[string]any
	HookMetadata map[string]any
	Timestamp    time.Time
}

// MoveOp records a file relocation.
type MoveOp struct {
	Src       string
	Dest      string
	Overwrite bool
	Metadata  map[string]any
}

// RawOp is an already-serialized op passed through verbatim.
type RawOp map[string]any

func (EnsureOp) op() {}
func (WriteOp) op()  {}
func (MoveOp) op()   {}
func (RawOp) op()    {}

// Decision records one policy guard outcome, successful or not.
type Decision struct {
	Path    string
	Action  string
	Policy  api.Policy
	Result  string
	Message string
}

// Guard decision results.
const (
	DecisionOK     = "ok"
	DecisionDenied = "denied"
)

// HookLog records one hook invocation.
type HookLog struct {
	Name   string
	Path   string
	Status string
	Error  string
}

// Receipt is the immutable audit record for one apply call. The engine
// does not store receipts; they persist only as long as the caller
// retains them.
type Receipt struct {
	Schema          string
	Timestamp       time.Time
	Context         plan.Context
	FsOps           []Op
	PolicyDecisions []Decision
	Hooks           []HookLog
}

// New returns an empty receipt for the given context, stamped now.
func New(ctx plan.Context) *Receipt {
	return &Receipt{
		Schema:    api.ReceiptSchema,
		Timestamp: time.Now().UTC(),
		Context:   ctx,
	}
}
