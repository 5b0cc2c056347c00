package runtime

import (
	"fmt"

	billy "github.com/go-git/go-billy/v5"

	"github.com/aware-network/aware-kernel/internal/executor"
	"github.com/aware-network/aware-kernel/internal/plan"
	"github.com/aware-network/aware-kernel/internal/policy"
	"github.com/aware-network/aware-kernel/internal/receipt"
)

// Request names the object, function, selectors, and arguments of one
// function call.
type Request struct {
	ObjectType   string
	FunctionName string
	Selectors    map[string]string
	Arguments    map[string]any
}

// CallResult folds the handler payload with the receipts and journal
// entries produced when the handler returned an operation plan.
type CallResult struct {
	Payload   any
	Receipts  []map[string]any
	Journal   []map[string]any
	RuleIDs   []string
	Selectors map[string]string
}

// Executor is the outward-facing entry point of the kernel: it invokes
// bound handlers and routes plan results through the plan executor.
type Executor struct {
	env      *Environment
	fsys     billy.Filesystem
	provider policy.Provider
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithPolicyProvider overrides the default per-call policy adapter.
func WithPolicyProvider(p policy.Provider) ExecutorOption {
	return func(x *Executor) { x.provider = p }
}

// NewExecutor builds an executor applying plans to fsys.
func NewExecutor(env *Environment, fsys billy.Filesystem, opts ...ExecutorOption) *Executor {
	x := &Executor{env: env, fsys: fsys}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Execute resolves the function binding, invokes the handler, and, when
// the handler produced an operation plan, applies it and folds the
// resulting receipt and journal entry into the call result. Plain
// handler return values pass through as the payload untouched.
//
// On apply failure the partial receipt is still folded in before the
// error is returned, so partial application stays observable.
func (x *Executor) Execute(req Request) (*CallResult, error) {
	fn, err := x.env.Function(req.ObjectType, req.FunctionName)
	if err != nil {
		return nil, err
	}

	out, err := fn.Handler(req.Arguments)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", req.ObjectType, req.FunctionName, err)
	}

	result := &CallResult{
		Receipts:  []map[string]any{},
		Journal:   []map[string]any{},
		RuleIDs:   fn.RuleIDs,
		Selectors: req.Selectors,
	}

	var produced *plan.Plan
	switch v := out.(type) {
	case *plan.Plan:
		produced = v
	case plan.Result:
		produced = v.Plan
		result.Payload = v.Payload
	case *plan.Result:
		produced = v.Plan
		result.Payload = v.Payload
	default:
		result.Payload = v
		return result, nil
	}
	if produced == nil {
		return result, nil
	}

	opts := []executor.Option{}
	if x.provider != nil {
		opts = append(opts, executor.WithProvider(x.provider))
	}
	rec, applyErr := executor.Apply(x.fsys, produced, opts...)
	if rec != nil {
		dict := receipt.ToDict(rec)
		result.Receipts = append(result.Receipts, dict)
		result.Journal = append(result.Journal, receipt.ToJournalEntry(dict))
	}
	if applyErr != nil {
		return result, fmt.Errorf("%s.%s: %w", req.ObjectType, req.FunctionName, applyErr)
	}
	return result, nil
}
