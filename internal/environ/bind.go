package environ

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/aware-network/aware-kernel/api"
	"github.com/aware-network/aware-kernel/internal/pathspec"
	"github.com/aware-network/aware-kernel/internal/plan"
	"github.com/aware-network/aware-kernel/internal/runtime"
)

// Bind registers every manifest object in env with the built-in
// write_document function: a thin plan producer that resolves one of
// the object's pathspecs and emits an ensure-parent plus a single write.
// Richer handlers are bound in code; this is the generic surface the
// serve command exposes.
func Bind(env *runtime.Environment, m *Manifest, root, privateRoot string) error {
	for _, obj := range m.Objects {
		obj := obj
		specs := obj.Specs()
		spec := runtime.ObjectSpec{
			Type:        obj.Type,
			Description: obj.Description,
			PathSpecs:   specs,
			Functions: []runtime.FunctionSpec{
				{
					Name:    "write_document",
					Handler: writeDocumentHandler(obj.Type, specs, root, privateRoot),
				},
			},
		}
		if err := env.Bind(spec); err != nil {
			return err
		}
	}
	return nil
}

// writeDocumentHandler builds the generic document-write plan producer
// for one object type.
//
// Arguments: pathspec (id), selectors (map), content, doc_type,
// policy (default modifiable), force (bool).
func writeDocumentHandler(objectType string, specs []pathspec.Spec, root, privateRoot string) runtime.Handler {
	byID := make(map[string]pathspec.Spec, len(specs))
	for _, s := range specs {
		byID[s.ID] = s
	}

	return func(args map[string]any) (any, error) {
		specID, _ := args["pathspec"].(string)
		spec, ok := byID[specID]
		if !ok {
			return nil, fmt.Errorf("object %q has no pathspec %q", objectType, specID)
		}

		selectors := stringMap(args["selectors"])
		target, err := pathspec.Resolve(spec, selectors, root, privateRoot)
		if err != nil {
			return nil, err
		}

		content, _ := args["content"].(string)
		docType, _ := args["doc_type"].(string)
		if docType == "" {
			docType = specID
		}
		pol := api.PolicyModifiable
		if raw, _ := args["policy"].(string); raw != "" {
			pol = api.Policy(raw)
			if !pol.Valid() {
				return nil, fmt.Errorf("unknown policy %q", raw)
			}
		}
		force, _ := args["force"].(bool)

		now := time.Now().UTC()
		built := &plan.Plan{
			Context: plan.Context{
				ObjectType: objectType,
				Function:   "write_document",
				Selectors:  selectors,
			},
			Ensures: []plan.Ensure{{Path: filepath.Dir(target)}},
			Writes: []plan.Write{{
				Path:      target,
				Content:   content,
				Policy:    pol,
				Event:     api.EventCreated,
				DocType:   docType,
				Timestamp: now,
				Metadata:  map[string]any{"pathspec": specID},
				Force:     force,
			}},
		}
		return plan.Result{Plan: built, Payload: map[string]any{"path": target, "doc_type": docType}}, nil
	}
}

func stringMap(raw any) map[string]string {
	out := map[string]string{}
	switch v := raw.(type) {
	case map[string]string:
		for k, val := range v {
			out[k] = val
		}
	case map[string]any:
		for k, val := range v {
			if s, ok := val.(string); ok {
				out[k] = s
			}
		}
	}
	return out
}
