// Package runtime binds object registries and executes function calls,
// routing plan-producing handlers through the plan executor.
package runtime

import (
	"fmt"
	"sort"

	"github.com/aware-network/aware-kernel/internal/pathspec"
)

// Handler is the business-logic side of a function binding. Handlers
// are thin plan producers: they return either a plain value, *plan.Plan,
// or plan.Result.
type Handler func(args map[string]any) (any, error)

// FunctionSpec declares one callable function on an object type.
type FunctionSpec struct {
	Name    string
	Handler Handler
	// RuleIDs are declared by the binding and copied verbatim into
	// call results, never computed.
	RuleIDs  []string
	Metadata map[string]any
}

// ObjectSpec declares an object type, its functions, and the path
// specifications its documents live under.
type ObjectSpec struct {
	Type        string
	Description string
	Functions   []FunctionSpec
	PathSpecs   []pathspec.Spec
}

// Environment is the registry of bound object types.
type Environment struct {
	objects map[string]*boundObject
}

type boundObject struct {
	spec      ObjectSpec
	functions map[string]*FunctionSpec
}

// NewEnvironment returns an empty registry.
func NewEnvironment() *Environment {
	return &Environment{objects: map[string]*boundObject{}}
}

// Bind registers object specs. Rebinding an existing type is an error.
func (e *Environment) Bind(specs ...ObjectSpec) error {
	for _, spec := range specs {
		if _, exists := e.objects[spec.Type]; exists {
			return fmt.Errorf("object type %q already bound", spec.Type)
		}
		bound := &boundObject{spec: spec, functions: map[string]*FunctionSpec{}}
		for i := range spec.Functions {
			fn := &spec.Functions[i]
			if _, exists := bound.functions[fn.Name]; exists {
				return fmt.Errorf("object %q: function %q already bound", spec.Type, fn.Name)
			}
			bound.functions[fn.Name] = fn
		}
		e.objects[spec.Type] = bound
	}
	return nil
}

// Object returns the spec for an object type.
func (e *Environment) Object(objectType string) (ObjectSpec, bool) {
	bound, ok := e.objects[objectType]
	if !ok {
		return ObjectSpec{}, false
	}
	return bound.spec, true
}

// Function resolves a function binding on an object type.
func (e *Environment) Function(objectType, name string) (*FunctionSpec, error) {
	bound, ok := e.objects[objectType]
	if !ok {
		return nil, fmt.Errorf("unknown object type %q", objectType)
	}
	fn, ok := bound.functions[name]
	if !ok {
		return nil, fmt.Errorf("object %q has no function %q", objectType, name)
	}
	return fn, nil
}

// ObjectTypes lists bound object types in stable order.
func (e *Environment) ObjectTypes() []string {
	types := make([]string, 0, len(e.objects))
	for t := range e.objects {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// PathSpecs collects every bound object's path specifications, in
// object-type order, for seeding.
func (e *Environment) PathSpecs() []pathspec.Spec {
	var specs []pathspec.Spec
	for _, objectType := range e.ObjectTypes() {
		specs = append(specs, e.objects[objectType].spec.PathSpecs...)
	}
	return specs
}
