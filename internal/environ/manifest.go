// Package environ loads declarative environment manifests: HCL files
// that declare object types and the path specifications their document
// families live under.
package environ

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/aware-network/aware-kernel/internal/pathspec"
)

// Manifest is the root of an environment declaration.
type Manifest struct {
	Objects []ObjectBlock `hcl:"object,block"`
}

// ObjectBlock declares one object type.
type ObjectBlock struct {
	Type        string          `hcl:"type,label"`
	Description string          `hcl:"description,optional"`
	PathSpecs   []PathSpecBlock `hcl:"pathspec,block"`
}

// PathSpecBlock declares one path specification.
type PathSpecBlock struct {
	ID         string   `hcl:"id,label"`
	Segments   []string `hcl:"segments"`
	Visibility string   `hcl:"visibility,optional"`
	Template   string   `hcl:"template,optional"`
	Selectors  []string `hcl:"selectors,optional"`
}

// Load parses a manifest file from disk.
func Load(path string) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse manifest %s: %s", path, diags.Error())
	}

	var manifest Manifest
	if diags := gohcl.DecodeBody(file.Body, nil, &manifest); diags.HasErrors() {
		return nil, fmt.Errorf("decode manifest %s: %s", path, diags.Error())
	}
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// LoadBytes parses an in-memory manifest, used by tests and embedded
// defaults.
func LoadBytes(src []byte, filename string) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse manifest %s: %s", filename, diags.Error())
	}

	var manifest Manifest
	if diags := gohcl.DecodeBody(file.Body, nil, &manifest); diags.HasErrors() {
		return nil, fmt.Errorf("decode manifest %s: %s", filename, diags.Error())
	}
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return &manifest, nil
}

func (m *Manifest) validate() error {
	seenObjects := map[string]bool{}
	for _, obj := range m.Objects {
		if seenObjects[obj.Type] {
			return fmt.Errorf("duplicate object type %q", obj.Type)
		}
		seenObjects[obj.Type] = true

		seenSpecs := map[string]bool{}
		for _, ps := range obj.PathSpecs {
			if seenSpecs[ps.ID] {
				return fmt.Errorf("object %q: duplicate pathspec %q", obj.Type, ps.ID)
			}
			seenSpecs[ps.ID] = true
			if len(ps.Segments) == 0 {
				return fmt.Errorf("object %q: pathspec %q has no segments", obj.Type, ps.ID)
			}
			switch ps.Visibility {
			case "", string(pathspec.Public), string(pathspec.Private):
			default:
				return fmt.Errorf("object %q: pathspec %q: unknown visibility %q", obj.Type, ps.ID, ps.Visibility)
			}
		}
	}
	return nil
}

// PathSpecs converts an object block's declarations into resolver specs.
func (o ObjectBlock) Specs() []pathspec.Spec {
	specs := make([]pathspec.Spec, 0, len(o.PathSpecs))
	for _, block := range o.PathSpecs {
		visibility := pathspec.Public
		if block.Visibility == string(pathspec.Private) {
			visibility = pathspec.Private
		}
		metadata := map[string]any{}
		if block.Template != "" {
			metadata["template"] = block.Template
		}
		if len(block.Selectors) > 0 {
			metadata["selectors"] = block.Selectors
		}
		specs = append(specs, pathspec.Spec{
			ID:         block.ID,
			Segments:   block.Segments,
			Visibility: visibility,
			Metadata:   metadata,
		})
	}
	return specs
}

// AllSpecs flattens every object's path specifications.
func (m *Manifest) AllSpecs() []pathspec.Spec {
	var specs []pathspec.Spec
	for _, obj := range m.Objects {
		specs = append(specs, obj.Specs()...)
	}
	return specs
}
