package pathspec

import (
	"fmt"
	"os"
	"path/filepath"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Seed walks specs and writes each spec's template payload to its
// resolved path when the target does not already exist. Selectors are
// merged from global first, then the per-spec map keyed by spec ID.
// Private specs resolve under privateRoot, like Resolve. Specs without
// a template are skipped. Returns the paths written.
func Seed(fsys billy.Filesystem, specs []Spec, root, privateRoot string, global map[string]string, perSpec map[string]map[string]string) ([]string, error) {
	var seeded []string
	for _, spec := range specs {
		tmpl, ok := spec.Template()
		if !ok {
			continue
		}

		selectors := make(map[string]string, len(global))
		for k, v := range global {
			selectors[k] = v
		}
		for k, v := range perSpec[spec.ID] {
			selectors[k] = v
		}

		target, err := Resolve(spec, selectors, root, privateRoot)
		if err != nil {
			return seeded, err
		}

		if _, err := fsys.Stat(target); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return seeded, fmt.Errorf("stat %s: %w", target, err)
		}

		if err := fsys.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return seeded, fmt.Errorf("ensure parent of %s: %w", target, err)
		}
		if err := util.WriteFile(fsys, target, []byte(tmpl), 0o644); err != nil {
			return seeded, fmt.Errorf("seed %s: %w", target, err)
		}
		seeded = append(seeded, target)
	}
	return seeded, nil
}
