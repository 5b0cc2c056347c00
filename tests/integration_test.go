package tests

import (
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aware-network/aware-kernel/internal/environ"
	"github.com/aware-network/aware-kernel/internal/journal"
	"github.com/aware-network/aware-kernel/internal/pathspec"
	"github.com/aware-network/aware-kernel/internal/policy"
	"github.com/aware-network/aware-kernel/internal/runtime"
)

const manifest = `
object "project" {
  description = "Project documents"

  pathspec "project-overview" {
    segments  = ["docs", "projects", "{project_slug}", "OVERVIEW.md"]
    template  = "# Overview\n"
    selectors = ["project_slug"]
  }

  pathspec "project-notes" {
    segments = ["docs", "projects", "{project_slug}", "notes", "{note_slug}.md"]
  }
}
`

// TestKernelRoundTrip drives the full pipeline: manifest load, tree
// seeding, a plan-producing function call, receipt/journal emission,
// and journal indexing.
func TestKernelRoundTrip(t *testing.T) {
	m, err := environ.LoadBytes([]byte(manifest), "env.hcl")
	require.NoError(t, err)

	fsys := memfs.New()

	// 1. Seed the tree from spec templates.
	seeded, err := pathspec.Seed(fsys, m.AllSpecs(), "/work", "",
		nil, map[string]map[string]string{"project-overview": {"project_slug": "demo"}})
	require.NoError(t, err)
	require.Len(t, seeded, 1)

	// 2. Bind the environment and write a document through a function call.
	env := runtime.NewEnvironment()
	require.NoError(t, environ.Bind(env, m, "/work", ""))
	exec := runtime.NewExecutor(env, fsys)

	result, err := exec.Execute(runtime.Request{
		ObjectType:   "project",
		FunctionName: "write_document",
		Selectors:    map[string]string{"project_slug": "demo", "note_slug": "kickoff"},
		Arguments: map[string]any{
			"pathspec": "project-notes",
			"selectors": map[string]string{
				"project_slug": "demo",
				"note_slug":    "kickoff",
			},
			"content": "kickoff notes\n",
			"policy":  "write_once",
		},
	})
	require.NoError(t, err)

	content, err := util.ReadFile(fsys, "/work/docs/projects/demo/notes/kickoff.md")
	require.NoError(t, err)
	assert.Equal(t, "kickoff notes\n", string(content))

	// 3. A second write_once call against the same path surfaces the
	// conflict instead of silently overwriting.
	_, err = exec.Execute(runtime.Request{
		ObjectType:   "project",
		FunctionName: "write_document",
		Arguments: map[string]any{
			"pathspec": "project-notes",
			"selectors": map[string]string{
				"project_slug": "demo",
				"note_slug":    "kickoff",
			},
			"content": "overwrite attempt\n",
			"policy":  "write_once",
		},
	})
	require.Error(t, err)
	var alreadyExists *policy.AlreadyExistsError
	assert.ErrorAs(t, err, &alreadyExists)

	// 4. Fold the journal into the index and read it back.
	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.Len(t, result.Journal, 1)
	_, err = store.Append(result.Journal[0])
	require.NoError(t, err)

	entries, err := store.ByObject("project", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Writes, 1)
	assert.Equal(t, "/work/docs/projects/demo/notes/kickoff.md", entries[0].Writes[0]["path"])
	assert.Equal(t, "write_once", entries[0].Writes[0]["policy"])
}
