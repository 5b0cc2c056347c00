package environ

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aware-network/aware-kernel/internal/pathspec"
	"github.com/aware-network/aware-kernel/internal/runtime"
)

const sampleManifest = `
object "project" {
  description = "Project documents"

  pathspec "project-overview" {
    segments  = ["docs", "projects", "{project_slug}", "OVERVIEW.md"]
    template  = "# Overview\n"
    selectors = ["project_slug"]
  }

  pathspec "project-index" {
    segments   = ["docs", "projects", "{project_slug}", ".index.json"]
    visibility = "private"
  }
}

object "task" {
  pathspec "task-design" {
    segments = ["docs", "projects", "{project_slug}", "tasks", "{task_bucket}", "{task_slug}", "DESIGN.md"]
  }
}
`

func TestLoadBytes_ParsesManifest(t *testing.T) {
	manifest, err := LoadBytes([]byte(sampleManifest), "env.hcl")
	require.NoError(t, err)
	require.Len(t, manifest.Objects, 2)

	project := manifest.Objects[0]
	assert.Equal(t, "project", project.Type)
	assert.Equal(t, "Project documents", project.Description)
	require.Len(t, project.PathSpecs, 2)

	specs := project.Specs()
	assert.Equal(t, pathspec.Public, specs[0].Visibility)
	tmpl, ok := specs[0].Template()
	require.True(t, ok)
	assert.Equal(t, "# Overview\n", tmpl)
	assert.Equal(t, pathspec.Private, specs[1].Visibility)

	assert.Len(t, manifest.AllSpecs(), 3)
}

func TestLoadBytes_RejectsDuplicates(t *testing.T) {
	src := `
object "project" {
  pathspec "a" { segments = ["x"] }
  pathspec "a" { segments = ["y"] }
}
`
	_, err := LoadBytes([]byte(src), "env.hcl")
	assert.ErrorContains(t, err, "duplicate pathspec")
}

func TestLoadBytes_RejectsUnknownVisibility(t *testing.T) {
	src := `
object "project" {
  pathspec "a" {
    segments   = ["x"]
    visibility = "secret"
  }
}
`
	_, err := LoadBytes([]byte(src), "env.hcl")
	assert.ErrorContains(t, err, "unknown visibility")
}

func TestBind_WriteDocumentProducesPlan(t *testing.T) {
	manifest, err := LoadBytes([]byte(sampleManifest), "env.hcl")
	require.NoError(t, err)

	env := runtime.NewEnvironment()
	require.NoError(t, Bind(env, manifest, "/work", ""))

	fsys := memfs.New()
	exec := runtime.NewExecutor(env, fsys)

	result, err := exec.Execute(runtime.Request{
		ObjectType:   "project",
		FunctionName: "write_document",
		Selectors:    map[string]string{"project_slug": "demo"},
		Arguments: map[string]any{
			"pathspec":  "project-overview",
			"selectors": map[string]string{"project_slug": "demo"},
			"content":   "# Demo\n",
			"policy":    "write_once",
		},
	})
	require.NoError(t, err)

	content, err := util.ReadFile(fsys, "/work/docs/projects/demo/OVERVIEW.md")
	require.NoError(t, err)
	assert.Equal(t, "# Demo\n", string(content))

	payload := result.Payload.(map[string]any)
	assert.Equal(t, "/work/docs/projects/demo/OVERVIEW.md", payload["path"])
	require.Len(t, result.Journal, 1)
}

func TestBind_WriteDocumentUnknownPathspec(t *testing.T) {
	manifest, err := LoadBytes([]byte(sampleManifest), "env.hcl")
	require.NoError(t, err)

	env := runtime.NewEnvironment()
	require.NoError(t, Bind(env, manifest, "/work", ""))

	exec := runtime.NewExecutor(env, memfs.New())
	_, err = exec.Execute(runtime.Request{
		ObjectType:   "project",
		FunctionName: "write_document",
		Arguments:    map[string]any{"pathspec": "nope"},
	})
	assert.ErrorContains(t, err, `no pathspec "nope"`)
}
