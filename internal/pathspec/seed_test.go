package pathspec

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_WritesTemplates(t *testing.T) {
	fsys := memfs.New()
	specs := []Spec{
		{
			ID:       "project-overview",
			Segments: []string{"{projects_root}", "{project_slug}", "OVERVIEW.md"},
			Metadata: map[string]any{"template": "# Overview\n"},
		},
	}

	seeded, err := Seed(fsys, specs, "/work", "",
		map[string]string{"projects_root": "docs/projects"},
		map[string]map[string]string{"project-overview": {"project_slug": "demo"}},
	)
	require.NoError(t, err)
	require.Len(t, seeded, 1)

	content, err := util.ReadFile(fsys, "/work/docs/projects/demo/OVERVIEW.md")
	require.NoError(t, err)
	assert.Equal(t, "# Overview\n", string(content))
}

func TestSeed_SkipsExistingTargets(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, fsys.MkdirAll("/work/docs", 0o755))
	require.NoError(t, util.WriteFile(fsys, "/work/docs/OVERVIEW.md", []byte("hand-edited\n"), 0o644))

	specs := []Spec{
		{
			ID:       "overview",
			Segments: []string{"docs", "OVERVIEW.md"},
			Metadata: map[string]any{"template": "# Overview\n"},
		},
	}

	seeded, err := Seed(fsys, specs, "/work", "", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, seeded)

	content, err := util.ReadFile(fsys, "/work/docs/OVERVIEW.md")
	require.NoError(t, err)
	assert.Equal(t, "hand-edited\n", string(content))
}

func TestSeed_SkipsSpecsWithoutTemplates(t *testing.T) {
	fsys := memfs.New()
	specs := []Spec{
		{ID: "bare", Segments: []string{"docs", "BARE.md"}},
	}

	seeded, err := Seed(fsys, specs, "/work", "", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, seeded)
}

func TestSeed_PrivateSpecsUsePrivateRoot(t *testing.T) {
	fsys := memfs.New()
	specs := []Spec{
		{
			ID:         "scratch",
			Segments:   []string{"scratch", "NOTES.md"},
			Visibility: Private,
			Metadata:   map[string]any{"template": "# Notes\n"},
		},
	}

	seeded, err := Seed(fsys, specs, "/work", "/private", nil, nil)
	require.NoError(t, err)
	require.Len(t, seeded, 1)
	assert.Equal(t, "/private/scratch/NOTES.md", seeded[0])

	content, err := util.ReadFile(fsys, "/private/scratch/NOTES.md")
	require.NoError(t, err)
	assert.Equal(t, "# Notes\n", string(content))
}

func TestSeed_MissingSelectorFails(t *testing.T) {
	fsys := memfs.New()
	specs := []Spec{
		{
			ID:       "overview",
			Segments: []string{"{missing}", "OVERVIEW.md"},
			Metadata: map[string]any{"template": "# Overview\n"},
		},
	}

	_, err := Seed(fsys, specs, "/work", "", nil, nil)
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
}
