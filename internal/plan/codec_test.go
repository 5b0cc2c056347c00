package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aware-network/aware-kernel/api"
)

func TestCodec_RoundTrip(t *testing.T) {
	original := &Plan{
		Context: Context{
			ObjectType: "task",
			Function:   "design",
			Selectors:  map[string]string{"task": "demo"},
		},
		Ensures: []Ensure{{Path: "docs/tasks/demo"}},
		Writes: []Write{{
			Path:      "docs/tasks/demo/DESIGN.md",
			Content:   "# Design\n",
			Policy:    api.PolicyWriteOnce,
			Event:     api.EventCreated,
			DocType:   "design",
			Timestamp: time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC),
		}},
		Moves: []Move{{Src: "docs/tasks/_pending/demo", Dest: "docs/tasks/demo", Overwrite: false}},
	}

	data, err := Marshal(original)
	require.NoError(t, err)

	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, original.Context, decoded.Context)
	assert.Equal(t, original.Ensures, decoded.Ensures)
	assert.Equal(t, original.Writes[0].Path, decoded.Writes[0].Path)
	assert.Equal(t, original.Writes[0].Policy, decoded.Writes[0].Policy)
	assert.True(t, original.Writes[0].Timestamp.Equal(decoded.Writes[0].Timestamp))
	assert.Equal(t, original.Moves, decoded.Moves)
}

func TestUnmarshal_RejectsUnknownPolicy(t *testing.T) {
	doc := []byte(`{
		"context": {"object_type": "task", "function": "design", "selectors": {}},
		"writes": [{"path": "x.md", "content": "x", "policy": "replace_always", "event": "created", "doc_type": "d", "timestamp": "2026-08-27T12:00:00Z"}]
	}`)

	_, err := Unmarshal(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replace_always")
}

func TestPlan_Empty(t *testing.T) {
	p := &Plan{Context: Context{ObjectType: "task", Function: "noop"}}
	assert.True(t, p.Empty())
	p.Ensures = append(p.Ensures, Ensure{Path: "docs"})
	assert.False(t, p.Empty())
}
