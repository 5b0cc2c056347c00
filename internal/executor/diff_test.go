package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aware-network/aware-kernel/internal/plan"

	"github.com/aware-network/aware-kernel/api"
)

func TestApplyDiff_MergesChange(t *testing.T) {
	original := "alpha\nbeta\ngamma\n"
	updated := "alpha\nBETA\ngamma\n"

	instruction, diff, err := plan.BuildPatch(plan.PatchRequest{
		Path:     "doc.md",
		Original: original,
		Updated:  updated,
		Policy:   api.PolicyModifiable,
	})
	require.NoError(t, err)
	require.NotNil(t, instruction)

	merged, err := applyDiff([]byte(original), diff)
	require.NoError(t, err)
	assert.Equal(t, updated, string(merged))
}

func TestApplyDiff_EmptyDiffIsIdentity(t *testing.T) {
	merged, err := applyDiff([]byte("content\n"), "")
	require.NoError(t, err)
	assert.Equal(t, "content\n", string(merged))
}

func TestAppendDiff_AppendsAddedLines(t *testing.T) {
	diff := "--- log.md\n+++ log.md\n@@ -1,1 +1,3 @@\n first\n+second\n+third\n"

	merged := appendDiff([]byte("first\n"), diff)
	assert.Equal(t, "first\nsecond\nthird\n", string(merged))
}

func TestAppendDiff_InsertsNewlineBeforeAppend(t *testing.T) {
	diff := "--- log.md\n+++ log.md\n@@ -1,1 +1,2 @@\n first\n+second\n"

	merged := appendDiff([]byte("first"), diff)
	assert.Equal(t, "first\nsecond\n", string(merged))
}

func TestAppendDiff_EmptyOriginal(t *testing.T) {
	diff := "--- log.md\n+++ log.md\n@@ -0,0 +1,1 @@\n+first\n"

	merged := appendDiff(nil, diff)
	assert.Equal(t, "first\n", string(merged))
}

func TestAppendDiff_KeepsContentStartingWithPlus(t *testing.T) {
	// Content "++urgent: escalated" arrives as "+++..." inside the hunk
	// and must not be mistaken for a file header.
	diff := "--- log.md\n+++ log.md\n@@ -1,1 +1,2 @@\n first\n+++urgent: escalated\n"

	merged := appendDiff([]byte("first\n"), diff)
	assert.Equal(t, "first\n++urgent: escalated\n", string(merged))
}

func TestAppendDiff_SkipsFileHeaders(t *testing.T) {
	diff := "--- log.md\n+++ log.md\n@@ -1,1 +1,2 @@\n first\n+second\n"

	merged := appendDiff([]byte("first\n"), diff)
	assert.NotContains(t, string(merged), "+++")
}
