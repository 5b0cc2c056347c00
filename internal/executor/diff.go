package executor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// applyDiff applies a unified diff to src and returns the merged result.
func applyDiff(src []byte, diff string) ([]byte, error) {
	files, _, err := gitdiff.Parse(strings.NewReader(diff))
	if err != nil {
		return nil, fmt.Errorf("parse diff: %w", err)
	}
	if len(files) == 0 {
		return src, nil
	}

	var out bytes.Buffer
	if err := gitdiff.Apply(&out, bytes.NewReader(src), files[0]); err != nil {
		return nil, fmt.Errorf("apply diff: %w", err)
	}
	return out.Bytes(), nil
}

// appendDiff merges an append_entry diff by appending its added lines to
// the current content. Appended targets are logs: existing content is
// never replaced wholesale, even when the diff also touches earlier lines.
// Lines before the first hunk marker are file headers, not content;
// added lines inside hunks are kept verbatim even when the content
// itself starts with "+".
func appendDiff(current []byte, diff string) []byte {
	var added strings.Builder
	inHunk := false
	for _, line := range strings.SplitAfter(diff, "\n") {
		if strings.HasPrefix(line, "@@") {
			inHunk = true
			continue
		}
		if inHunk && strings.HasPrefix(line, "+") {
			added.WriteString(line[1:])
		}
	}

	merged := append([]byte{}, current...)
	if len(merged) > 0 && merged[len(merged)-1] != '\n' {
		merged = append(merged, '\n')
	}
	return append(merged, added.String()...)
}
