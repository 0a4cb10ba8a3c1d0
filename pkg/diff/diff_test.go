package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnifiedIdenticalContent(t *testing.T) {
	require.Empty(t, Unified("a\nb\n", "a\nb\n", "base", "resolved"))
}

func TestUnifiedSingleLineChange(t *testing.T) {
	result := Unified("container.padding = 8\ncontainer.bold = true\n", "container.padding = 16\ncontainer.bold = true\n", "base", "resolved")

	require.Contains(t, result, "--- base")
	require.Contains(t, result, "+++ resolved")
	require.Contains(t, result, "-container.padding = 8")
	require.Contains(t, result, "+container.padding = 16")
	require.Contains(t, result, " container.bold = true")
}

func TestUnifiedIsDeterministic(t *testing.T) {
	first := Unified("x\ny\n", "x\nz\n", "a", "b")
	second := Unified("x\ny\n", "x\nz\n", "a", "b")
	require.Equal(t, first, second)
}

func TestUnifiedTruncatesLargeDiffs(t *testing.T) {
	var before, after strings.Builder
	for i := 0; i < maxDiffLines+10; i++ {
		before.WriteString("old\n")
		after.WriteString("new\n")
	}

	result := Unified(before.String(), after.String(), "a", "b")
	require.Contains(t, result, truncateMessage)
}
