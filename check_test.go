package main

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"

	"github.com/llmharness/llmharness/internal/probe"
)

func TestFirstLine(t *testing.T) {
	t.Run("single line", func(t *testing.T) {
		require.Equal(t, "line", firstLine("line"))
	})
	t.Run("multiple lines", func(t *testing.T) {
		require.Equal(t, "401 Unauthorized", firstLine("401 Unauthorized\ndetails follow\nmore"))
	})
	t.Run("empty", func(t *testing.T) {
		require.Empty(t, firstLine(""))
	})
}

func TestStatusText(t *testing.T) {
	var sb strings.Builder
	st := makeStyles(lipgloss.NewRenderer(&sb))

	t.Run("succeeded", func(t *testing.T) {
		text := statusText(st, probe.Result{Status: probe.StatusSucceeded, ModelID: "gpt-4"})
		require.Contains(t, text, "connected")
		require.Contains(t, text, "gpt-4")
	})

	t.Run("skipped", func(t *testing.T) {
		text := statusText(st, probe.Result{Status: probe.StatusSkipped, Reason: "no credential for openai"})
		require.Contains(t, text, "skipped")
		require.Contains(t, text, "no credential for openai")
	})

	t.Run("failed keeps only the first line", func(t *testing.T) {
		text := statusText(st, probe.Result{Status: probe.StatusFailed, Reason: "boom\nstack"})
		require.Contains(t, text, "failed")
		require.Contains(t, text, "boom")
		require.NotContains(t, text, "stack")
	})
}
