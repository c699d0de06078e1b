package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/llmharness/llmharness/internal/probe"
	"github.com/llmharness/llmharness/internal/registry"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe every configured model through the unified LLM library.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		models, keys, err := loadRegistries(s)
		if err != nil {
			return err
		}

		st := stdoutStyles()
		fmt.Printf("%s\n", st.Header.Render("Checking model connectivity"))

		aliasWidth := 0
		for _, entry := range models.Entries {
			aliasWidth = max(aliasWidth, len(entry.Alias))
		}

		lastProvider := ""
		checker := probe.Checker{
			Models: models,
			Keys:   keys,
			OnCheck: func(entry registry.ModelEntry) {
				if entry.Provider != lastProvider {
					lastProvider = entry.Provider
					fmt.Printf("\n%s\n", st.AppName.Render(entry.Provider))
				}
				if isOutputTTY() {
					fmt.Printf("  … %s", entry.Alias)
				}
			},
			Observe: func(result probe.Result) {
				if isOutputTTY() {
					fmt.Print("\r")
				}
				fmt.Printf("  %s %-*s  %s\n",
					statusGlyph(st, result.Status),
					aliasWidth, result.Alias,
					statusText(st, result),
				)
			},
		}
		results := checker.Run(cmd.Context())

		summary := probe.Summarize(results)
		fmt.Printf("\nConnected to %d/%d models", summary.Succeeded, summary.Attempted())
		if summary.Skipped > 0 {
			fmt.Printf(" %s", st.Comment.Render(fmt.Sprintf("(%d skipped)", summary.Skipped)))
		}
		fmt.Println()

		if !s.NoHistory {
			if err := saveHistory(s, uuid.NewString(), results); err != nil {
				log.Warn("could not save run history", "err", err)
			}
		}

		if !summary.Clean() {
			return errSilent
		}
		return nil
	},
}

func statusGlyph(st styles, status probe.Status) string {
	switch status {
	case probe.StatusSucceeded:
		return st.Success.Render("✓")
	case probe.StatusSkipped:
		return st.Warning.Render("-")
	default:
		return st.Failure.Render("✗")
	}
}

func statusText(st styles, result probe.Result) string {
	switch result.Status {
	case probe.StatusSucceeded:
		return st.Success.Render("connected") + " " + st.Comment.Render(result.ModelID)
	case probe.StatusSkipped:
		return st.Warning.Render("skipped") + " " + st.Comment.Render(result.Reason)
	default:
		return st.Failure.Render("failed") + " " + st.Comment.Render(firstLine(result.Reason))
	}
}

// firstLine trims a multi-line library error down to one line for the table.
// The history DB keeps the full reason.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func saveHistory(s settings, runID string, results []probe.Result) error {
	db, err := openDB(s.HistoryPath)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck
	return db.SaveRun(runID, results)
}
