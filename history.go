package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/llmharness/llmharness/internal/probe"
)

var historyRuns int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show results from previous check runs.",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		db, err := openDB(s.HistoryPath)
		if err != nil {
			return harnessError{err, "Could not open the history database."}
		}
		defer db.Close() //nolint:errcheck

		checks, err := db.Recent(historyRuns)
		if err != nil {
			return harnessError{err, "Could not read the history database."}
		}
		if len(checks) == 0 {
			fmt.Println("No check runs recorded yet.")
			return nil
		}

		st := stdoutStyles()
		lastRun := ""
		for _, check := range checks {
			if check.RunID != lastRun {
				lastRun = check.RunID
				fmt.Printf("\n%s %s\n",
					st.Header.Render("run "+shortID(check.RunID)),
					st.Comment.Render(check.CheckedAt.Local().Format(time.RFC3339)),
				)
			}
			line := fmt.Sprintf("  %s %s/%s %s",
				statusGlyph(st, probe.Status(check.Status)),
				check.Provider, check.Alias,
				check.Status,
			)
			if check.Reason != "" {
				line += " " + st.Comment.Render(firstLine(check.Reason))
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyRuns, "runs", "n", 5, "Number of past runs to show.")
}

const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}
