package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "llmharness",
	Short: "Validate LLM model configuration and provider connectivity.",
	Long: "llmharness checks that every provider in your API key registry has a\n" +
		"resolvable credential, and that every configured model alias answers a\n" +
		"minimal request through the unified LLM access library.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(keysCmd, checkCmd, historyCmd)
}

func main() {
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(false)

	if err := rootCmd.Execute(); err != nil {
		// silent errors were already reported in the command output.
		if !errors.Is(err, errSilent) {
			printError(err)
		}
		os.Exit(1)
	}
}

func printError(err error) {
	s := stderrStyles()
	var herr harnessError
	if errors.As(err, &herr) {
		fmt.Fprintf(
			os.Stderr,
			"\n%s\n\n%s\n\n",
			s.ErrPadding.Render(s.ErrorHeader.String(), herr.Reason()),
			s.ErrPadding.Render(s.ErrorDetails.Render(herr.Error())),
		)
		return
	}
	fmt.Fprintf(
		os.Stderr,
		"\n%s\n\n",
		s.ErrPadding.Render(s.ErrorHeader.String(), err.Error()),
	)
}
