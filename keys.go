package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/llmharness/llmharness/internal/credential"
	"github.com/llmharness/llmharness/internal/registry"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Check that every configured provider has a resolvable API key.",
	Args:  cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		models, keys, err := loadRegistries(s)
		if err != nil {
			return err
		}

		rows := keyRows(models, keys)
		st := stdoutStyles()
		fmt.Printf("%s\n\n", st.Header.Render("API keys in "+s.apiKeysPath()))
		renderKeyTable(os.Stdout, st, rows)

		resolved := 0
		for _, row := range rows {
			if row.OK() {
				resolved++
			}
		}
		fmt.Printf("\n%d/%d providers have a resolvable key\n", resolved, len(rows))
		if resolved != len(rows) {
			return errSilent
		}
		return nil
	},
}

// keyRows resolves every provider from the key registry, plus any provider a
// model references without a key entry. Those show up as missing instead of
// failing the load.
func keyRows(models *registry.ModelRegistry, keys *registry.KeyRegistry) []credential.Resolved {
	providers := keys.Providers()
	known := map[string]bool{}
	for _, provider := range providers {
		known[provider] = true
	}
	modelProviders, _ := models.ByProvider()
	for _, provider := range modelProviders {
		if !known[provider] {
			known[provider] = true
			providers = append(providers, provider)
		}
	}
	sort.Strings(providers)

	rows := make([]credential.Resolved, 0, len(providers))
	for _, provider := range providers {
		rows = append(rows, credential.ResolveProvider(keys, provider))
	}
	return rows
}

func renderKeyTable(w io.Writer, st styles, rows []credential.Resolved) {
	providerWidth, envWidth := 0, 0
	for _, row := range rows {
		providerWidth = max(providerWidth, len(row.Provider))
		envWidth = max(envWidth, len(row.EnvVar))
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %s %-*s  %-*s  %s\n",
			keyGlyph(st, row),
			providerWidth, row.Provider,
			envWidth, row.EnvVar,
			keyStatus(st, row),
		)
	}
}

func keyGlyph(st styles, row credential.Resolved) string {
	switch row.Source {
	case credential.SourceEnvironment, credential.SourceLiteral:
		return st.Success.Render("✓")
	case credential.SourcePlaceholder:
		return st.Warning.Render("!")
	default:
		return st.Failure.Render("✗")
	}
}

func keyStatus(st styles, row credential.Resolved) string {
	switch row.Source {
	case credential.SourceEnvironment:
		return st.Success.Render("environment") + " " + st.Comment.Render(row.Preview())
	case credential.SourceLiteral:
		return st.Success.Render("literal") + " " + st.Comment.Render(row.Preview())
	case credential.SourcePlaceholder:
		return st.Warning.Render("placeholder key, needs replacement")
	default:
		return st.Failure.Render("missing")
	}
}
