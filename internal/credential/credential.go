// Package credential resolves the effective API key for a provider.
package credential

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/llmharness/llmharness/internal/registry"
)

// Source identifies where a credential was found.
type Source string

// Resolution sources, in precedence order. Placeholder covers template keys
// shipped in the example config that were never replaced.
const (
	SourceEnvironment Source = "environment"
	SourceLiteral     Source = "literal"
	SourcePlaceholder Source = "placeholder"
	SourceMissing     Source = "missing"
)

// placeholderRe matches the template values written into the example key
// registry, e.g. default_openai_key_replace_me.
var placeholderRe = regexp.MustCompile(`^default_.+_key_replace_me$`)

// Resolved is the outcome of resolving one provider's credential. It is
// derived state, recomputed on every resolution and never persisted.
type Resolved struct {
	Provider string
	EnvVar   string
	Secret   string
	Source   Source
}

// OK reports whether a usable secret was found.
func (r Resolved) OK() bool {
	return r.Source == SourceEnvironment || r.Source == SourceLiteral
}

// Preview returns a redacted form of the secret that is safe to print. The
// full secret value is never logged or displayed.
func (r Resolved) Preview() string {
	const edge = 4
	if len(r.Secret) <= edge*2 {
		return strings.Repeat("*", len(r.Secret))
	}
	return fmt.Sprintf("%s...%s", r.Secret[:edge], r.Secret[len(r.Secret)-edge:])
}

// Resolve finds the effective secret for one provider: the environment
// variable named by the entry wins, a literal key in the registry is the
// fallback. Resolution only reads the process environment.
func Resolve(entry registry.APIKeyEntry) Resolved {
	resolved := Resolved{
		Provider: entry.Provider,
		EnvVar:   entry.EnvVar,
		Source:   SourceMissing,
	}
	if value := strings.TrimSpace(os.Getenv(entry.EnvVar)); entry.EnvVar != "" && value != "" {
		resolved.Secret = value
		resolved.Source = SourceEnvironment
		return resolved
	}
	if entry.Key != "" {
		if placeholderRe.MatchString(entry.Key) {
			resolved.Source = SourcePlaceholder
			return resolved
		}
		resolved.Secret = entry.Key
		resolved.Source = SourceLiteral
	}
	return resolved
}

// ResolveProvider resolves the credential for a provider by name. A provider
// with no entry in the key registry resolves as missing.
func ResolveProvider(keys *registry.KeyRegistry, provider string) Resolved {
	entry, ok := keys.Get(provider)
	if !ok {
		return Resolved{Provider: provider, Source: SourceMissing}
	}
	return Resolve(entry)
}
