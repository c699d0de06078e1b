// Package probe checks that each configured model can be reached through the
// unified LLM access library.
package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/voocel/litellm"

	"github.com/llmharness/llmharness/internal/credential"
	"github.com/llmharness/llmharness/internal/registry"
)

// Status of a single model check. A result only ever moves from unchecked to
// one of the terminal states.
type Status string

const (
	StatusUnchecked Status = "unchecked"
	StatusSkipped   Status = "skipped"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// probePrompt is the minimal round-trip message sent to every model.
const probePrompt = "Hi"

// Result records the outcome of checking one model alias.
type Result struct {
	Alias     string
	Provider  string
	ModelID   string
	Status    Status
	Reason    string
	CheckedAt time.Time
	Elapsed   time.Duration
}

// Caller is the single call surface this tool needs from the unified access
// library.
type Caller interface {
	Chat(ctx context.Context, req *litellm.Request) (*litellm.Response, error)
}

// Dialer builds a Caller for a provider using a resolved secret.
type Dialer func(provider, secret string) (Caller, error)

// LiteLLM is the default Dialer, backed by github.com/voocel/litellm.
func LiteLLM(provider, secret string) (Caller, error) {
	client, err := newLiteLLMClient(provider, secret)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func newLiteLLMClient(provider, secret string) (*litellm.Client, error) {
	switch provider {
	case "openai":
		return litellm.New(litellm.WithOpenAI(secret))
	case "anthropic":
		return litellm.New(litellm.WithAnthropic(secret))
	case "gemini":
		return litellm.New(litellm.WithGemini(secret))
	case "deepseek":
		return litellm.New(litellm.WithDeepSeek(secret))
	case "qwen":
		return litellm.New(litellm.WithQwen(secret))
	case "glm":
		return litellm.New(litellm.WithGLM(secret))
	case "openrouter":
		return litellm.New(litellm.WithOpenRouter(secret))
	default:
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}
}

// Checker runs the connectivity check for every configured model alias,
// sequentially, one request at a time.
type Checker struct {
	Models *registry.ModelRegistry
	Keys   *registry.KeyRegistry

	// Dial defaults to LiteLLM.
	Dial Dialer

	// OnCheck, if set, is called right before an alias is checked.
	OnCheck func(registry.ModelEntry)

	// Observe, if set, is called with each result as it completes.
	Observe func(Result)
}

// Run checks every alias grouped by provider in sorted order. Credential and
// connectivity problems never abort the run: every alias gets a result.
func (c *Checker) Run(ctx context.Context) []Result {
	dial := c.Dial
	if dial == nil {
		dial = LiteLLM
	}
	var results []Result
	providers, groups := c.Models.ByProvider()
	for _, provider := range providers {
		resolved := credential.ResolveProvider(c.Keys, provider)
		for _, entry := range groups[provider] {
			if c.OnCheck != nil {
				c.OnCheck(entry)
			}
			result := c.check(ctx, dial, entry, resolved)
			if c.Observe != nil {
				c.Observe(result)
			}
			results = append(results, result)
		}
	}
	return results
}

func (c *Checker) check(ctx context.Context, dial Dialer, entry registry.ModelEntry, resolved credential.Resolved) Result {
	result := Result{
		Alias:     entry.Alias,
		Provider:  entry.Provider,
		ModelID:   entry.ModelID,
		Status:    StatusUnchecked,
		CheckedAt: time.Now(),
	}
	if !resolved.OK() {
		result.Status = StatusSkipped
		result.Reason = skipReason(resolved)
		return result
	}

	start := time.Now()
	caller, err := dial(entry.Provider, resolved.Secret)
	if err != nil {
		result.Status = StatusFailed
		result.Reason = err.Error()
		result.Elapsed = time.Since(start)
		return result
	}
	// One minimal request. Retry and timeout policy belong to the library,
	// not to this tool.
	_, err = caller.Chat(ctx, &litellm.Request{
		Model: entry.ModelID,
		Messages: []litellm.Message{
			{Role: "user", Content: probePrompt},
		},
		MaxTokens:   litellm.IntPtr(1),
		Temperature: litellm.Float64Ptr(0),
	})
	result.Elapsed = time.Since(start)
	if err != nil {
		result.Status = StatusFailed
		result.Reason = err.Error()
		return result
	}
	result.Status = StatusSucceeded
	return result
}

func skipReason(resolved credential.Resolved) string {
	switch resolved.Source {
	case credential.SourcePlaceholder:
		return fmt.Sprintf("placeholder key for %s, replace it in the key registry", resolved.Provider)
	default:
		return fmt.Sprintf("no credential for %s", resolved.Provider)
	}
}

// Summary condenses a run into counts.
type Summary struct {
	Succeeded int
	Failed    int
	Skipped   int
}

// Summarize tallies results. Attempted includes failures but not skips.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusSucceeded:
			s.Succeeded++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

// Attempted is the number of aliases that issued a request.
func (s Summary) Attempted() int { return s.Succeeded + s.Failed }

// Clean reports whether every alias succeeded: any failure or skip means the
// run is not clean and the process should exit nonzero.
func (s Summary) Clean() bool { return s.Failed == 0 && s.Skipped == 0 }
