package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/voocel/litellm"

	"github.com/llmharness/llmharness/internal/registry"
)

type fakeCaller struct {
	requests []*litellm.Request
	err      error
}

func (f *fakeCaller) Chat(_ context.Context, req *litellm.Request) (*litellm.Response, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &litellm.Response{Content: "Hello!", Model: req.Model}, nil
}

func testRegistries(tb testing.TB) (*registry.ModelRegistry, *registry.KeyRegistry) {
	tb.Helper()
	models := &registry.ModelRegistry{Entries: []registry.ModelEntry{
		{Alias: "gpt-4", Provider: "openai", ModelID: "gpt-4"},
		{Alias: "sonnet", Provider: "anthropic", ModelID: "claude-sonnet-4-20250514"},
	}}
	keys := &registry.KeyRegistry{Entries: []registry.APIKeyEntry{
		{Provider: "openai", EnvVar: "LLMHARNESS_TEST_OPENAI_KEY"},
		{Provider: "anthropic", EnvVar: "LLMHARNESS_TEST_ANTHROPIC_KEY"},
	}}
	return models, keys
}

func TestCheckerRun(t *testing.T) {
	t.Run("missing credential skips with zero calls", func(t *testing.T) {
		t.Setenv("LLMHARNESS_TEST_OPENAI_KEY", "")
		t.Setenv("LLMHARNESS_TEST_ANTHROPIC_KEY", "")

		models, keys := testRegistries(t)
		dials := 0
		checker := Checker{
			Models: models,
			Keys:   keys,
			Dial: func(string, string) (Caller, error) {
				dials++
				return &fakeCaller{}, nil
			},
		}
		results := checker.Run(context.Background())
		require.Len(t, results, 2)
		require.Zero(t, dials)
		for _, result := range results {
			require.Equal(t, StatusSkipped, result.Status)
			require.Contains(t, result.Reason, "no credential for "+result.Provider)
		}
	})

	t.Run("success", func(t *testing.T) {
		t.Setenv("LLMHARNESS_TEST_OPENAI_KEY", "sk-test")
		t.Setenv("LLMHARNESS_TEST_ANTHROPIC_KEY", "")

		models, keys := testRegistries(t)
		caller := &fakeCaller{}
		checker := Checker{
			Models: models,
			Keys:   keys,
			Dial: func(provider, secret string) (Caller, error) {
				require.Equal(t, "openai", provider)
				require.Equal(t, "sk-test", secret)
				return caller, nil
			},
		}
		results := checker.Run(context.Background())
		require.Len(t, results, 2)

		// sorted by provider: anthropic (skipped) first, then openai.
		require.Equal(t, "sonnet", results[0].Alias)
		require.Equal(t, StatusSkipped, results[0].Status)
		require.Equal(t, "gpt-4", results[1].Alias)
		require.Equal(t, StatusSucceeded, results[1].Status)
		require.Empty(t, results[1].Reason)

		require.Len(t, caller.requests, 1)
		req := caller.requests[0]
		require.Equal(t, "gpt-4", req.Model)
		require.Len(t, req.Messages, 1)
		require.Equal(t, "user", req.Messages[0].Role)
		require.Equal(t, "Hi", req.Messages[0].Content)
	})

	t.Run("failure keeps the library error verbatim", func(t *testing.T) {
		t.Setenv("LLMHARNESS_TEST_OPENAI_KEY", "sk-test")
		t.Setenv("LLMHARNESS_TEST_ANTHROPIC_KEY", "")

		models, keys := testRegistries(t)
		libErr := errors.New("401 Unauthorized: invalid api key")
		checker := Checker{
			Models: models,
			Keys:   keys,
			Dial: func(string, string) (Caller, error) {
				return &fakeCaller{err: libErr}, nil
			},
		}
		results := checker.Run(context.Background())
		require.Equal(t, StatusFailed, results[1].Status)
		require.Equal(t, libErr.Error(), results[1].Reason)
	})

	t.Run("dial error fails the alias", func(t *testing.T) {
		t.Setenv("LLMHARNESS_TEST_OPENAI_KEY", "sk-test")
		t.Setenv("LLMHARNESS_TEST_ANTHROPIC_KEY", "sk-ant")

		models, keys := testRegistries(t)
		checker := Checker{
			Models: models,
			Keys:   keys,
			Dial: func(provider, _ string) (Caller, error) {
				return nil, errors.New("unsupported provider " + provider)
			},
		}
		results := checker.Run(context.Background())
		for _, result := range results {
			require.Equal(t, StatusFailed, result.Status)
			require.Contains(t, result.Reason, "unsupported provider")
		}
	})

	t.Run("placeholder key skips", func(t *testing.T) {
		t.Setenv("LLMHARNESS_TEST_OPENAI_KEY", "")
		models := &registry.ModelRegistry{Entries: []registry.ModelEntry{
			{Alias: "gpt-4", Provider: "openai", ModelID: "gpt-4"},
		}}
		keys := &registry.KeyRegistry{Entries: []registry.APIKeyEntry{
			{Provider: "openai", EnvVar: "LLMHARNESS_TEST_OPENAI_KEY", Key: "default_openai_key_replace_me"},
		}}
		checker := Checker{Models: models, Keys: keys, Dial: func(string, string) (Caller, error) {
			t.Fatal("dial should not be called")
			return nil, nil
		}}
		results := checker.Run(context.Background())
		require.Len(t, results, 1)
		require.Equal(t, StatusSkipped, results[0].Status)
		require.Contains(t, results[0].Reason, "placeholder key")
	})

	t.Run("observer sees every result in order", func(t *testing.T) {
		t.Setenv("LLMHARNESS_TEST_OPENAI_KEY", "")
		t.Setenv("LLMHARNESS_TEST_ANTHROPIC_KEY", "")

		models, keys := testRegistries(t)
		var started, seen []string
		checker := Checker{
			Models:  models,
			Keys:    keys,
			OnCheck: func(e registry.ModelEntry) { started = append(started, e.Alias) },
			Observe: func(r Result) { seen = append(seen, r.Alias) },
		}
		checker.Run(context.Background())
		require.Equal(t, []string{"sonnet", "gpt-4"}, started)
		require.Equal(t, []string{"sonnet", "gpt-4"}, seen)
	})
}

func TestLiteLLMDialer(t *testing.T) {
	t.Run("unsupported provider", func(t *testing.T) {
		_, err := LiteLLM("abacus", "sk-test")
		require.ErrorContains(t, err, `unsupported provider "abacus"`)
	})
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Status: StatusSucceeded},
		{Status: StatusSucceeded},
		{Status: StatusFailed},
		{Status: StatusSkipped},
	}
	s := Summarize(results)
	require.Equal(t, 2, s.Succeeded)
	require.Equal(t, 1, s.Failed)
	require.Equal(t, 1, s.Skipped)
	require.Equal(t, 3, s.Attempted())
	require.False(t, s.Clean())

	require.True(t, Summarize([]Result{{Status: StatusSucceeded}}).Clean())
	require.False(t, Summarize([]Result{{Status: StatusSkipped}}).Clean())
	require.True(t, Summarize(nil).Clean())
}
