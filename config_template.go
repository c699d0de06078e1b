package main

const apiKeysTemplate = `# API key registry.
# Each provider names the environment variable expected to hold its key.
# The environment always wins; the optional literal key is a fallback.
api_keys:
  openai:
    env_var: OPENAI_API_KEY
    key: default_openai_key_replace_me
  anthropic:
    env_var: ANTHROPIC_API_KEY
    key: default_anthropic_key_replace_me
  gemini:
    env_var: GEMINI_API_KEY
  deepseek:
    env_var: DEEPSEEK_API_KEY
  openrouter:
    env_var: OPENROUTER_API_KEY
`

const modelsTemplate = `# Model registry.
# Aliases are yours to choose; model_id is whatever the provider calls it.
models:
  gpt-4o:
    provider: openai
    model_id: gpt-4o
    description: OpenAI flagship
  gpt-4o-mini:
    provider: openai
    model_id: gpt-4o-mini
  sonnet:
    provider: anthropic
    model_id: claude-sonnet-4-20250514
    description: Claude Sonnet 4
  flash:
    provider: gemini
    model_id: gemini-2.5-flash
`
