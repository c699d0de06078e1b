// Package registry loads the declarative model and API key registries from
// their YAML files.
package registry

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ModelEntry is a single configured model alias.
type ModelEntry struct {
	Alias       string `yaml:"-"`
	Provider    string `yaml:"provider"`
	ModelID     string `yaml:"model_id"`
	Description string `yaml:"description"`
}

// APIKeyEntry describes how to find the credential for one provider.
type APIKeyEntry struct {
	Provider string `yaml:"-"`
	EnvVar   string `yaml:"env_var"`
	Key      string `yaml:"key"`
}

// NotFoundError is returned when a registry file does not exist.
type NotFoundError struct {
	Path    string
	Example string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

// Hint tells the user how to bootstrap the missing file.
func (e *NotFoundError) Hint() string {
	return fmt.Sprintf("Copy %s to %s and fill in your settings.", e.Example, e.Path)
}

// MalformedError is returned when a registry file exists but cannot be
// decoded. It keeps the underlying parse diagnostic intact.
type MalformedError struct {
	Path string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("could not parse %s: %s", e.Path, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// ModelRegistry holds the configured model aliases in file order.
type ModelRegistry struct {
	Entries []ModelEntry
}

// KeyRegistry holds the per-provider API key entries in file order.
type KeyRegistry struct {
	Entries []APIKeyEntry
}

// modelEntries decodes the `models` mapping while keeping file order,
// injecting the alias from the mapping key, and rejecting duplicates.
type modelEntries []ModelEntry

func (m *modelEntries) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.New("models must be a mapping of alias to model settings")
	}
	seen := map[string]bool{}
	for i := 0; i < len(node.Content); i += 2 {
		alias := node.Content[i].Value
		if seen[alias] {
			return fmt.Errorf("duplicate model alias %q (line %d)", alias, node.Content[i].Line)
		}
		seen[alias] = true
		var entry ModelEntry
		if err := node.Content[i+1].Decode(&entry); err != nil {
			return fmt.Errorf("model %q: %w", alias, err)
		}
		entry.Alias = alias
		*m = append(*m, entry)
	}
	return nil
}

type keyEntries []APIKeyEntry

func (k *keyEntries) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.New("api_keys must be a mapping of provider to key settings")
	}
	seen := map[string]bool{}
	for i := 0; i < len(node.Content); i += 2 {
		provider := node.Content[i].Value
		if seen[provider] {
			return fmt.Errorf("duplicate provider %q (line %d)", provider, node.Content[i].Line)
		}
		seen[provider] = true
		var entry APIKeyEntry
		if err := node.Content[i+1].Decode(&entry); err != nil {
			return fmt.Errorf("provider %q: %w", provider, err)
		}
		entry.Provider = provider
		*k = append(*k, entry)
	}
	return nil
}

// LoadModels reads the model registry from path.
func LoadModels(path string) (*ModelRegistry, error) {
	content, err := readRegistry(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Models modelEntries `yaml:"models"`
	}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, &MalformedError{Path: path, Err: err}
	}
	for _, entry := range doc.Models {
		if entry.Provider == "" {
			return nil, &MalformedError{Path: path, Err: fmt.Errorf("model %q is missing a provider", entry.Alias)}
		}
		if entry.ModelID == "" {
			return nil, &MalformedError{Path: path, Err: fmt.Errorf("model %q is missing a model_id", entry.Alias)}
		}
	}
	return &ModelRegistry{Entries: doc.Models}, nil
}

// LoadAPIKeys reads the API key registry from path.
func LoadAPIKeys(path string) (*KeyRegistry, error) {
	content, err := readRegistry(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		APIKeys keyEntries `yaml:"api_keys"`
	}
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, &MalformedError{Path: path, Err: err}
	}
	for _, entry := range doc.APIKeys {
		if entry.EnvVar == "" {
			return nil, &MalformedError{Path: path, Err: fmt.Errorf("provider %q is missing an env_var", entry.Provider)}
		}
	}
	return &KeyRegistry{Entries: doc.APIKeys}, nil
}

func readRegistry(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &NotFoundError{Path: path, Example: path + ".example"}
	}
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return content, nil
}

// Get returns the entry for the given alias.
func (r *ModelRegistry) Get(alias string) (ModelEntry, bool) {
	for _, entry := range r.Entries {
		if entry.Alias == alias {
			return entry, true
		}
	}
	return ModelEntry{}, false
}

// ByProvider groups entries by provider, with providers and aliases sorted.
func (r *ModelRegistry) ByProvider() ([]string, map[string][]ModelEntry) {
	groups := map[string][]ModelEntry{}
	for _, entry := range r.Entries {
		groups[entry.Provider] = append(groups[entry.Provider], entry)
	}
	providers := make([]string, 0, len(groups))
	for provider, entries := range groups {
		providers = append(providers, provider)
		sort.Slice(entries, func(i, j int) bool { return entries[i].Alias < entries[j].Alias })
	}
	sort.Strings(providers)
	return providers, groups
}

// Get returns the key entry for the given provider.
func (r *KeyRegistry) Get(provider string) (APIKeyEntry, bool) {
	for _, entry := range r.Entries {
		if entry.Provider == provider {
			return entry, true
		}
	}
	return APIKeyEntry{}, false
}

// Providers returns the configured provider names, sorted.
func (r *KeyRegistry) Providers() []string {
	providers := make([]string, 0, len(r.Entries))
	for _, entry := range r.Entries {
		providers = append(providers, entry.Provider)
	}
	sort.Strings(providers)
	return providers
}
