package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"

	"github.com/llmharness/llmharness/internal/registry"
)

const (
	apiKeysFile   = "api_keys.yaml"
	modelsFile    = "models.yaml"
	exampleSuffix = ".example"
)

// settings is the tool's own configuration, filled from LLMHARNESS_*
// environment variables.
type settings struct {
	ConfigDir   string `env:"CONFIG_DIR"`
	HistoryPath string `env:"HISTORY_PATH"`
	NoHistory   bool   `env:"NO_HISTORY"`
}

func (s settings) apiKeysPath() string { return filepath.Join(s.ConfigDir, apiKeysFile) }
func (s settings) modelsPath() string  { return filepath.Join(s.ConfigDir, modelsFile) }

// loadSettings resolves the config directory, applies environment overrides,
// and makes sure the example registry files exist for the user to copy.
func loadSettings() (settings, error) {
	// a local .env may carry provider keys. best effort.
	_ = godotenv.Load()

	var s settings
	if err := env.ParseWithOptions(&s, env.Options{Prefix: "LLMHARNESS_"}); err != nil {
		return s, harnessError{err, "Could not parse environment settings."}
	}

	if s.ConfigDir == "" {
		// a config/ directory next to the working dir wins, so a checkout
		// with its own registries keeps working like before.
		if info, err := os.Stat("config"); err == nil && info.IsDir() {
			s.ConfigDir = "config"
		} else {
			s.ConfigDir = filepath.Join(xdg.ConfigHome, "llmharness")
		}
	}
	if err := os.MkdirAll(s.ConfigDir, 0o700); err != nil {
		return s, harnessError{err, "Could not create config directory."}
	}

	if s.HistoryPath == "" {
		s.HistoryPath = filepath.Join(xdg.DataHome, "llmharness", "history.sqlite")
	}

	if err := writeExampleFiles(s.ConfigDir); err != nil {
		return s, err
	}
	return s, nil
}

func writeExampleFiles(dir string) error {
	for name, content := range map[string]string{
		apiKeysFile + exampleSuffix: apiKeysTemplate,
		modelsFile + exampleSuffix:  modelsTemplate,
	} {
		path := filepath.Join(dir, name)
		_, err := os.Stat(path)
		if err == nil {
			continue
		}
		if !errors.Is(err, os.ErrNotExist) {
			return harnessError{err, "Could not stat " + path + "."}
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return harnessError{err, "Could not write " + path + "."}
		}
	}
	return nil
}

// loadRegistries reads both registry files. Any problem here is fatal to the
// run: no checks happen with a broken configuration.
func loadRegistries(s settings) (*registry.ModelRegistry, *registry.KeyRegistry, error) {
	keys, err := registry.LoadAPIKeys(s.apiKeysPath())
	if err != nil {
		return nil, nil, configError(err)
	}
	models, err := registry.LoadModels(s.modelsPath())
	if err != nil {
		return nil, nil, configError(err)
	}
	return models, keys, nil
}

func configError(err error) error {
	var nf *registry.NotFoundError
	if errors.As(err, &nf) {
		return harnessError{err, nf.Hint()}
	}
	var mf *registry.MalformedError
	if errors.As(err, &mf) {
		return harnessError{err, "Could not parse " + mf.Path + "."}
	}
	return harnessError{err, "Could not load configuration."}
}
