package shogi

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds the external engine settings.
type Config struct {
	Engine string `json:"engine"`
	Millis int    `json:"millis"`
}

// FindConfig locates config.json by walking up from the working directory,
// loads it, and applies the SHOGI_ENGINE and SHOGI_MILLIS environment
// overrides on top. The overrides work without a file too, so a tool can run
// from a directory tree that carries no config.json at all. The returned
// directory is where the file was found and anchors relative engine paths; it
// is empty when the engine setting came from the environment.
func FindConfig() (Config, string, error) {
	var cfg Config
	var dir string
	if path, found, err := findConfigFile(); err != nil {
		return Config{}, "", err
	} else if found {
		cfg, err = LoadConfig(path)
		if err != nil {
			return Config{}, "", err
		}
		dir = filepath.Dir(path)
	}

	if engine := os.Getenv("SHOGI_ENGINE"); engine != "" {
		cfg.Engine = engine
		dir = ""
	}
	if millis := os.Getenv("SHOGI_MILLIS"); millis != "" {
		n, err := strconv.Atoi(millis)
		if err != nil {
			return Config{}, "", fmt.Errorf("SHOGI_MILLIS: %w", err)
		}
		cfg.Millis = n
	}
	if cfg.Millis <= 0 {
		cfg.Millis = 100
	}
	if cfg.Engine == "" {
		return Config{}, "", fmt.Errorf("no config.json found and SHOGI_ENGINE is unset")
	}
	return cfg, dir, nil
}

func findConfigFile() (string, bool, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false, err
	}
	for {
		path := filepath.Join(dir, "config.json")
		if _, err := os.Stat(path); err == nil {
			return path, true, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// LoadConfig reads engine settings from a specific file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.Millis <= 0 {
		cfg.Millis = 100
	}
	return cfg, nil
}
