// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Roadmap Kit - Roadmap Kit keeps a project's roadmap.json in sync with the tagged commits of its Git repository.
It parses commit messages for task, status and technical-debt tags and reconciles them into a persistent feature/task graph.

Copyright (C) 2025  The Roadmap Kit Authors

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package config loads the optional per-project .roadmap-kit.yaml file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the project root.
const FileName = ".roadmap-kit.yaml"

const (
	defaultRoadmapFile = "roadmap.json"
	legacyRoadmapDir   = "roadmap-kit"
)

// ScanConfig tunes the commit scan.
type ScanConfig struct {
	MaxCommits  int  `yaml:"max_commits"`
	StatWorkers int  `yaml:"stat_workers"`
	Snapshot    bool `yaml:"snapshot"`
}

// VersionsConfig controls the snapshot history.
type VersionsConfig struct {
	Keep int `yaml:"keep"`
}

// WatchConfig controls scan --watch.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Config models .roadmap-kit.yaml.
type Config struct {
	// Roadmap is the roadmap path, relative to the project root unless absolute.
	Roadmap  string         `yaml:"roadmap"`
	Scan     ScanConfig     `yaml:"scan"`
	Versions VersionsConfig `yaml:"versions"`
	Watch    WatchConfig    `yaml:"watch"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Scan: ScanConfig{
			MaxCommits:  50,
			StatWorkers: 4,
		},
		Versions: VersionsConfig{Keep: 10},
		Watch:    WatchConfig{Debounce: 500 * time.Millisecond},
	}
}

// Load reads FileName from root. Keys absent from the file keep their
// defaults; unknown keys are an error.
func Load(root string) (Config, error) {
	cfg := Default()
	path := filepath.Join(root, FileName)

	data, err := os.ReadFile(path) //nolint:gosec // G304: fixed name under the project root
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Scan.MaxCommits < 1 {
		return fmt.Errorf("scan.max_commits must be positive, got %d", c.Scan.MaxCommits)
	}
	if c.Scan.StatWorkers < 1 {
		c.Scan.StatWorkers = 1
	}
	if c.Versions.Keep < 1 {
		return fmt.Errorf("versions.keep must be positive, got %d", c.Versions.Keep)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}

// RoadmapPath returns the roadmap location for root: the configured path if
// set, otherwise the first existing of roadmap.json and roadmap-kit/roadmap.json,
// falling back to roadmap.json.
func (c Config) RoadmapPath(root string) string {
	if c.Roadmap != "" {
		if filepath.IsAbs(c.Roadmap) {
			return c.Roadmap
		}
		return filepath.Join(root, c.Roadmap)
	}
	return ResolveRoadmapPath(root)
}

// ResolveRoadmapPath applies the default lookup order under root.
func ResolveRoadmapPath(root string) string {
	primary := filepath.Join(root, defaultRoadmapFile)
	if fileExists(primary) {
		return primary
	}
	nested := filepath.Join(root, legacyRoadmapDir, defaultRoadmapFile)
	if fileExists(nested) {
		return nested
	}
	return primary
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
