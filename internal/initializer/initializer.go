// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Roadmap Kit - Roadmap Kit keeps a project's roadmap.json in sync with the tagged commits of its Git repository.
It parses commit messages for task, status and technical-debt tags and reconciles them into a persistent feature/task graph.

Copyright (C) 2025  The Roadmap Kit Authors

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package initializer creates the starter roadmap for a project.
package initializer

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hacklet1101/roadmap-kit/internal/logging"
	"github.com/hacklet1101/roadmap-kit/internal/roadmap"
	"github.com/hacklet1101/roadmap-kit/internal/store"
)

// ErrExists is returned when a roadmap is already present and Force is not set.
var ErrExists = errors.New("roadmap already exists")

// Options configure Init.
type Options struct {
	// Root is the project directory inspected for manifests.
	Root string
	// RoadmapPath is where the starter document is written.
	RoadmapPath string
	Force       bool
	Now         func() time.Time
	Logger      *zap.Logger
}

// Result describes a completed init.
type Result struct {
	Environment Environment
	Path        string
	Roadmap     *roadmap.Roadmap
}

// Init detects the project environment and writes a starter roadmap.
func Init(opts Options) (*Result, error) {
	log := logging.OrNop(opts.Logger)
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	docs := store.NewFileStore(opts.RoadmapPath)
	if docs.Exists() && !opts.Force {
		return nil, fmt.Errorf("%w: %s", ErrExists, opts.RoadmapPath)
	}

	env := Detect(opts.Root)
	log.Debug("environment detected", zap.String("env", string(env)), zap.String("root", opts.Root))

	info, err := ProjectInfo(opts.Root, env)
	if err != nil {
		return nil, err
	}

	doc := roadmap.Starter(info, now())
	if err := docs.Save(doc); err != nil {
		return nil, err
	}
	return &Result{Environment: env, Path: opts.RoadmapPath, Roadmap: doc}, nil
}
