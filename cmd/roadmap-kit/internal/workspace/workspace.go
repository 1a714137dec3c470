// Package workspace resolves the project a command runs against from its
// flags and the project configuration.
package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hacklet1101/roadmap-kit/cmd/roadmap-kit/internal/clierr"
	"github.com/hacklet1101/roadmap-kit/internal/config"
	"github.com/hacklet1101/roadmap-kit/internal/projectroot"
	"github.com/hacklet1101/roadmap-kit/internal/store"
)

const (
	FlagPath    = "path"
	FlagRoadmap = "roadmap"
	FlagAuthor  = "author"
)

// Workspace is a resolved project.
type Workspace struct {
	Root        string
	Config      config.Config
	RoadmapPath string
}

// AddFlags registers --path and --roadmap on cmd.
func AddFlags(cmd *cobra.Command) {
	cmd.Flags().String(FlagPath, "", "project directory (default: repository containing the working directory)")
	cmd.Flags().String(FlagRoadmap, "", "roadmap file (default: from "+config.FileName+" or roadmap.json)")
}

// AddAuthorFlag registers --author on cmd.
func AddAuthorFlag(cmd *cobra.Command) {
	cmd.Flags().String(FlagAuthor, "", "name recorded on snapshots (default: $USER)")
}

// Resolve reads --path and --roadmap from cmd. Without --path the enclosing
// repository root of the working directory is used, or the working directory
// itself when walkUp is false or no repository encloses it.
func Resolve(cmd *cobra.Command, walkUp bool) (*Workspace, error) {
	pathFlag, err := cmd.Flags().GetString(FlagPath)
	if err != nil {
		return nil, clierr.Usage("get path flag: %v", err)
	}
	roadmapFlag, err := cmd.Flags().GetString(FlagRoadmap)
	if err != nil {
		return nil, clierr.Usage("get roadmap flag: %v", err)
	}

	var root string
	switch {
	case pathFlag != "":
		root, err = filepath.Abs(pathFlag)
		if err != nil {
			return nil, clierr.Wrapf(clierr.CodeUsage, err, "resolving --path %s", pathFlag)
		}
		info, statErr := os.Stat(root)
		if statErr != nil || !info.IsDir() {
			return nil, clierr.Usage("--path %s is not a directory", pathFlag)
		}
	default:
		wd, err := os.Getwd()
		if err != nil {
			return nil, clierr.Wrap(clierr.CodeFailure, "getting working directory", err)
		}
		root = wd
		if walkUp {
			root = projectroot.FindOr(wd)
		}
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeFailure, "loading configuration", err)
	}

	ws := &Workspace{Root: root, Config: cfg, RoadmapPath: cfg.RoadmapPath(root)}
	if roadmapFlag != "" {
		abs, err := filepath.Abs(roadmapFlag)
		if err != nil {
			return nil, clierr.Wrapf(clierr.CodeUsage, err, "resolving --roadmap %s", roadmapFlag)
		}
		ws.RoadmapPath = abs
	}
	return ws, nil
}

// Documents returns the roadmap store.
func (w *Workspace) Documents() *store.FileStore {
	return store.NewFileStore(w.RoadmapPath)
}

// Versions returns the snapshot store kept next to the roadmap.
func (w *Workspace) Versions() *store.VersionStore {
	return store.NewVersionStore(store.VersionsPath(w.RoadmapPath), w.Config.Versions.Keep)
}

// Author resolves --author, falling back to $USER.
func Author(cmd *cobra.Command) store.Author {
	name, _ := cmd.Flags().GetString(FlagAuthor)
	if name == "" {
		name = os.Getenv("USER")
	}
	if name == "" {
		name = "unknown"
	}
	return store.Author{ID: name, Name: name}
}

// Describe formats the roadmap path relative to the root when possible.
func (w *Workspace) Describe() string {
	if rel, err := filepath.Rel(w.Root, w.RoadmapPath); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return w.RoadmapPath
}
