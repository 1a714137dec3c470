package initializer

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"

	"github.com/hacklet1101/roadmap-kit/internal/roadmap"
)

// Environment is the detected project ecosystem.
type Environment string

const (
	EnvJavaScript Environment = "javascript"
	EnvPython     Environment = "python"
	EnvGo         Environment = "go"
	EnvRust       Environment = "rust"
	EnvJava       Environment = "java"
	EnvRuby       Environment = "ruby"
	EnvPHP        Environment = "php"
	EnvGeneric    Environment = "generic"
)

// markers are checked in order; the first present file decides.
var markers = []struct {
	file string
	env  Environment
}{
	{"package.json", EnvJavaScript},
	{"requirements.txt", EnvPython},
	{"Pipfile", EnvPython},
	{"go.mod", EnvGo},
	{"Cargo.toml", EnvRust},
	{"pom.xml", EnvJava},
	{"build.gradle", EnvJava},
	{"Gemfile", EnvRuby},
	{"composer.json", EnvPHP},
}

// Detect returns the environment of the project at root.
func Detect(root string) Environment {
	for _, m := range markers {
		if _, err := os.Stat(filepath.Join(root, m.file)); err == nil {
			return m.env
		}
	}
	return EnvGeneric
}

// jsFrameworks maps dependency names to stack labels, in report order.
var jsFrameworks = []struct {
	dep   string
	label string
}{
	{"react", "React"},
	{"next", "Next.js"},
	{"vue", "Vue"},
	{"express", "Express"},
	{"@nestjs/core", "NestJS"},
	{"prisma", "Prisma"},
	{"typescript", "TypeScript"},
}

type packageJSON struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Version         string            `json:"version"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

type cargoManifest struct {
	Package struct {
		Name        string `toml:"name"`
		Version     string `toml:"version"`
		Description string `toml:"description"`
	} `toml:"package"`
}

// ProjectInfo reads the project metadata the environment's manifest offers.
// Unset fields are filled with starter defaults later.
func ProjectInfo(root string, env Environment) (roadmap.ProjectInfo, error) {
	var info roadmap.ProjectInfo

	switch env {
	case EnvJavaScript:
		file := filepath.Join(root, "package.json")
		data, err := os.ReadFile(file) //nolint:gosec // G304: manifest under the project root
		if err != nil {
			return info, fmt.Errorf("reading package.json: %w", err)
		}
		var pkg packageJSON
		if err := json.Unmarshal(data, &pkg); err != nil {
			return info, fmt.Errorf("parsing %s: %w", file, err)
		}
		info.Name = pkg.Name
		info.Description = pkg.Description
		info.Version = pkg.Version
		info.Stack = jsStack(pkg)

	case EnvPython:
		info.Stack = []string{"Python"}

	case EnvGo:
		info.Stack = []string{"Go"}
		file := filepath.Join(root, "go.mod")
		data, err := os.ReadFile(file) //nolint:gosec // G304: manifest under the project root
		if err != nil {
			return info, fmt.Errorf("reading go.mod: %w", err)
		}
		mod, err := modfile.ParseLax(file, data, nil)
		if err != nil {
			return info, fmt.Errorf("parsing go.mod: %w", err)
		}
		if mod.Module != nil {
			info.Name = path.Base(mod.Module.Mod.Path)
		}

	case EnvRust:
		info.Stack = []string{"Rust"}
		file := filepath.Join(root, "Cargo.toml")
		data, err := os.ReadFile(file) //nolint:gosec // G304: manifest under the project root
		if err != nil {
			return info, fmt.Errorf("reading Cargo.toml: %w", err)
		}
		var manifest cargoManifest
		if err := toml.Unmarshal(data, &manifest); err != nil {
			return info, fmt.Errorf("parsing %s: %w", file, err)
		}
		info.Name = manifest.Package.Name
		info.Description = manifest.Package.Description
		info.Version = manifest.Package.Version
	}
	return info, nil
}

func jsStack(pkg packageJSON) []string {
	stack := []string{}
	for _, fw := range jsFrameworks {
		_, dep := pkg.Dependencies[fw.dep]
		_, dev := pkg.DevDependencies[fw.dep]
		if dep || dev {
			stack = append(stack, fw.label)
		}
	}
	if len(stack) == 0 {
		stack = append(stack, "JavaScript")
	}
	return stack
}
