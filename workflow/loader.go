package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader reads workflow definitions from a directory of YAML command files.
// A command named "create-content" maps to <dir>/create-content.yaml.
type Loader struct {
	dir string
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load parses the definition for a command. A missing file is
// ErrCommandNotFound; a present but malformed file is an error.
func (l *Loader) Load(command string) (*Definition, error) {
	name := NormalizeCommand(command)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrCommandNotFound, command)
	}

	data, err := os.ReadFile(filepath.Join(l.dir, name+".yaml"))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %q", ErrCommandNotFound, command)
	}
	if err != nil {
		return nil, fmt.Errorf("workflow: read command %q: %w", name, err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("workflow: parse command %q: %w", name, err)
	}
	if def.Name == "" {
		def.Name = name
	}
	if len(def.Steps) == 0 {
		return nil, fmt.Errorf("workflow: command %q defines no steps", name)
	}
	return &def, nil
}

// List returns the command names available in the directory, sorted.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("workflow: list commands: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(entry.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
