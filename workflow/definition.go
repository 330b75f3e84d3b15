// Package workflow loads command definitions and drives their execution:
// persona selection, per-step agent dispatch, record persistence, and
// progress notifications.
package workflow

import "strings"

// Step is one agent invocation within a workflow.
type Step struct {
	Agent       string `yaml:"agent"`
	Description string `yaml:"description,omitempty"`
}

// Parameter documents one accepted task parameter for a command.
type Parameter struct {
	Description string   `yaml:"description,omitempty"`
	Type        string   `yaml:"type,omitempty"`
	Values      []string `yaml:"values,omitempty"`
}

// Definition is a declarative workflow parsed from a command file.
// Missing sections parse to their zero values.
type Definition struct {
	Name        string               `yaml:"name"`
	Description string               `yaml:"description,omitempty"`
	Steps       []Step               `yaml:"steps"`
	Conditions  map[string]string    `yaml:"conditions,omitempty"`
	Parameters  map[string]Parameter `yaml:"parameters,omitempty"`
}

// AgentNames returns the agents referenced by the definition, in step order.
func (d *Definition) AgentNames() []string {
	names := make([]string, 0, len(d.Steps))
	for _, step := range d.Steps {
		names = append(names, step.Agent)
	}
	return names
}

// NormalizeCommand strips the leading slash clients include in command
// names, so "/create-content" and "create-content" resolve identically.
func NormalizeCommand(command string) string {
	return strings.TrimPrefix(strings.TrimSpace(command), "/")
}
