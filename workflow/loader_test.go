package workflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCommand(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(body), 0o644))
}

const sampleCommand = `name: create-content
description: Research and write.
steps:
  - agent: research
    description: Gather findings.
  - agent: copywriter
conditions:
  instant: Run now.
parameters:
  platform:
    description: Target platform.
    type: string
    values: [twitter, linkedin]
`

func TestLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	writeCommand(t, dir, "create-content", sampleCommand)

	loader := NewLoader(dir)
	def, err := loader.Load("create-content")
	require.NoError(t, err)

	assert.Equal(t, "create-content", def.Name)
	assert.Equal(t, []string{"research", "copywriter"}, def.AgentNames())
	assert.Equal(t, "Run now.", def.Conditions["instant"])
	assert.Equal(t, []string{"twitter", "linkedin"}, def.Parameters["platform"].Values)
}

func TestLoaderStripsLeadingSlash(t *testing.T) {
	dir := t.TempDir()
	writeCommand(t, dir, "create-content", sampleCommand)

	def, err := NewLoader(dir).Load("/create-content")
	require.NoError(t, err)
	assert.Equal(t, "create-content", def.Name)
}

func TestLoaderMissingCommand(t *testing.T) {
	loader := NewLoader(t.TempDir())
	_, err := loader.Load("nope")
	assert.ErrorIs(t, err, ErrCommandNotFound)
}

func TestLoaderRejectsPathTraversal(t *testing.T) {
	loader := NewLoader(t.TempDir())
	_, err := loader.Load("../etc/passwd")
	assert.ErrorIs(t, err, ErrCommandNotFound)
}

func TestLoaderTolerantSections(t *testing.T) {
	dir := t.TempDir()
	writeCommand(t, dir, "minimal", "steps:\n  - agent: research\n")

	def, err := NewLoader(dir).Load("minimal")
	require.NoError(t, err)
	assert.Equal(t, "minimal", def.Name, "name defaults to the file name")
	assert.Empty(t, def.Conditions)
	assert.Empty(t, def.Parameters)
}

func TestLoaderRejectsEmptySteps(t *testing.T) {
	dir := t.TempDir()
	writeCommand(t, dir, "empty", "name: empty\n")

	_, err := NewLoader(dir).Load("empty")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCommandNotFound)
}

func TestLoaderList(t *testing.T) {
	dir := t.TempDir()
	writeCommand(t, dir, "create-content", sampleCommand)
	writeCommand(t, dir, "analyze", "steps:\n  - agent: research\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0o644))

	names, err := NewLoader(dir).List()
	require.NoError(t, err)
	assert.Equal(t, []string{"analyze", "create-content"}, names)
}
