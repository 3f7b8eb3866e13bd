package transform

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const transformableSource = `package main

func classify(n int) string {
	if n > 0 {
		return "positive"
	} else {
		return "negative"
	}
}
`

const trivialSource = `package main

func answer() int {
	return 42
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "classify.go", transformableSource)

	engine, err := New(zap.NewNop(), "")
	require.NoError(t, err)

	spec, err := ProcessFile(engine, path)
	require.NoError(t, err)
	require.NotNil(t, spec)
	assert.Equal(t, path, spec.FilePath)
	assert.Equal(t, "early_return", spec.PatternName)
}

func TestProcessFileMissing(t *testing.T) {
	engine, err := New(zap.NewNop(), "")
	require.NoError(t, err)

	_, err = ProcessFile(engine, filepath.Join(t.TempDir(), "nope.go"))
	assert.Error(t, err)
}

func TestProcessPathDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "classify.go", transformableSource)
	writeFile(t, dir, "answer.go", trivialSource)
	writeFile(t, dir, "notes.txt", "not source")

	engine, err := New(zap.NewNop(), "")
	require.NoError(t, err)

	specs, err := ProcessPath(context.Background(), zap.NewNop(), engine, dir)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "early_return", specs[0].PatternName)
}

func TestProcessPathSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "classify.go", transformableSource)

	engine, err := New(zap.NewNop(), "")
	require.NoError(t, err)

	specs, err := ProcessPath(context.Background(), zap.NewNop(), engine, path)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, path, specs[0].FilePath)
}

func TestProcessPathIgnoresNonGoFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "not source")

	engine, err := New(zap.NewNop(), "")
	require.NoError(t, err)

	specs, err := ProcessPath(context.Background(), zap.NewNop(), engine, path)
	assert.NoError(t, err)
	assert.Nil(t, specs)
}

func TestProcessPathSurvivesParseFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.go", "package main\n\nfunc broken( {")
	writeFile(t, dir, "classify.go", transformableSource)

	engine, err := New(zap.NewNop(), "")
	require.NoError(t, err)

	specs, err := ProcessPath(context.Background(), zap.NewNop(), engine, dir)
	require.NoError(t, err, "per-file parse failures must not abort the walk")
	require.Len(t, specs, 1)
	assert.Equal(t, "early_return", specs[0].PatternName)
}

func TestNewAppliesConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, ".recast.yaml")
	cfg := Config{
		Name:             "recast",
		MinConfidence:    0.9,
		DisabledPatterns: []string{"early_return", "guard_clause", "decompose_conditional"},
	}
	data := "name: recast\nmin_confidence: 0.9\ndisabled_patterns:\n  - early_return\n  - guard_clause\n  - decompose_conditional\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(data), 0o644))

	loaded, err := LoadConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.DisabledPatterns, loaded.DisabledPatterns)

	engine, err := New(zap.NewNop(), cfgPath)
	require.NoError(t, err)

	path := writeFile(t, dir, "classify.go", transformableSource)
	spec, err := ProcessFile(engine, path)
	require.NoError(t, err)
	assert.Nil(t, spec, "every applicable pattern is disabled")
}

func TestNewRejectsBadConfigPath(t *testing.T) {
	_, err := New(zap.NewNop(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
