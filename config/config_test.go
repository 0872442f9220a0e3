package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ltlmc/traversal"
)

const example = `
model: strand
formula: G F atb
translator: ltl3ba
workers: 4
backlog: 0
maxDepth: 20
maxActions: 3
traceEvery: 1000
traceErrors: true
ignoreLoopbacks: true
metrics: strand
timeout: 30s
dot: out.dot
logLevel: debug
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(example))
	require.NoError(t, err)

	assert.Equal(t, "strand", f.Model)
	assert.Equal(t, "G F atb", f.Formula)
	assert.Equal(t, "ltl3ba", f.Translator)
	assert.Equal(t, 4, f.Workers)
	require.NotNil(t, f.Backlog)
	assert.Equal(t, 0, *f.Backlog)
	require.NotNil(t, f.MaxDepth)
	assert.Equal(t, 20, *f.MaxDepth)
	assert.Equal(t, "out.dot", f.Dot)

	d, err := f.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	level, err := f.Level()
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, level)

	opts := f.TraversalOptions()
	assert.Len(t, opts, 8)
	assert.Equal(t, 20, traversal.DepthBound(opts...))
}

func TestDefaults(t *testing.T) {
	f, err := Parse([]byte("model: counter\n"))
	require.NoError(t, err)
	assert.Empty(t, f.TraversalOptions())
	assert.Equal(t, -1, traversal.DepthBound(f.TraversalOptions()...))

	d, err := f.TimeoutDuration()
	require.NoError(t, err)
	assert.Zero(t, d)

	level, err := f.Level()
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, level)
}

func TestInvalid(t *testing.T) {
	for _, text := range []string{
		"workers: -1",
		"backlog: -5",
		"traceEvery: -1",
		"timeout: soon",
		"logLevel: loud",
		"workers: [1, 2]",
	} {
		_, err := Parse([]byte(text))
		assert.Error(t, err, text)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(example), 0o600))
	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "strand", f.Model)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
