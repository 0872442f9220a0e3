package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModels(t *testing.T) {
	tests := map[string]error{
		"counter":      nil,
		"counter-stay": errViolated,
		"strand":       errViolated,
		"strand-fixed": nil,
		"philosophers": nil,
	}
	require.Len(t, models, len(tests))
	for name, expected := range tests {
		m, ok := models[name]
		require.True(t, ok, name)

		log, _ := test.NewNullLogger()
		out := &bytes.Buffer{}
		err := m.execute(context.Background(), run{formula: m.formula, out: out, log: log})
		assert.Equal(t, expected, err, "%v: %v", name, out.String())
		assert.NotEmpty(t, out.String(), name)
	}
}

func TestDotExport(t *testing.T) {
	log, _ := test.NewNullLogger()
	path := filepath.Join(t.TempDir(), "strand.dot")
	m := models["strand-fixed"]
	err := m.execute(context.Background(), run{formula: m.formula, out: &bytes.Buffer{}, log: log, dot: path})
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "digraph model {"))
}
