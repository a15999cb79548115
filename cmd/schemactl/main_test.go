package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userDoc = `schema = {"name": "user", "label": "User",
  "action": [{"name": "list", "template": "tablebase"}],
  "fields": [{"name": "email", "label": "Email", "type": "String"}],
  "base_props": {"column_list": ["email"]}}`

func TestRenderFiles(t *testing.T) {
	f := filepath.Join(t.TempDir(), "user.py")
	require.NoError(t, os.WriteFile(f, []byte(userDoc), 0o644))

	var out bytes.Buffer
	require.NoError(t, renderFiles(&out, []string{f}))
	assert.True(t, strings.HasPrefix(out.String(), "schema = {\n"))
	assert.Contains(t, out.String(), `"column_list": ['email'],`)

	assert.Error(t, renderFiles(&out, []string{filepath.Join(t.TempDir(), "missing.py")}))
}

func TestSyncFolder(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "user.py")
	require.NoError(t, os.WriteFile(f, []byte(userDoc), 0o644))

	var out bytes.Buffer
	require.NoError(t, syncFolder(context.Background(), &out, dir))
	assert.Contains(t, out.String(), "1 succeeded, 0 failed")

	backup, err := os.ReadFile(f + ".backup")
	require.NoError(t, err)
	assert.Equal(t, userDoc, string(backup))

	rewritten, err := os.ReadFile(f)
	require.NoError(t, err)
	assert.Contains(t, string(rewritten), `"column_list": ['email'],`)
}
