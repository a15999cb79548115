package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminschema/internal/schema"
)

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(`
menus:
  - name: system
    label: 系统管理
    order: 2
  - name: user_admin
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte(`
menus:
  - name: shop
    label: Shop
    order: 1
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("ignored"), 0o644))

	menus, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []schema.ParentMenu{
		{Label: "User_Admin", Name: "user_admin"},
		{Label: "Shop", Name: "shop"},
		{Label: "系统管理", Name: "system"},
	}, menus)
}

func TestLoadErrors(t *testing.T) {
	menus, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, menus)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	f := filepath.Join(t.TempDir(), "dup.yaml")
	require.NoError(t, os.WriteFile(f, []byte("menus:\n  - name: a\n  - name: a\n"), 0o644))
	_, err = Load(f)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(f, []byte("menus:\n  - label: x\n"), 0o644))
	_, err = Load(f)
	assert.Error(t, err)
}
