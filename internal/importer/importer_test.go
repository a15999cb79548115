package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminschema/internal/schema"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
}

func TestImportFolder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a_user.json":   `{"name": "user", "label": "User", "parent": "system"}`,
		"b_order.py":    `schema = {"name": "order", "label": "Order", "parent": {"label": "Shop", "name": "shop"}}`,
		"c_role.json":   `{"name": "role", "label": "Role", "parent": {"name": "system", "label": "Other"}}`,
		"d_broken.py":   `schema = {"name": `,
		"e_noname.json": `{"label": "Nameless"}`,
		"__init__.py":   `{"name": "skip"}`,
		"notes.txt":     `{"name": "skip"}`,
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))

	res, err := ImportFolder(context.Background(), dir, JSONParser{})
	require.NoError(t, err)
	assert.Equal(t, 5, res.TotalFiles)
	assert.Equal(t, 3, res.SuccessCount())
	assert.Equal(t, []string{"d_broken.py", "e_noname.json"}, res.FailedFiles)

	assert.Equal(t, "user", res.Schemas[0].Name)
	assert.Equal(t, filepath.Join(dir, "a_user.json"), res.Schemas[0].SourceFile)
	assert.Equal(t, []schema.ParentMenu{
		{Label: "System", Name: "system"},
		{Label: "Shop", Name: "shop"},
	}, res.ParentMenus)
	assert.Contains(t, res.Message(), "imported 3 models")
}

func TestImportFolderErrors(t *testing.T) {
	_, err := ImportFolder(context.Background(), "", JSONParser{})
	assert.Error(t, err)
	_, err = ImportFolder(context.Background(), filepath.Join(t.TempDir(), "missing"), JSONParser{})
	assert.Error(t, err)

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"x.txt": "{}"})
	_, err = ImportFolder(context.Background(), dir, JSONParser{})
	assert.Error(t, err)
	_, err = ImportFolder(context.Background(), filepath.Join(dir, "x.txt"), JSONParser{})
	assert.Error(t, err)
}

func TestJSONParserArray(t *testing.T) {
	models, err := JSONParser{}.ParseSource([]byte(`[{"name": "a", "label": "A"}, {"name": "b", "label": "B"}]`), "json")
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "b", models[1].Name)

	_, err = JSONParser{}.ParseSource([]byte(`[1]`), "json")
	assert.Error(t, err)
	_, err = JSONParser{}.ParseSource([]byte(`"text"`), "json")
	assert.Error(t, err)
	_, err = JSONParser{}.ParseSource([]byte(`{"label": "x"}`), "json")
	assert.ErrorIs(t, err, ErrNoName)
}
