package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"adminschema/internal/schema"
	"adminschema/internal/store"
)

type downRepo struct{ *store.MemoryRepository }

func (downRepo) FetchModels(context.Context) ([]*schema.Model, error) {
	return nil, errors.New("connection refused")
}

func newTestRouter(t *testing.T, opts ...store.Option) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := store.New(append([]store.Option{store.WithLogger(zap.NewNop())}, opts...)...)
	return NewRouter(st, Options{Logger: zap.NewNop()}), st
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createModel(t *testing.T, r http.Handler) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/models", "")
	require.Equal(t, http.StatusCreated, w.Code)
	id, _ := decode(t, w)["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestModelEditingFlow(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createModel(t, r)
	base := "/api/models/" + id

	w := do(t, r, http.MethodPut, base+"/basic", `{"name":"user","label":"User"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodPut, base+"/actions", `[{"name":"list","template":"tablebase"}]`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodPost, base+"/fields", `{"name":"email","label":"Email","type":"String"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	fieldID, _ := decode(t, w)["id"].(string)
	assert.NotEmpty(t, fieldID)

	w = do(t, r, http.MethodPut, base+"/base_props", `{"column_list":["email"],"timeout":{"list":500}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, true, body["clamped"])
	assert.NotEmpty(t, body["message"])

	w = do(t, r, http.MethodGet, base+"/base_props/applicable?key=column_list", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["applicable"])

	w = do(t, r, http.MethodGet, base+"/render", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), `"column_list": ['email'],`)
	assert.Contains(t, w.Body.String(), `"list": 120`)
	assert.NotContains(t, w.Body.String(), fieldID)

	w = do(t, r, http.MethodPost, base+"/export", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, decode(t, w)["schema"], `"name": "user",`)

	w = do(t, r, http.MethodPost, base+"/save", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "persisted", decode(t, w)["state"])
}

func TestValidationStatuses(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createModel(t, r)
	base := "/api/models/" + id

	w := do(t, r, http.MethodPut, base+"/basic", `{"name":"","label":"User"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decode(t, w)["errors"])

	w = do(t, r, http.MethodPut, base+"/basic", `{"name":"user","label":"User"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodPost, base+"/fields", `{"name":"email","label":"Email","type":"String"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// повтор имени поля — конфликт
	w = do(t, r, http.MethodPost, base+"/fields", `{"name":"email","label":"Again","type":"String"}`)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	w = do(t, r, http.MethodPut, base+"/basic", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/api/models/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, r, http.MethodGet, "/api/models/missing/render", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoadTransportFailure(t *testing.T) {
	r, st := newTestRouter(t, store.WithRepository(downRepo{store.NewMemoryRepository()}))
	st.Create()

	w := do(t, r, http.MethodPost, "/api/models/_load", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "fetch", decode(t, w)["op"])
	assert.Len(t, st.List(), 1)
}

func TestSelectAndCurrent(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/api/current", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	first := createModel(t, r)
	second := createModel(t, r)
	w = do(t, r, http.MethodGet, "/api/current", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, second, decode(t, w)["id"])

	w = do(t, r, http.MethodPost, "/api/models/"+first+"/select", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, r, http.MethodGet, "/api/models", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first, decode(t, w)["current"])

	w = do(t, r, http.MethodDelete, "/api/models/"+first, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, r, http.MethodDelete, "/api/models/"+first, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParentMenuRoutes(t *testing.T) {
	r, st := newTestRouter(t)
	id := createModel(t, r)
	w := do(t, r, http.MethodPut, "/api/models/"+id+"/parent", `{"name":"system"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodPost, "/api/parent_menus", `{"name":"system","label":"Sys"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPost, "/api/parent_menus", `{"name":"shop"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodPut, "/api/parent_menus/system", `{"name":"admin","label":"Admin"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	m, err := st.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "admin", m.ParentName())

	w = do(t, r, http.MethodPut, "/api/parent_menus/nope", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodDelete, "/api/parent_menus/admin", "")
	require.Equal(t, http.StatusOK, w.Code)
	m, err = st.Get(id)
	require.NoError(t, err)
	assert.Nil(t, m.Parent)

	w = do(t, r, http.MethodGet, "/api/parent_menus", "")
	require.Equal(t, http.StatusOK, w.Code)
	var menus []schema.ParentMenu
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &menus))
	assert.Equal(t, []schema.ParentMenu{{Label: "Shop", Name: "shop"}}, menus)
}

func TestImportFolderAndSync(t *testing.T) {
	r, st := newTestRouter(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "user.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"name":"user","label":"User","parent":"system"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{`), 0o644))

	body, err := json.Marshal(map[string]any{"folder_path": dir})
	require.NoError(t, err)
	w := do(t, r, http.MethodPost, "/api/import_folder", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode(t, w)
	assert.Equal(t, float64(1), out["success_count"])
	assert.Equal(t, float64(1), out["failed_count"])
	require.Len(t, st.List(), 1)
	assert.Equal(t, "system", st.List()[0].ParentName())

	w = do(t, r, http.MethodPost, "/api/import_folder", `{"folder_path":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// без приёмника синхронизация невозможна
	w = do(t, r, http.MethodPost, "/api/sync", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMetaAndLint(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/api/meta", "")
	require.Equal(t, http.StatusOK, w.Code)
	meta := decode(t, w)
	assert.NotEmpty(t, meta["actions"])
	assert.Equal(t, []any{float64(schema.TimeoutMin), float64(schema.TimeoutMax)}, meta["timeout_range"])

	createModel(t, r)
	w = do(t, r, http.MethodGet, "/api/lint", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["ok"])
}

func TestAdminReload(t *testing.T) {
	r, st := newTestRouter(t)
	cat := filepath.Join(t.TempDir(), "menus.yaml")
	require.NoError(t, os.WriteFile(cat, []byte("menus:\n  - name: system\n    label: System\n"), 0o644))

	body, err := json.Marshal(map[string]any{"catalog_path": cat})
	require.NoError(t, err)
	w := do(t, r, http.MethodPost, "/api/admin/reload", string(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []schema.ParentMenu{{Label: "System", Name: "system"}}, st.ParentMenus())

	w = do(t, r, http.MethodPost, "/api/admin/reload", `{"catalog_path":"/no/such/file.yaml"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFieldFormInputs(t *testing.T) {
	r, _ := newTestRouter(t)
	id := createModel(t, r)
	base := "/api/models/" + id

	w := do(t, r, http.MethodPost, base+"/fields", `{"name":"title","label":"Title","type":"String",
		"copy_rule_name":"disabled",
		"validators":[{"name":"Length","kws":"{\"max\": 10}"},{"name":"Regexp","kws":"^[a-z"}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	field := decode(t, w)
	assert.Equal(t, "关闭", field["copy_rule"])
	assert.NotContains(t, field, "copy_rule_name")
	validators, ok := field["validators"].([]any)
	require.True(t, ok)
	require.Len(t, validators, 2)
	assert.Equal(t, map[string]any{"name": "Length", "kws": map[string]any{"max": float64(10)}}, validators[0])
	assert.Equal(t, map[string]any{"name": "Regexp", "kws": map[string]any{"raw": "^[a-z"}}, validators[1])

	fieldID, _ := field["id"].(string)
	w = do(t, r, http.MethodPut, base+"/fields/"+fieldID, `{"name":"title","label":"Title","type":"String","copy_rule_name":"with_button"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodPost, base+"/fields", `{"name":"other","label":"Other","type":"String","copy_rule_name":"sometimes"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
