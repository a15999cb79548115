// Package importer читает папку с документами моделей и собирает из них
// модели и меню родителей.
package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/duke-git/lancet/v2/slice"
	"go.uber.org/zap"

	"adminschema/internal/logger"
	"adminschema/internal/schema"
	"adminschema/internal/value"
)

// SourceParser превращает содержимое файла в модели. hint — расширение
// файла без точки.
type SourceParser interface {
	ParseSource(content []byte, hint string) ([]*schema.Model, error)
}

// JSONParser понимает документ модели в JSON, в том числе с префиксом
// присваивания "schema = ", и массив таких документов.
type JSONParser struct{}

var ErrNoName = errors.New("document has no model name")

func (JSONParser) ParseSource(content []byte, _ string) ([]*schema.Model, error) {
	text := strings.TrimSpace(string(content))
	if i := strings.IndexByte(text, '='); i > 0 && !strings.ContainsAny(text[:i], "{[\"") {
		text = strings.TrimSpace(text[i+1:])
	}
	v, err := value.Decode([]byte(text))
	if err != nil {
		return nil, err
	}
	var docs []*value.Object
	switch t := v.(type) {
	case *value.Object:
		docs = append(docs, t)
	case []any:
		for i, it := range t {
			o, ok := it.(*value.Object)
			if !ok {
				return nil, fmt.Errorf("item %d: expected object, got %s", i, value.Kind(it))
			}
			docs = append(docs, o)
		}
	default:
		return nil, fmt.Errorf("expected object or array, got %s", value.Kind(v))
	}

	out := make([]*schema.Model, 0, len(docs))
	for _, d := range docs {
		m, err := schema.FromDocument(d)
		if err != nil {
			return nil, err
		}
		if m.Name == "" {
			return nil, ErrNoName
		}
		out = append(out, m)
	}
	return out, nil
}

type Result struct {
	ParentMenus []schema.ParentMenu `json:"parent_menus"`
	Schemas     []*schema.Model     `json:"schemas"`
	FailedFiles []string            `json:"failed_files"`
	TotalFiles  int                 `json:"total_files"`
}

func (r *Result) SuccessCount() int { return len(r.Schemas) }

func (r *Result) FailedCount() int { return len(r.FailedFiles) }

// Message — сводка для пользователя.
func (r *Result) Message() string {
	msg := fmt.Sprintf("imported %d models", len(r.Schemas))
	if len(r.ParentMenus) > 0 {
		msg += fmt.Sprintf(", found %d parent menus", len(r.ParentMenus))
	}
	if len(r.FailedFiles) > 0 {
		msg += fmt.Sprintf("\n\nfailed files (%d): %s", len(r.FailedFiles), strings.Join(r.FailedFiles, ", "))
	}
	return msg
}

// DefaultExtensions — расширения, которые просматриваются без явного списка.
var DefaultExtensions = []string{".json", ".py"}

// ImportFolder просматривает dir без рекурсии. Файлы с префиксом "__"
// пропускаются; файл, который не разобрался, попадает в FailedFiles и не
// прерывает импорт остальных.
func ImportFolder(ctx context.Context, dir string, p SourceParser, exts ...string) (*Result, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("folder path is required")
	}
	st, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("folder does not exist: %s", dir)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("path is not a folder: %s", dir)
	}
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "__") || !slice.Contain(exts, filepath.Ext(name)) {
			continue
		}
		files = append(files, name)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no model files (%s) in folder: %s", strings.Join(exts, ", "), dir)
	}

	res := &Result{TotalFiles: len(files), Schemas: []*schema.Model{}, FailedFiles: []string{}, ParentMenus: []schema.ParentMenu{}}
	seen := map[string]bool{}
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		full := filepath.Join(dir, name)
		models, err := parseFile(p, full)
		if err != nil {
			logger.Warn("import: parse failed", zap.String("file", full), zap.Error(err))
			res.FailedFiles = append(res.FailedFiles, name)
			continue
		}
		for _, m := range models {
			m.SourceFile = full
			res.Schemas = append(res.Schemas, m)
			if m.Parent != nil && m.Parent.Name != "" && !seen[m.Parent.Name] {
				seen[m.Parent.Name] = true
				pm := *m.Parent
				if pm.Label == "" {
					pm.Label = schema.Title(pm.Name)
				}
				res.ParentMenus = append(res.ParentMenus, pm)
			}
		}
	}
	logger.Info("import finished", zap.String("folder", dir),
		zap.Int("total", res.TotalFiles), zap.Int("failed", len(res.FailedFiles)))
	return res, nil
}

func parseFile(p SourceParser, path string) ([]*schema.Model, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.ParseSource(b, strings.TrimPrefix(filepath.Ext(path), "."))
}
