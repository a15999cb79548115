// Package catalog читает заранее заданные меню родителей из YAML.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"adminschema/internal/schema"
)

// MenuFile — один файл каталога.
type MenuFile struct {
	Menus []MenuItem `yaml:"menus"`
}

type MenuItem struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
	// Order — позиция в дереве навигации; равные сохраняют порядок файлов.
	Order int `yaml:"order,omitempty"`
}

// Load читает каталог из файла или из всех *.yaml/*.yml папки (по имени
// файла). Пустой путь — пустой каталог. Повтор имени — ошибка.
func Load(path string) ([]schema.ParentMenu, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	var files []string
	if st.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && (strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml")) {
				files = append(files, filepath.Join(path, e.Name()))
			}
		}
	} else {
		files = []string{path}
	}

	var items []MenuItem
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		var mf MenuFile
		if err := yaml.Unmarshal(data, &mf); err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		items = append(items, mf.Menus...)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })

	out := make([]schema.ParentMenu, 0, len(items))
	seen := map[string]bool{}
	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return nil, fmt.Errorf("catalog menu without name (label %q)", it.Label)
		}
		if seen[name] {
			return nil, fmt.Errorf("catalog menu %q defined more than once", name)
		}
		seen[name] = true
		label := strings.TrimSpace(it.Label)
		if label == "" {
			label = schema.Title(name)
		}
		out = append(out, schema.ParentMenu{Label: label, Name: name})
	}
	return out, nil
}
