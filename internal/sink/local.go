package sink

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalSink пишет в локальные файлы. Файл должен уже существовать: перед
// записью он копируется в <file>.backup.
type LocalSink struct {
	Root string // если задан, относительные пути считаются от него
}

func (s *LocalSink) resolve(p string) string {
	if s.Root == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Root, filepath.FromSlash(p))
}

func (s *LocalSink) SyncToFiles(ctx context.Context, items []Item) (Report, error) {
	var rep Report
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if strings.TrimSpace(it.FilePath) == "" || it.SchemaText == "" {
			rep.fail(it, "%s: missing file path or content", it.ModelName)
			continue
		}
		full := s.resolve(it.FilePath)
		st, err := os.Stat(full)
		if errors.Is(err, fs.ErrNotExist) {
			rep.fail(it, "%s: file does not exist (%s)", it.ModelName, it.FilePath)
			continue
		}
		if err != nil {
			rep.fail(it, "%s: %v", it.ModelName, err)
			continue
		}

		backup := full + BackupSuffix
		if err := copyFile(full, backup, st.Mode().Perm()); err != nil {
			rep.fail(it, "%s: backup: %v", it.ModelName, err)
			continue
		}
		sum, err := writeFile(full, it.SchemaText, st.Mode().Perm())
		if err != nil {
			rep.fail(it, "%s: %v", it.ModelName, err)
			continue
		}
		rep.ok(Result{ModelName: it.ModelName, FilePath: it.FilePath, SHA256: sum, Backup: backup})
	}
	return rep, nil
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// writeFile пишет текст и возвращает sha256 записанного.
func writeFile(path, text string, perm fs.FileMode) (string, error) {
	f, err := os.OpenFile(path, os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(f, h), strings.NewReader(text)); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
