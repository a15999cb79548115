// Package sink записывает канонический текст схем обратно в их исходные файлы.
package sink

import "fmt"

// Item — одна модель для записи.
type Item struct {
	FilePath   string `json:"file_path"`
	SchemaText string `json:"schema_content"`
	ModelName  string `json:"model_name"`
}

type Result struct {
	ModelName string `json:"model_name"`
	FilePath  string `json:"file_path"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
	SHA256    string `json:"sha256,omitempty"`
	Backup    string `json:"backup,omitempty"`
}

// Report — итог по каждому файлу; сбой одного файла не прерывает остальные.
type Report struct {
	SuccessCount int      `json:"success_count"`
	FailedCount  int      `json:"failed_count"`
	Results      []Result `json:"results"`
}

func (r *Report) ok(res Result) {
	res.OK = true
	r.SuccessCount++
	r.Results = append(r.Results, res)
}

func (r *Report) fail(it Item, format string, args ...any) {
	r.FailedCount++
	r.Results = append(r.Results, Result{
		ModelName: it.ModelName,
		FilePath:  it.FilePath,
		Error:     fmt.Sprintf(format, args...),
	})
}

// Message — сводка для пользователя.
func (r Report) Message() string {
	return fmt.Sprintf("sync finished: %d succeeded, %d failed", r.SuccessCount, r.FailedCount)
}

const BackupSuffix = ".backup"
