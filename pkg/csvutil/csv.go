package csvutil

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/morning-sprint/backend/domain"
)

// utf8BOM makes the export open cleanly in spreadsheet tools that sniff
// encoding from the first bytes.
const utf8BOM = "\ufeff"

var taskHeader = []string{"id", "content", "category", "completed", "completedAt", "isShared", "createdAt"}

// MarshalTasks renders tasks as a CRLF-terminated CSV document with a UTF-8 BOM.
func MarshalTasks(tasks []domain.Task) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(taskHeader); err != nil {
		return "", err
	}
	for _, task := range tasks {
		record := []string{
			task.ID,
			task.Content,
			string(task.Category),
			strconv.FormatBool(task.Completed),
			formatTime(task.CompletedAt),
			strconv.FormatBool(task.IsShared),
			task.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Parse reads CSV content into records, tolerating a leading BOM and
// variable column counts.
func Parse(content string) ([][]string, error) {
	content = strings.TrimPrefix(content, utf8BOM)

	r := csv.NewReader(strings.NewReader(content))
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
