package csvutil

import (
	"strings"
	"testing"
	"time"

	"github.com/morning-sprint/backend/domain"
)

func TestMarshalTasksRoundTrip(t *testing.T) {
	completed := time.Date(2026, 3, 10, 6, 45, 0, 0, time.UTC)
	tasks := []domain.Task{
		{
			ID:          "t1",
			Content:     "명상, 그리고 \"독서\"",
			Category:    domain.CategoryMeditation,
			Completed:   true,
			CompletedAt: &completed,
			IsShared:    true,
			CreatedAt:   time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC),
		},
		{
			ID:        "t2",
			Content:   "줄바꿈\n포함",
			Category:  domain.CategoryOther,
			CreatedAt: time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC),
		},
	}

	out, err := MarshalTasks(tasks)
	if err != nil {
		t.Fatalf("MarshalTasks: %v", err)
	}
	if !strings.HasPrefix(out, "\ufeff") {
		t.Error("output must start with a UTF-8 BOM")
	}
	if !strings.Contains(out, "\r\n") {
		t.Error("output must use CRLF line endings")
	}

	records, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header plus 2 rows", len(records))
	}
	if records[0][0] != "id" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][1] != "명상, 그리고 \"독서\"" {
		t.Errorf("quoted content damaged: %q", records[1][1])
	}
	if records[1][4] != "2026-03-10T06:45:00Z" {
		t.Errorf("completedAt = %q", records[1][4])
	}
	if records[2][1] != "줄바꿈\n포함" {
		t.Errorf("multiline content damaged: %q", records[2][1])
	}
	if records[2][4] != "" {
		t.Errorf("missing completion must render empty, got %q", records[2][4])
	}
}

func TestMarshalTasksEmpty(t *testing.T) {
	out, err := MarshalTasks(nil)
	if err != nil {
		t.Fatalf("MarshalTasks: %v", err)
	}
	records, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("empty export should still carry the header, got %d records", len(records))
	}
}

func TestParseWithoutBOM(t *testing.T) {
	records, err := Parse("a,b\r\n1,2\r\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(records) != 2 || records[1][0] != "1" {
		t.Errorf("records = %v", records)
	}
}
