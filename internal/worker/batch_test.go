package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/veritas/internal/model"
)

// mockAssessor returns a report per input and fails on text containing "fail"
type mockAssessor struct {
	calls atomic.Int32
}

func (m *mockAssessor) assess(ctx context.Context, in Input) (*model.Report, error) {
	m.calls.Add(1)
	time.Sleep(5 * time.Millisecond)
	if strings.Contains(in.Text, "fail") {
		return nil, errors.New("assess error")
	}
	input := "text"
	if in.URL != "" {
		input = "url"
	}
	return &model.Report{Input: input, SourceURL: in.URL}, nil
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inputs.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseInput(t *testing.T) {
	tests := []struct {
		line string
		url  string
		text string
	}{
		{"https://example.com/a", "https://example.com/a", ""},
		{"  HTTP://EXAMPLE.COM  ", "HTTP://EXAMPLE.COM", ""},
		{"Narendra Modi is alive.", "", "Narendra Modi is alive."},
		{"ftp://example.com", "", "ftp://example.com"},
	}

	for _, tt := range tests {
		in := ParseInput(tt.line, 3)
		if in.URL != tt.url || in.Text != tt.text || in.Line != 3 {
			t.Errorf("ParseInput(%q) = %+v", tt.line, in)
		}
	}
}

func TestBatchProcessor_Process(t *testing.T) {
	assessor := &mockAssessor{}
	processor := NewBatchProcessor(assessor.assess, 2, nil)

	inputs := []Input{
		{Line: 1, URL: "http://example.com"},
		{Line: 2, Text: "The president visited Ohio."},
		{Line: 3, URL: "http://bing.com"},
	}
	results := processor.Process(context.Background(), inputs)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if res.Index != i || res.Input.Line != i+1 {
			t.Errorf("result %d out of order: %+v", i, res.Input)
		}
		if res.Error != nil {
			t.Errorf("unexpected error for line %d: %v", res.Input.Line, res.Error)
		}
		if res.Report == nil {
			t.Errorf("expected report for line %d", res.Input.Line)
		}
	}
	if results[1].Report.Input != "text" || results[2].Report.SourceURL != "http://bing.com" {
		t.Errorf("reports not matched to inputs: %+v %+v", results[1].Report, results[2].Report)
	}
}

func TestBatchProcessor_Process_Error(t *testing.T) {
	processor := NewBatchProcessor((&mockAssessor{}).assess, 2, nil)

	results := processor.Process(context.Background(), []Input{{Line: 1, Text: "please fail"}})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].GetError() == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Report != nil {
		t.Error("expected nil report on error")
	}
}

func TestBatchProcessor_Process_Empty(t *testing.T) {
	processor := NewBatchProcessor((&mockAssessor{}).assess, 2, nil)

	results := processor.Process(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestReadInputsFromFile(t *testing.T) {
	path := writeTempFile(t, "http://example.com\n# comment\nThe mayor was elected in May.\n   \nhttp://bing.com   \nhttp://example.com\n")

	inputs, err := ReadInputsFromFile(path)
	if err != nil {
		t.Fatalf("ReadInputsFromFile failed: %v", err)
	}

	expected := []Input{
		{Line: 1, URL: "http://example.com"},
		{Line: 3, Text: "The mayor was elected in May."},
		{Line: 5, URL: "http://bing.com"},
	}
	if len(inputs) != len(expected) {
		t.Fatalf("expected %d inputs, got %d", len(expected), len(inputs))
	}
	for i, in := range inputs {
		if in != expected[i] {
			t.Errorf("input %d = %+v, want %+v", i, in, expected[i])
		}
	}
}

func TestReadInputsFromFile_NonExistent(t *testing.T) {
	_, err := ReadInputsFromFile("non_existent_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeTempFile(t, "http://example.com\nA study found that sleep helps.\n# comment\n\nthis will fail\n")

	assessor := &mockAssessor{}
	processor := NewBatchProcessor(assessor.assess, 2, nil)

	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[2].Error == nil {
		t.Error("expected the last line to fail")
	}
	if got := assessor.calls.Load(); got != 3 {
		t.Errorf("expected 3 assessments, got %d", got)
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor((&mockAssessor{}).assess, 2, nil)

	_, err := processor.ProcessFile(context.Background(), "no_such_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile_Empty(t *testing.T) {
	processor := NewBatchProcessor((&mockAssessor{}).assess, 2, nil)

	results, err := processor.ProcessFile(context.Background(), writeTempFile(t, ""))
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results for empty file, got %d", len(results))
	}
}
