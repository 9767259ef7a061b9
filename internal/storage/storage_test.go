package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("output directory not created: %v", err)
	}
	if got := s.Path("pb_widget.md"); got != filepath.Join(dir, "pb_widget.md") {
		t.Errorf("Path() = %q", got)
	}
}

func TestNewExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := New("~/pb-tracker")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if want := filepath.Join(home, "pb-tracker"); s.dataDir != want {
		t.Errorf("dataDir = %q, want %q", s.dataDir, want)
	}
}

func TestSaveWidget(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	content := "### 🏃 Automatic Personal Best Tracker\n\n| Event | PB | Status |"
	path, err := s.SaveWidget("pb_widget.md", content)
	if err != nil {
		t.Fatalf("SaveWidget() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading widget: %v", err)
	}
	if string(got) != content {
		t.Errorf("widget = %q, want %q", got, content)
	}
}

func TestSaveReport(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	report := map[string]any{
		"run_id": "abc",
		"merged": map[string]string{"200m": "21.18s"},
	}
	path, err := s.SaveReport("report.json", report)
	if err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"merged\"") {
		t.Errorf("report not indented:\n%s", data)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded["run_id"] != "abc" {
		t.Errorf("run_id = %v, want abc", decoded["run_id"])
	}
}

func TestSaveReportUnencodable(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := s.SaveReport("report.json", map[string]any{"bad": make(chan int)}); err == nil {
		t.Error("SaveReport() expected error for unencodable value")
	}
	if _, err := os.Stat(s.Path("report.json")); !os.IsNotExist(err) {
		t.Error("report file written despite encoding error")
	}
}
