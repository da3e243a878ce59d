package dimacs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseModels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "instance.cnf.models")
	content := "1 2 -3 0\n-1 -2 3 0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %s", err)
	}

	want := [][]bool{
		{true, true, false},
		{false, false, true},
	}

	got, err := ParseModels(path)
	if err != nil {
		t.Fatalf("ParseModels(): want no error, got %s", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseModels(): mismatch (-want +got):\n%s", diff)
	}
}

func TestParseModels_empty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.cnf.models")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %s", err)
	}

	got, err := ParseModels(path)
	if err != nil {
		t.Fatalf("ParseModels(): want no error, got %s", err)
	}
	if len(got) != 0 {
		t.Errorf("ParseModels(): want no models, got %d", len(got))
	}
}

func TestParseModels_noFile(t *testing.T) {
	if _, err := ParseModels(filepath.Join(t.TempDir(), "missing.models")); err == nil {
		t.Errorf("ParseModels(): want error, got none")
	}
}
