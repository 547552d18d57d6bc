package embedded

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestReadFilePrefersEmbeddedData(t *testing.T) {
	Init(fstest.MapFS{
		"data/creatures.yaml": {Data: []byte("version: embedded")},
	})
	defer Init(nil)

	data, err := ReadFile("./data/creatures.yaml")
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(data) != "version: embedded" {
		t.Errorf("got %q, want embedded content", data)
	}
	if !Exists("data/creatures.yaml") {
		t.Error("Exists should report embedded file")
	}
}

func TestReadFileFallsBackToDisk(t *testing.T) {
	Init(nil)

	path := filepath.Join(t.TempDir(), "override.yaml")
	if err := os.WriteFile(path, []byte("version: disk"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(data) != "version: disk" {
		t.Errorf("got %q, want disk content", data)
	}
	if IsInitialized() {
		t.Error("IsInitialized should be false after Init(nil)")
	}
}

func TestReadFileMissing(t *testing.T) {
	Init(fstest.MapFS{})
	defer Init(nil)

	if _, err := ReadFile("data/missing.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
	if Exists("data/missing.yaml") {
		t.Error("Exists should be false for missing file")
	}
}
