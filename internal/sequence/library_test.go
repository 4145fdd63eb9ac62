package sequence

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewPath(t *testing.T) {
	lib := NewLibrary("sequences")
	path := lib.NewPath("door open")

	if !strings.HasPrefix(filepath.Base(path), "door_open_") {
		t.Errorf("Path should start with 'door_open_': %s", path)
	}
	if filepath.Dir(path) != "sequences" {
		t.Errorf("Path should be in sequences: %s", path)
	}
	if !strings.HasSuffix(path, ".yaml") {
		t.Errorf("Path should end with .yaml: %s", path)
	}

	if !strings.HasPrefix(filepath.Base(lib.NewPath("  ")), "sequence_") {
		t.Error("Blank name should fall back to 'sequence'")
	}
}

func TestLibraryLatest(t *testing.T) {
	dir := t.TempDir()
	lib := NewLibrary(dir)

	files := []string{
		filepath.Join(dir, "walk_2026-02-12_10-00-00.yaml"),
		filepath.Join(dir, "walk_2026-02-13_01-00-00.yaml"),
		filepath.Join(dir, "imported.yml"),
	}
	for i, f := range files {
		if err := os.WriteFile(f, []byte("version: \"1.0\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		if err := os.Chtimes(f, modTime, modTime); err != nil {
			t.Fatal(err)
		}
	}
	future := time.Now().Add(24 * time.Hour)
	notes := filepath.Join(dir, "notes.txt")
	os.WriteFile(notes, []byte("ignored"), 0644)
	os.Chtimes(notes, future, future)

	latest, err := lib.Path(LatestID)
	if err != nil {
		t.Fatalf("Path(latest) failed: %v", err)
	}
	if latest != files[2] {
		t.Errorf("Expected %s, got %s", files[2], latest)
	}

	if _, err := NewLibrary(t.TempDir()).Path(LatestID); err == nil {
		t.Error("Expected error for empty library")
	}
	if _, err := NewLibrary(filepath.Join(dir, "missing")).Path(LatestID); err == nil {
		t.Error("Expected error for missing library directory")
	}
}

func TestLibraryPath(t *testing.T) {
	lib := NewLibrary("seq")
	tests := []struct {
		id   string
		want string
	}{
		{"walk", filepath.Join("seq", "walk.yaml")},
		{"walk.yaml", filepath.Join("seq", "walk.yaml")},
		{"walk.yml", filepath.Join("seq", "walk.yml")},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := lib.Path(tt.id)
			if err != nil || got != tt.want {
				t.Errorf("Path(%q) = %q, %v; want %q", tt.id, got, err, tt.want)
			}
		})
	}
	if _, err := lib.Path(""); err == nil {
		t.Error("Expected error for empty id")
	}
}

func TestLibrary(t *testing.T) {
	lib := NewLibrary(filepath.Join(t.TempDir(), "sequences"))
	doc := FromTimeline("orbit", buildTimeline(t), "", "Camera")

	path, err := lib.Save(doc)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	for _, id := range []string{LatestID, path} {
		src, err := lib.Source(id)
		if err != nil {
			t.Fatalf("Source(%q) failed: %v", id, err)
		}
		tracks, _, err := src.TransformTracks()
		if err != nil || len(tracks) != 1 || tracks[0].Entity != "Camera" {
			t.Errorf("Source(%q): unexpected tracks %+v, %v", id, tracks, err)
		}
	}

	if _, err := lib.Source("missing"); err == nil {
		t.Error("Expected error for missing document")
	}
}

func TestReadDocumentVersion(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"current", "version: \"1.0\"\nname: a\n", false},
		{"unversioned", "name: a\n", false},
		{"newer", "version: \"2.0\"\nname: a\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := ReadDocument(path)
			if tt.wantErr != errors.Is(err, ErrUnsupportedVersion) {
				t.Errorf("ReadDocument() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
