package sequence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/sequencer/internal/system"
	"github.com/ivlev/sequencer/internal/timeline"
)

// LatestID selects the most recently written document.
const LatestID = "latest"

var ErrUnsupportedVersion = errors.New("unsupported document version")

// WriteDocument stores doc as YAML at path.
func WriteDocument(doc *Document, path string) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, data, 0644)
}

// ReadDocument loads a YAML document. Files without a version are read as
// the current one.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if doc.Version != "" && doc.Version != documentVersion {
		return nil, fmt.Errorf("%s: %w %q", filepath.Base(path), ErrUnsupportedVersion, doc.Version)
	}
	return &doc, nil
}

// Library serves stored documents from a directory as copy sources.
type Library struct {
	Dir string
}

func NewLibrary(dir string) *Library {
	return &Library{Dir: dir}
}

// NewPath returns a fresh <dir>/<name>_<timestamp>.yaml path. Spaces in
// name become underscores.
func (l *Library) NewPath(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if name == "" {
		name = "sequence"
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(l.Dir, fmt.Sprintf("%s_%s.yaml", name, timestamp))
}

// Path resolves a document id: "latest", a path to an existing file, or a
// name looked up as <dir>/<id>.yaml.
func (l *Library) Path(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("empty sequence id")
	}
	if id == LatestID {
		path, err := system.FindLatestFile(l.Dir, ".yaml", ".yml")
		if err != nil {
			return "", fmt.Errorf("latest sequence: %w", err)
		}
		return path, nil
	}
	if _, err := os.Stat(id); err == nil {
		return id, nil
	}

	name := id
	if ext := strings.ToLower(filepath.Ext(name)); ext != ".yaml" && ext != ".yml" {
		name += ".yaml"
	}
	return filepath.Join(l.Dir, name), nil
}

// Load reads the document with the given id.
func (l *Library) Load(id string) (*Document, error) {
	path, err := l.Path(id)
	if err != nil {
		return nil, err
	}
	doc, err := ReadDocument(path)
	if err != nil {
		return nil, fmt.Errorf("sequence %q: %w", id, err)
	}
	return doc, nil
}

// Source returns the document with the given id as a timeline source.
func (l *Library) Source(id string) (timeline.Source, error) {
	doc, err := l.Load(id)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Save writes doc under a fresh path from NewPath and returns it.
func (l *Library) Save(doc *Document) (string, error) {
	if err := os.MkdirAll(l.Dir, 0755); err != nil {
		return "", err
	}
	path := l.NewPath(doc.Name)
	if err := WriteDocument(doc, path); err != nil {
		return "", err
	}
	return path, nil
}
