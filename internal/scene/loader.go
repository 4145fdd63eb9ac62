package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/sequencer/internal/transform"
)

type worldFile struct {
	Primary string       `yaml:"primary"`
	Actors  []actorEntry `yaml:"actors"`
}

type actorEntry struct {
	Name        string            `yaml:"name"`
	Class       string            `yaml:"class"`
	Translation transform.Vector  `yaml:"translation"`
	Rotation    transform.Rotator `yaml:"rotation"`
	Scale       *transform.Vector `yaml:"scale"`
}

// LoadWorld reads a world description from a YAML file:
//
//	primary: Pawn
//	actors:
//	  - name: Pawn
//	    class: Character
//	    translation: {x: 0, y: 0, z: 90}
func LoadWorld(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseWorld(data)
}

func ParseWorld(data []byte) (*World, error) {
	var file worldFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode world: %w", err)
	}

	w := NewWorld()
	for i, e := range file.Actors {
		if e.Name == "" {
			return nil, fmt.Errorf("actor %d: missing name", i)
		}
		tr := transform.Identity()
		tr.Translation = e.Translation
		tr.Rotation = e.Rotation
		if e.Scale != nil {
			tr.Scale = *e.Scale
		}
		if err := w.Add(NewActor(e.Name, e.Class, tr)); err != nil {
			return nil, err
		}
	}

	if file.Primary != "" {
		if err := w.SetPrimary(file.Primary); err != nil {
			return nil, fmt.Errorf("primary: %w", err)
		}
	}
	return w, nil
}
