package source

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/sequencer/internal/timeline"
	"github.com/ivlev/sequencer/internal/transform"
)

// Record is one keyframe input: a transform at a moment in time, keyed with
// a single interpolation mode on all nine channels.
type Record struct {
	Transform     transform.Transform
	TimeInSeconds float64
	Interpolation timeline.Interpolation
}

// Source supplies keyframe records in caller order.
type Source interface {
	Records() ([]Record, error)
}

// Static is an in-memory Source.
type Static []Record

func (s Static) Records() ([]Record, error) {
	return s, nil
}

// YAMLSource reads records from a YAML file:
//
//	records:
//	  - time: 0
//	    interp: auto
//	    translation: {x: 0, y: 0, z: 0}
//	    rotation: {roll: 0, pitch: 0, yaw: 90}   # or quat: {x, y, z, w}
//	    scale: {x: 1, y: 1, z: 1}                # defaults to 1
type YAMLSource struct {
	Path string
}

func NewYAMLSource(path string) *YAMLSource {
	return &YAMLSource{Path: path}
}

type recordFile struct {
	Records []recordEntry `yaml:"records"`
}

type recordEntry struct {
	Time        *float64           `yaml:"time"`
	Interp      string             `yaml:"interp"`
	Translation transform.Vector   `yaml:"translation"`
	Rotation    *transform.Rotator `yaml:"rotation"`
	Quat        *transform.Quat    `yaml:"quat"`
	Scale       *transform.Vector  `yaml:"scale"`
}

func (s *YAMLSource) Records() ([]Record, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	return ParseRecords(data)
}

// ParseRecords decodes the YAML record format.
func ParseRecords(data []byte) ([]Record, error) {
	var file recordFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	records := make([]Record, 0, len(file.Records))
	for i, e := range file.Records {
		r, err := e.record()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func (e recordEntry) record() (Record, error) {
	if e.Time == nil {
		return Record{}, fmt.Errorf("missing time")
	}
	if e.Rotation != nil && e.Quat != nil {
		return Record{}, fmt.Errorf("both rotation and quat given")
	}

	tr := transform.Identity()
	tr.Translation = e.Translation
	switch {
	case e.Rotation != nil:
		tr.Rotation = *e.Rotation
	case e.Quat != nil:
		tr.Rotation = e.Quat.Rotator()
	}
	if e.Scale != nil {
		tr.Scale = *e.Scale
	}

	// An unknown name is a typo in hand-written input, so it fails here
	// instead of falling back like copied keys do.
	mode, err := timeline.ParseInterpolation(e.Interp)
	if err != nil {
		return Record{}, err
	}

	return Record{Transform: tr, TimeInSeconds: *e.Time, Interpolation: mode}, nil
}
