package generator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"wahoo2garmin/workout"
)

// Sink persists conversion output. The artifact is overwritten on every
// attempt; the converter validates the persisted form, not the in-memory
// response. The workout JSON is written once, on success.
type Sink interface {
	WriteArtifact(src string) error
	ReadArtifact() (string, error)
	WriteWorkout(w *workout.Workout) error
}

// FileSink writes the artifact next to a derived .json file holding the
// canonical workout map.
type FileSink struct {
	ArtifactPath string
	WorkoutPath  string
}

// NewFileSink derives the workout JSON path from the artifact path by
// swapping the extension.
func NewFileSink(artifactPath string) *FileSink {
	ext := filepath.Ext(artifactPath)
	return &FileSink{
		ArtifactPath: artifactPath,
		WorkoutPath:  strings.TrimSuffix(artifactPath, ext) + ".json",
	}
}

func (s *FileSink) WriteArtifact(src string) error {
	return os.WriteFile(s.ArtifactPath, []byte(strings.TrimSpace(src)+"\n"), 0o644)
}

func (s *FileSink) ReadArtifact() (string, error) {
	data, err := os.ReadFile(s.ArtifactPath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *FileSink) WriteWorkout(w *workout.Workout) error {
	data, err := json.MarshalIndent(w.ToMap(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.WorkoutPath, append(data, '\n'), 0o644)
}
