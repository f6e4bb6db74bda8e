package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-orbit/common"
	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"gopkg.in/yaml.v3"
)

// stateFile is the on-disk layout of a camera snapshot.
type stateFile struct {
	Version int          `yaml:"version"`
	State   camera.State `yaml:"camera"`
}

const stateVersion = 1

// SaveState writes a camera snapshot as yaml, creating parent directories as needed.
// The file is written to a temporary name and renamed into place.
//
// Parameters:
//   - path: destination file
//   - s: the snapshot to save
//
// Returns:
//   - error: encode or write error
func SaveState(path string, s camera.State) error {
	data, err := yaml.Marshal(stateFile{Version: stateVersion, State: s})
	if err != nil {
		return fmt.Errorf("config: marshal state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: save %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("config: save %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("config: save %s: %w", path, err)
	}
	return nil
}

// LoadState reads a snapshot written by SaveState. A missing up axis falls back to +Y and
// zero rotations are replaced by the identity.
//
// Parameters:
//   - path: snapshot file
//
// Returns:
//   - camera.State: the decoded snapshot
//   - error: read, decode, or version error
func LoadState(path string) (camera.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return camera.State{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	var f stateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return camera.State{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if f.Version != stateVersion {
		return camera.State{}, fmt.Errorf("config: %s: unsupported state version %d", path, f.Version)
	}

	s := f.State
	s.Up = common.Coalesce(s.Up, common.AxisY)
	s.Eye.Rotation = common.SanitizeRotation(s.Eye.Rotation)
	s.LastEye.Rotation = common.SanitizeRotation(s.LastEye.Rotation)
	return s, nil
}
