// package config loads orbit camera tuning and save data from yaml, and watches tuning
// files so a running rig can pick up changes without a restart.
package config

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-orbit/engine/camera"
	"gopkg.in/yaml.v3"
)

// ParseCameraConfig decodes yaml over camera.DefaultConfig and validates the result.
// Fields missing from data keep their defaults.
//
// Parameters:
//   - data: yaml document
//
// Returns:
//   - camera.Config: the decoded configuration
//   - error: decode or validation error
func ParseCameraConfig(data []byte) (camera.Config, error) {
	cfg := camera.DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return camera.Config{}, fmt.Errorf("config: unmarshal camera config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return camera.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LoadCameraConfig reads and parses a camera tuning file.
//
// Parameters:
//   - path: path to a yaml file
//
// Returns:
//   - camera.Config: the decoded configuration
//   - error: read, decode, or validation error
func LoadCameraConfig(path string) (camera.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return camera.Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg, err := ParseCameraConfig(data)
	if err != nil {
		return camera.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// DefaultCameraConfig parses the embedded camera.yaml.
//
// Returns:
//   - camera.Config: the shipped default configuration
//   - error: only if the embedded file is broken
func DefaultCameraConfig() (camera.Config, error) {
	data, err := Load("", DefaultCameraConfigName)
	if err != nil {
		return camera.Config{}, err
	}
	return ParseCameraConfig(data)
}

// LoadPitchPolicy compiles a tengo pitch script into a policy. The script is read from dir
// when present there, otherwise from the embedded assets.
//
// Parameters:
//   - dir: override directory, may be empty
//   - name: script file name, e.g. DefaultPitchScriptName
//   - fallback: policy used when the script fails at runtime
//
// Returns:
//   - *camera.ScriptPitchPolicy: the compiled policy
//   - error: read or compile error
func LoadPitchPolicy(dir, name string, fallback camera.PitchPolicy) (*camera.ScriptPitchPolicy, error) {
	src, err := Load(dir, name)
	if err != nil {
		return nil, err
	}
	policy, err := camera.NewScriptPitchPolicy(src, fallback)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", name, err)
	}
	return policy, nil
}
