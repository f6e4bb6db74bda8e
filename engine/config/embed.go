package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed assets/*.yaml assets/*.tengo
var assetsFS embed.FS

// DefaultCameraConfigName is the embedded default tuning file.
const DefaultCameraConfigName = "camera.yaml"

// DefaultPitchScriptName is the embedded example pitch script.
const DefaultPitchScriptName = "pitch.tengo"

// Load returns the named asset, preferring a file of the same name under dir on disk so a
// project can override the embedded copy. An empty dir reads the embedded copy only.
//
// Parameters:
//   - dir: override directory, may be empty
//   - name: asset file name, e.g. "camera.yaml"
//
// Returns:
//   - []byte: the asset contents
//   - error: if neither the override nor the embedded asset exists
func Load(dir, name string) ([]byte, error) {
	if dir != "" {
		if data, err := os.ReadFile(filepath.Join(dir, name)); err == nil {
			return data, nil
		}
	}
	data, err := assetsFS.ReadFile("assets/" + filepath.ToSlash(name))
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", name, err)
	}
	return data, nil
}
