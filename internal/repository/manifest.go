package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Manifest maps slash-separated paths, relative to the scanned root, to
// content checksums.
type Manifest map[string]uint16

// ManifestRepository stores a Manifest as an indented JSON object.
type ManifestRepository struct {
	path string
}

// NewManifestRepository returns a repository for the sidecar at path.
func NewManifestRepository(path string) *ManifestRepository {
	return &ManifestRepository{path: path}
}

// Path returns the sidecar path.
func (r *ManifestRepository) Path() string {
	return r.path
}

// Load reads the sidecar. The boolean is false when the sidecar does not
// exist yet, which is not an error.
func (r *ManifestRepository) Load() (Manifest, bool, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	m := Manifest{}
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return nil, true, fmt.Errorf("decode manifest %s: %w", r.path, err)
	}
	return m, true, nil
}

// Save writes m, replacing any previous sidecar.
func (r *ManifestRepository) Save(m Manifest) error {
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(r.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
