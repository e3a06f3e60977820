package batch

import (
	"encoding/json"
	"os"
)

// Manifest lists the artifacts of one run.
type Manifest struct {
	Tool      string          `json:"tool"`
	Artifacts []ManifestEntry `json:"artifacts"`
}

// ManifestEntry represents one artifact in the output manifest.
type ManifestEntry struct {
	Name   string `json:"name"`
	File   string `json:"file"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Bytes  int    `json:"bytes"`
}

// WriteManifest writes the manifest for results to path.
func WriteManifest(path, tool string, results []Result) error {
	m := Manifest{Tool: tool, Artifacts: make([]ManifestEntry, len(results))}
	for i, r := range results {
		m.Artifacts[i] = ManifestEntry{
			Name:   r.Name,
			File:   r.File,
			Width:  r.Width,
			Height: r.Height,
			Bytes:  r.Bytes,
		}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}
