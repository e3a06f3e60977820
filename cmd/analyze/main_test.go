package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"bidr-analyzer/internal/batch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWritesFigures(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("scatter_samples: 300\nfigure_width: 480\nfigure_height: 360\n"), 0644))

	var stdout, stderr bytes.Buffer
	err := run([]string{"-config", cfgPath, "-output", dir, "-decomposer", "jacobi", "-format", "webp"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	m, err := batch.ReadManifest(filepath.Join(dir, batch.ManifestFile))
	require.NoError(t, err)
	var files []string
	for _, a := range m.Artifacts {
		files = append(files, a.File)
		assert.Equal(t, 480, a.Width)
	}
	assert.Equal(t, []string{
		"cylinder.webp",
		"thickness_pca.webp",
		"chromaticity_plane.webp",
		"multi_illuminant_tubes.webp",
	}, files)

	out := stdout.String()
	assert.Contains(t, out, "daylight vs skylight")
	assert.Contains(t, out, "PC1 explained")
	assert.Contains(t, stderr.String(), "isd estimated")
}

func TestRunBadDecomposer(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"-output", t.TempDir(), "-decomposer", "svd"}, &stdout, &stderr)
	assert.Error(t, err)
}
