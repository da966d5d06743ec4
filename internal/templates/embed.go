// Package templates embeds the sample datasets written by "chartwell init".
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed datasets
var datasets embed.FS

// DatasetsFS returns the sample datasets, rooted at the dataset directory.
func DatasetsFS() fs.FS {
	sub, err := fs.Sub(datasets, "datasets")
	if err != nil {
		panic(err)
	}
	return sub
}

// WriteSamples copies the sample datasets into dir, skipping files that
// already exist. It returns the paths written.
func WriteSamples(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating dataset directory: %w", err)
	}

	samples := DatasetsFS()
	entries, err := fs.ReadDir(samples, ".")
	if err != nil {
		return nil, fmt.Errorf("reading samples: %w", err)
	}

	var written []string
	for _, entry := range entries {
		dest := filepath.Join(dir, entry.Name())
		if _, err := os.Stat(dest); err == nil {
			continue
		}
		data, err := fs.ReadFile(samples, entry.Name())
		if err != nil {
			return written, fmt.Errorf("reading sample %s: %w", entry.Name(), err)
		}
		if err := os.WriteFile(dest, data, 0o600); err != nil {
			return written, fmt.Errorf("writing sample %s: %w", dest, err)
		}
		written = append(written, dest)
	}
	return written, nil
}
