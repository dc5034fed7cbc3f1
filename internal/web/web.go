// Package web holds the embedded browser UI. Pages are served from the
// binary; a file placed next to the executable with the same name takes
// precedence so the UI can be customized without rebuilding.
package web

import (
	"embed"
	"os"
	"path/filepath"
)

//go:embed index.html
var fs embed.FS

// GetPage loads a page by name, preferring a file on disk next to the
// executable over the embedded copy.
func GetPage(name string) ([]byte, error) {
	if exe, err := os.Executable(); err == nil {
		override := filepath.Join(filepath.Dir(exe), name)
		if data, err := os.ReadFile(override); err == nil {
			return data, nil
		}
	}

	return fs.ReadFile(name)
}
