package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// projectIndicators are files whose presence marks a directory as a
// project even without git metadata or counted code.
var projectIndicators = []string{
	"package.json", "Cargo.toml", "pyproject.toml", "pom.xml",
	"go.mod", "Makefile", "Dockerfile", "README.md",
}

// dirSizeMB sums file sizes under dir, limited to maxDepth levels so a
// deep tree cannot dominate scan time. The result is in megabytes.
func dirSizeMB(dir string, maxDepth int) float64 {
	var total int64

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && depth(dir, path) > maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})

	return float64(total) / (1 << 20)
}

// lastActivity returns the directory's modification time, or nil when it
// cannot be read.
func lastActivity(dir string) *time.Time {
	info, err := os.Stat(dir)
	if err != nil {
		return nil
	}
	mtime := info.ModTime().UTC()
	return &mtime
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func hasProjectIndicators(dir string) bool {
	for _, f := range projectIndicators {
		if fileExists(filepath.Join(dir, f)) {
			return true
		}
	}
	return false
}
