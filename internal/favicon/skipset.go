package favicon

import (
	"os"
	"path/filepath"

	"faviconkit/internal/catalog"
)

// SkipSet returns the catalog filenames of families that already exist in outputDir.
// Presence is all that counts; contents are never compared.
func SkipSet(outputDir string, families []catalog.Family, format catalog.Format) map[string]struct{} {
	existing := map[string]struct{}{}
	for _, target := range catalog.Targets(families, format) {
		if fileExists(filepath.Join(outputDir, target.Filename)) {
			existing[target.Filename] = struct{}{}
		}
	}
	return existing
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
