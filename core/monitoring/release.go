package monitoring

import (
	"io/fs"
	"strings"
)

const (
	// ReleaseFilePrefix marks a file in the application root whose name
	// carries the deployed release, e.g. RELEASE_2.3.0.
	ReleaseFilePrefix = "RELEASE_"
	// UnknownRelease is used when neither configuration nor a marker file
	// provide a release.
	UnknownRelease = "Unknown Release"
)

// ResolveRelease returns configured when set. Otherwise it scans the top level
// of root in lexical order and returns the suffix of the first marker file.
func ResolveRelease(configured string, root fs.FS) string {
	if configured != "" {
		return configured
	}
	if root == nil {
		return UnknownRelease
	}
	entries, err := fs.ReadDir(root, ".")
	if err != nil {
		return UnknownRelease
	}
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, ReleaseFilePrefix) {
			continue
		}
		if release := strings.TrimPrefix(name, ReleaseFilePrefix); release != "" {
			return release
		}
	}
	return UnknownRelease
}
