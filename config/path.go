package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultFile is the configuration file name looked up in XDG directories.
var DefaultFile = filepath.Join("sentrybridge", "config.yaml")

// DefaultPath returns the first existing configuration file under the XDG
// config directories, or "" when none exists.
func DefaultPath() string {
	path, err := xdg.SearchConfigFile(DefaultFile)
	if err != nil {
		return ""
	}
	return path
}
