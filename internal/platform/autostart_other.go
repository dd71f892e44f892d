//go:build !linux && !darwin && !windows

package platform

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
)

var errAutostartUnsupported = errors.New("autostart is not supported on this platform")

func (loginItems) Enable(string, string) error { return errAutostartUnsupported }

func (loginItems) Disable(string) error { return errAutostartUnsupported }

func (loginItems) Enabled(string) bool { return false }

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}
