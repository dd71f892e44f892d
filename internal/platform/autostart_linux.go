//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

func (loginItems) Enable(name, execPath string) error {
	if err := checkAutostartArgs(name, execPath); err != nil {
		return err
	}
	path, err := desktopEntryPath(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create autostart dir")
	}
	if err := os.WriteFile(path, []byte(desktopEntry(name, execPath)), 0o644); err != nil {
		return errors.Wrap(err, "write desktop entry")
	}
	return nil
}

func (loginItems) Disable(name string) error {
	path, err := desktopEntryPath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove desktop entry")
	}
	return nil
}

func (loginItems) Enabled(name string) bool {
	path, err := desktopEntryPath(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func desktopEntryPath(name string) (string, error) {
	configDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart", slug(name)+".desktop"), nil
}

func desktopEntry(name, execPath string) string {
	if strings.Contains(execPath, " ") && !strings.HasPrefix(execPath, `"`) {
		execPath = `"` + execPath + `"`
	}
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Comment=Focus-driven pomodoro timer
Exec=%s run
X-GNOME-Autostart-enabled=true
Terminal=false
`, name, execPath)
}
