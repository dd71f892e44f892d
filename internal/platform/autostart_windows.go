//go:build windows

package platform

import (
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

const runKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (loginItems) Enable(name, execPath string) error {
	if err := checkAutostartArgs(name, execPath); err != nil {
		return err
	}
	command := `"` + strings.Trim(execPath, `"`) + `" run`
	output, err := exec.Command("reg", "add", runKey, "/v", name, "/t", "REG_SZ", "/d", command, "/f").CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "reg add: %s", strings.TrimSpace(string(output)))
	}
	return nil
}

func (loginItems) Disable(name string) error {
	output, err := exec.Command("reg", "delete", runKey, "/v", name, "/f").CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "reg delete: %s", strings.TrimSpace(string(output)))
	}
	return nil
}

func (loginItems) Enabled(name string) bool {
	return exec.Command("reg", "query", runKey, "/v", name).Run() == nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}
