package platform

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// Autostart registers the agent to launch at login.
type Autostart interface {
	Enable(name, execPath string) error
	Disable(name string) error
	Enabled(name string) bool
}

type loginItems struct{}

// NewAutostart returns the login item manager for the running OS.
func NewAutostart() Autostart {
	return loginItems{}
}

// ConfigDir is the OS config root, falling back to a home-relative
// directory when the environment does not name one.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}
	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		return "", errors.Wrap(errors.CombineErrors(err, homeErr), "resolve config dir")
	}
	return fallbackConfigDir(homeDir), nil
}

func checkAutostartArgs(name, execPath string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("autostart: name is empty")
	}
	if execPath == "" {
		return errors.New("autostart: executable path is empty")
	}
	return nil
}

func slug(name string) string {
	value := strings.ToLower(strings.TrimSpace(name))
	if value == "" {
		value = "focuspomo"
	}
	return strings.ReplaceAll(value, " ", "-")
}
