package storage

import (
	"path/filepath"

	"focuspomo/internal/platform"
)

const (
	settingsFileName = "settings.yaml"
	databaseFileName = "stats.db"
	logFileName      = "agent.log"
)

// Paths locates the files the agent keeps under its config directory.
type Paths struct {
	Dir      string
	Settings string
	Database string
	Log      string
}

// PathsIn lays the agent files out below dir.
func PathsIn(dir string) Paths {
	return Paths{
		Dir:      dir,
		Settings: filepath.Join(dir, settingsFileName),
		Database: filepath.Join(dir, databaseFileName),
		Log:      filepath.Join(dir, logFileName),
	}
}

// DefaultPaths places the agent files in <user config dir>/<appName>.
func DefaultPaths(appName string) (Paths, error) {
	configDir, err := platform.ConfigDir()
	if err != nil {
		return Paths{}, err
	}
	return PathsIn(filepath.Join(configDir, appName)), nil
}
