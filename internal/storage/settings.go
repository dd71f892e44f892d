package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"focuspomo/internal/core/model"
)

// EnvPrefix marks environment variables that override the settings file,
// e.g. FOCUSPOMO_WORK_MINUTES=50.
const EnvPrefix = "FOCUSPOMO_"

// SettingsFile loads and saves the user settings. Values are layered as
// defaults, then the YAML file, then FOCUSPOMO_* environment variables.
type SettingsFile struct {
	path    string
	environ func() []string
}

// NewSettingsFile returns a settings file rooted at path.
func NewSettingsFile(path string) *SettingsFile {
	return &SettingsFile{path: path, environ: os.Environ}
}

// Path returns the YAML file location.
func (store *SettingsFile) Path() string {
	return store.path
}

// Load returns normalized settings. A missing file yields the defaults. On
// a parse failure the defaults are returned along with the error.
func (store *SettingsFile) Load() (model.Settings, error) {
	defaults := model.DefaultSettings()
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(settingsToMap(defaults), "."), nil); err != nil {
		return defaults, errors.Wrap(err, "load default settings")
	}

	if _, err := os.Stat(store.path); err == nil {
		if err := k.Load(file.Provider(store.path), koanfyaml.Parser()); err != nil {
			return defaults, errors.Wrapf(err, "parse settings file %s", store.path)
		}
	} else if !os.IsNotExist(err) {
		return defaults, errors.Wrapf(err, "stat settings file %s", store.path)
	}

	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envTransform,
		EnvironFunc:   store.environ,
	}
	if err := k.Load(env.Provider(".", envOpt), nil); err != nil {
		return defaults, errors.Wrap(err, "load settings from environment")
	}

	var settings model.Settings
	if err := k.UnmarshalWithConf("", &settings, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return defaults, errors.Wrap(err, "decode settings")
	}
	return settings.Normalize(), nil
}

// Save writes normalized settings to the YAML file, replacing it atomically.
func (store *SettingsFile) Save(settings model.Settings) error {
	settings = settings.Normalize()
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return errors.Wrap(err, "create config directory")
	}

	serialized, err := yaml.Marshal(settings)
	if err != nil {
		return errors.Wrap(err, "marshal settings")
	}

	temp, err := os.CreateTemp(filepath.Dir(store.path), settingsFileName+".*")
	if err != nil {
		return errors.Wrap(err, "create temporary settings file")
	}
	defer func() { _ = os.Remove(temp.Name()) }()

	if _, err := temp.Write(serialized); err != nil {
		_ = temp.Close()
		return errors.Wrap(err, "write settings")
	}
	if err := temp.Close(); err != nil {
		return errors.Wrap(err, "close settings")
	}
	if err := os.Rename(temp.Name(), store.path); err != nil {
		return errors.Wrap(err, "replace settings file")
	}
	return nil
}

// Reset overwrites the file with the defaults and returns them.
func (store *SettingsFile) Reset() (model.Settings, error) {
	defaults := model.DefaultSettings()
	if err := store.Save(defaults); err != nil {
		return defaults, err
	}
	return defaults, nil
}

// FOCUSPOMO_AUTO_START_ALLOWLIST=code,zed -> auto_start_allowlist: [code zed]
func envTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if strings.HasSuffix(key, "_allowlist") {
		if strings.TrimSpace(value) == "" {
			return key, []string{}
		}
		return key, strings.Split(value, ",")
	}
	return key, value
}

func settingsToMap(settings model.Settings) map[string]any {
	return map[string]any{
		"work_minutes":         settings.WorkMinutes,
		"break_minutes":        settings.BreakMinutes,
		"auto_start":           settings.AutoStart,
		"fullscreen_non_work":  settings.FullscreenNonWork,
		"fullscreen_allowlist": settings.FullscreenAllowlist,
		"auto_start_allowlist": settings.AutoStartAllowlist,
	}
}
