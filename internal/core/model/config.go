package model

import (
	"slices"
	"strings"
	"time"
)

// Default settings values.
const (
	DefaultWorkMinutes  = 25
	DefaultBreakMinutes = 5
)

// RuleConfig is the policy consumed by the rule engine. It is replaced
// wholesale whenever settings change.
type RuleConfig struct {
	FullscreenNonWork   bool
	FullscreenAllowlist IDSet
	AutoStartAllowlist  IDSet
}

// Settings contains the user-editable configuration surface.
type Settings struct {
	WorkMinutes         int      `koanf:"work_minutes" yaml:"work_minutes"`
	BreakMinutes        int      `koanf:"break_minutes" yaml:"break_minutes"`
	AutoStart           bool     `koanf:"auto_start" yaml:"auto_start"`
	FullscreenNonWork   bool     `koanf:"fullscreen_non_work" yaml:"fullscreen_non_work"`
	FullscreenAllowlist []string `koanf:"fullscreen_allowlist" yaml:"fullscreen_allowlist"`
	AutoStartAllowlist  []string `koanf:"auto_start_allowlist" yaml:"auto_start_allowlist"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:         DefaultWorkMinutes,
		BreakMinutes:        DefaultBreakMinutes,
		AutoStart:           true,
		FullscreenNonWork:   true,
		FullscreenAllowlist: []string{},
		AutoStartAllowlist:  []string{},
	}
}

// Normalize clamps durations to at least one minute and cleans up the
// allow-lists (trimmed, de-duplicated, sorted).
func (settings Settings) Normalize() Settings {
	settings.WorkMinutes = max(1, settings.WorkMinutes)
	settings.BreakMinutes = max(1, settings.BreakMinutes)
	settings.FullscreenAllowlist = cleanIDs(settings.FullscreenAllowlist)
	settings.AutoStartAllowlist = cleanIDs(settings.AutoStartAllowlist)
	return settings
}

// WorkDuration returns the clamped work phase length.
func (settings Settings) WorkDuration() time.Duration {
	return time.Duration(max(1, settings.WorkMinutes)) * time.Minute
}

// BreakDuration returns the clamped break phase length.
func (settings Settings) BreakDuration() time.Duration {
	return time.Duration(max(1, settings.BreakMinutes)) * time.Minute
}

// RuleConfig converts settings to the rule engine policy.
func (settings Settings) RuleConfig() RuleConfig {
	return RuleConfig{
		FullscreenNonWork:   settings.FullscreenNonWork,
		FullscreenAllowlist: NewIDSet(settings.FullscreenAllowlist...),
		AutoStartAllowlist:  NewIDSet(settings.AutoStartAllowlist...),
	}
}

func cleanIDs(ids []string) []string {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || slices.Contains(cleaned, id) {
			continue
		}
		cleaned = append(cleaned, id)
	}
	slices.Sort(cleaned)
	return cleaned
}
