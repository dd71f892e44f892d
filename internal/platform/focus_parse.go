package platform

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

const fullscreenAtom = "_NET_WM_STATE_FULLSCREEN"

// parseNumber parses the single integer printed by xdotool.
func parseNumber(output []byte) (int, error) {
	value := strings.TrimSpace(string(output))
	if value == "" {
		return 0, ErrNoFocusedWindow
	}
	number, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %q", value)
	}
	return number, nil
}

// parseXprop extracts the fullscreen state and WM_CLASS class name from
// `xprop -id <window> _NET_WM_STATE WM_CLASS` output.
func parseXprop(output []byte) (fullscreen bool, class string) {
	for _, line := range strings.Split(string(output), "\n") {
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		switch {
		case strings.HasPrefix(name, "_NET_WM_STATE"):
			for _, atom := range strings.Split(value, ",") {
				if strings.TrimSpace(atom) == fullscreenAtom {
					fullscreen = true
				}
			}
		case strings.HasPrefix(name, "WM_CLASS"):
			parts := quotedStrings(value)
			if len(parts) > 0 {
				class = parts[len(parts)-1]
			}
		}
	}
	return fullscreen, class
}

func quotedStrings(value string) []string {
	var parts []string
	for {
		start := strings.IndexByte(value, '"')
		if start < 0 {
			return parts
		}
		end := strings.IndexByte(value[start+1:], '"')
		if end < 0 {
			return parts
		}
		parts = append(parts, value[start+1:start+1+end])
		value = value[start+end+2:]
	}
}

// parseAppleScriptList splits an AppleScript list printed by osascript,
// dropping "missing value" entries.
func parseAppleScriptList(output []byte) []string {
	var items []string
	for _, item := range strings.Split(strings.TrimSpace(string(output)), ",") {
		item = strings.TrimSpace(item)
		if item == "" || item == "missing value" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// parseFrontmost parses the three lines printed by the frontmost
// application script: bundle id, name and fullscreen flag.
func parseFrontmost(output []byte) (bundleID, name string, fullscreen bool, err error) {
	lines := strings.Split(strings.TrimRight(string(output), "\r\n"), "\n")
	if len(lines) < 3 {
		return "", "", false, errors.Newf("unexpected frontmost output %q", string(output))
	}
	bundleID = strings.TrimSpace(lines[0])
	name = strings.TrimSpace(lines[1])
	if bundleID == "" || bundleID == "missing value" {
		bundleID = "unknown"
	}
	if name == "" {
		name = "Unknown"
	}
	return bundleID, name, strings.TrimSpace(lines[2]) == "true", nil
}

// parseTasklist returns the image names from `tasklist /fo csv /nh`.
func parseTasklist(output []byte) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(string(output)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parse tasklist output")
	}
	names := make([]string, 0, len(records))
	for _, record := range records {
		if len(record) == 0 || record[0] == "" {
			continue
		}
		names = append(names, record[0])
	}
	return names, nil
}
