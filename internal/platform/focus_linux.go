package platform

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"focuspomo/internal/core/model"
)

// focusProvider reads the active X11 window through xdotool and xprop and
// identifies processes by their /proc comm name.
type focusProvider struct {
	xdotoolPath string
	xpropPath   string
	procRoot    string
}

func newFocusProvider() FocusProvider {
	xdotoolPath, err := exec.LookPath("xdotool")
	if err != nil {
		return unsupportedFocusProvider{}
	}
	xpropPath, _ := exec.LookPath("xprop")
	return &focusProvider{
		xdotoolPath: xdotoolPath,
		xpropPath:   xpropPath,
		procRoot:    "/proc",
	}
}

func (provider *focusProvider) HasFocusPermission() bool {
	return os.Getenv("DISPLAY") != ""
}

// RequestFocusPermission has nothing to ask for on X11.
func (provider *focusProvider) RequestFocusPermission() bool {
	return provider.HasFocusPermission()
}

func (provider *focusProvider) CurrentFocusSnapshot(ctx context.Context) (model.FocusSnapshot, error) {
	output, err := exec.CommandContext(ctx, provider.xdotoolPath, "getactivewindow").Output()
	if err != nil {
		return model.FocusSnapshot{}, errors.Mark(errors.Wrap(err, "xdotool getactivewindow"), ErrNoFocusedWindow)
	}
	window, err := parseNumber(output)
	if err != nil {
		return model.FocusSnapshot{}, err
	}
	windowID := strconv.Itoa(window)

	output, err = exec.CommandContext(ctx, provider.xdotoolPath, "getwindowpid", windowID).Output()
	if err != nil {
		return model.FocusSnapshot{}, errors.Wrap(err, "xdotool getwindowpid")
	}
	pid, err := parseNumber(output)
	if err != nil {
		return model.FocusSnapshot{}, err
	}
	processID, err := provider.readComm(strconv.Itoa(pid))
	if err != nil {
		return model.FocusSnapshot{}, err
	}

	snapshot := model.FocusSnapshot{
		ProcessID:   processID,
		DisplayName: processID,
		ObservedAt:  time.Now(),
	}
	if provider.xpropPath != "" {
		output, err = exec.CommandContext(ctx, provider.xpropPath, "-id", windowID, "_NET_WM_STATE", "WM_CLASS").Output()
		if err == nil {
			fullscreen, class := parseXprop(output)
			snapshot.IsFullscreen = fullscreen
			if class != "" {
				snapshot.DisplayName = class
			}
		}
	}
	return snapshot, nil
}

func (provider *focusProvider) RunningProcessIDs(ctx context.Context, matching model.IDSet) (model.IDSet, error) {
	running := make(model.IDSet)
	if matching.Len() == 0 {
		return running, nil
	}
	entries, err := os.ReadDir(provider.procRoot)
	if err != nil {
		return nil, errors.Wrap(err, "list processes")
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		if _, err := strconv.Atoi(entry.Name()); err != nil {
			continue
		}
		comm, err := provider.readComm(entry.Name())
		if err != nil {
			continue
		}
		if matching.Has(comm) {
			running[comm] = struct{}{}
		}
	}
	return running, nil
}

func (provider *focusProvider) readComm(pid string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(provider.procRoot, pid, "comm"))
	if err != nil {
		return "", errors.Wrapf(err, "read comm of pid %s", pid)
	}
	return strings.TrimSpace(string(raw)), nil
}
