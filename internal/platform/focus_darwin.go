package platform

import (
	"context"
	"os/exec"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"

	"focuspomo/internal/core/model"
)

const frontmostScript = `tell application "System Events"
	set frontApp to first application process whose frontmost is true
	set appName to name of frontApp
	set bundleID to bundle identifier of frontApp
	set isFull to false
	try
		set isFull to value of attribute "AXFullScreen" of front window of frontApp
	end try
	return bundleID & linefeed & appName & linefeed & (isFull as text)
end tell`

const runningScript = `tell application "System Events" to get bundle identifier of every application process`

const accessibilitySettingsURL = "x-apple.systempreferences:com.apple.preference.security?Privacy_Accessibility"

// focusProvider asks System Events through osascript, which needs the
// Accessibility permission. The permission answer is cached and refreshed
// by every snapshot, so a poll runs the frontmost script once.
type focusProvider struct {
	osascriptPath string
	clock         clockwork.Clock
	permission    *permissionCache
}

func newFocusProvider() FocusProvider {
	path, err := exec.LookPath("osascript")
	if err != nil {
		return unsupportedFocusProvider{}
	}
	provider := &focusProvider{osascriptPath: path, clock: clockwork.NewRealClock()}
	provider.permission = newPermissionCache(provider.clock, provider.checkPermission)
	return provider
}

func (provider *focusProvider) HasFocusPermission() bool {
	return provider.permission.Granted()
}

func (provider *focusProvider) checkPermission() bool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := exec.CommandContext(ctx, provider.osascriptPath, "-e", frontmostScript).Output()
	return err == nil
}

func (provider *focusProvider) RequestFocusPermission() bool {
	if provider.checkPermission() {
		provider.permission.Observe(true)
		return true
	}
	_ = exec.Command("open", accessibilitySettingsURL).Run()
	return false
}

func (provider *focusProvider) CurrentFocusSnapshot(ctx context.Context) (model.FocusSnapshot, error) {
	output, err := exec.CommandContext(ctx, provider.osascriptPath, "-e", frontmostScript).Output()
	provider.permission.Observe(err == nil)
	if err != nil {
		return model.FocusSnapshot{}, errors.Mark(errors.Wrap(err, "query frontmost application"), ErrNoFocusedWindow)
	}
	bundleID, name, fullscreen, err := parseFrontmost(output)
	if err != nil {
		return model.FocusSnapshot{}, err
	}
	return model.FocusSnapshot{
		ProcessID:    bundleID,
		DisplayName:  name,
		IsFullscreen: fullscreen,
		ObservedAt:   provider.clock.Now(),
	}, nil
}

func (provider *focusProvider) RunningProcessIDs(ctx context.Context, matching model.IDSet) (model.IDSet, error) {
	running := make(model.IDSet)
	if matching.Len() == 0 {
		return running, nil
	}
	output, err := exec.CommandContext(ctx, provider.osascriptPath, "-e", runningScript).Output()
	if err != nil {
		return nil, errors.Wrap(err, "list application processes")
	}
	for _, bundleID := range parseAppleScriptList(output) {
		if matching.Has(bundleID) {
			running[bundleID] = struct{}{}
		}
	}
	return running, nil
}
