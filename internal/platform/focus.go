package platform

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"focuspomo/internal/core/model"
)

var (
	// ErrFocusUnsupported indicates focus detection is not available on this system.
	ErrFocusUnsupported = errors.New("focus detection unsupported")

	// ErrNoFocusedWindow indicates no window currently has input focus.
	ErrNoFocusedWindow = errors.New("no focused window")
)

// FocusProvider reports the foreground process and which processes run.
type FocusProvider interface {
	HasFocusPermission() bool
	RequestFocusPermission() bool
	CurrentFocusSnapshot(ctx context.Context) (model.FocusSnapshot, error)
	RunningProcessIDs(ctx context.Context, matching model.IDSet) (model.IDSet, error)
}

// NewFocusProvider returns a platform-specific focus provider.
func NewFocusProvider() FocusProvider {
	return newFocusProvider()
}

type unsupportedFocusProvider struct{}

func (unsupportedFocusProvider) HasFocusPermission() bool {
	return false
}

func (unsupportedFocusProvider) RequestFocusPermission() bool {
	return false
}

func (unsupportedFocusProvider) CurrentFocusSnapshot(context.Context) (model.FocusSnapshot, error) {
	return model.FocusSnapshot{}, ErrFocusUnsupported
}

func (unsupportedFocusProvider) RunningProcessIDs(context.Context, model.IDSet) (model.IDSet, error) {
	return nil, ErrFocusUnsupported
}

// commNameLimit is the longest process name the Linux kernel keeps.
const commNameLimit = 15

// SelfProcessIDs returns the identifiers under which the running agent may
// appear as the focused process: the app id plus the executable name, as a
// file name and truncated to the kernel comm length.
func SelfProcessIDs(appID string) model.IDSet {
	ids := model.NewIDSet()
	if appID != "" {
		ids[appID] = struct{}{}
	}
	executable, err := os.Executable()
	if err != nil {
		return ids
	}
	for _, id := range executableIDs(filepath.Base(executable)) {
		ids[id] = struct{}{}
	}
	return ids
}

func executableIDs(base string) []string {
	ids := []string{base}
	if trimmed := strings.TrimSuffix(base, ".exe"); trimmed != base {
		ids = append(ids, trimmed)
	}
	if len(base) > commNameLimit {
		ids = append(ids, base[:commNameLimit])
	}
	return ids
}
