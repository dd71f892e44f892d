package platform

import (
	"context"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"
	"unsafe"

	"github.com/cockroachdb/errors"

	"focuspomo/internal/core/model"
)

const (
	processQueryLimitedInformation = 0x1000
	smCxScreen                     = 0
	smCyScreen                     = 1
)

var (
	user32                     = syscall.NewLazyDLL("user32.dll")
	kernel32                   = syscall.NewLazyDLL("kernel32.dll")
	procGetForegroundWindow    = user32.NewProc("GetForegroundWindow")
	procGetWindowThreadProcess = user32.NewProc("GetWindowThreadProcessId")
	procGetWindowRect          = user32.NewProc("GetWindowRect")
	procGetSystemMetrics       = user32.NewProc("GetSystemMetrics")
	procOpenProcess            = kernel32.NewProc("OpenProcess")
	procQueryFullImageName     = kernel32.NewProc("QueryFullProcessImageNameW")
	procCloseHandle            = kernel32.NewProc("CloseHandle")
)

type rect struct {
	left, top, right, bottom int32
}

// focusProvider identifies processes by executable file name.
type focusProvider struct{}

func newFocusProvider() FocusProvider {
	return &focusProvider{}
}

// HasFocusPermission is always true: the foreground window is readable by
// any desktop process.
func (provider *focusProvider) HasFocusPermission() bool {
	return true
}

func (provider *focusProvider) RequestFocusPermission() bool {
	return true
}

func (provider *focusProvider) CurrentFocusSnapshot(context.Context) (model.FocusSnapshot, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return model.FocusSnapshot{}, ErrNoFocusedWindow
	}

	var pid uint32
	procGetWindowThreadProcess.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if pid == 0 {
		return model.FocusSnapshot{}, errors.Wrap(ErrNoFocusedWindow, "foreground window has no process")
	}
	image, err := processImageName(pid)
	if err != nil {
		return model.FocusSnapshot{}, err
	}

	return model.FocusSnapshot{
		ProcessID:    image,
		DisplayName:  image,
		IsFullscreen: coversScreen(hwnd),
		ObservedAt:   time.Now(),
	}, nil
}

func (provider *focusProvider) RunningProcessIDs(ctx context.Context, matching model.IDSet) (model.IDSet, error) {
	running := make(model.IDSet)
	if matching.Len() == 0 {
		return running, nil
	}
	output, err := exec.CommandContext(ctx, "tasklist", "/fo", "csv", "/nh").Output()
	if err != nil {
		return nil, errors.Wrap(err, "tasklist")
	}
	names, err := parseTasklist(output)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if matching.Has(name) {
			running[name] = struct{}{}
		}
	}
	return running, nil
}

func processImageName(pid uint32) (string, error) {
	handle, _, err := procOpenProcess.Call(processQueryLimitedInformation, 0, uintptr(pid))
	if handle == 0 {
		return "", errors.Wrapf(err, "open process %d", pid)
	}
	defer procCloseHandle.Call(handle)

	buffer := make([]uint16, syscall.MAX_PATH)
	size := uint32(len(buffer))
	result, _, err := procQueryFullImageName.Call(handle, 0, uintptr(unsafe.Pointer(&buffer[0])), uintptr(unsafe.Pointer(&size)))
	if result == 0 {
		return "", errors.Wrapf(err, "query image name of process %d", pid)
	}
	return filepath.Base(syscall.UTF16ToString(buffer[:size])), nil
}

func coversScreen(hwnd uintptr) bool {
	var bounds rect
	result, _, _ := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&bounds)))
	if result == 0 {
		return false
	}
	width, _, _ := procGetSystemMetrics.Call(smCxScreen)
	height, _, _ := procGetSystemMetrics.Call(smCyScreen)
	return bounds.left <= 0 && bounds.top <= 0 &&
		bounds.right >= int32(width) && bounds.bottom >= int32(height)
}
