//go:build !linux && !darwin && !windows

package platform

func newFocusProvider() FocusProvider {
	return unsupportedFocusProvider{}
}
