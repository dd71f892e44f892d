package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	number, err := parseNumber([]byte("  48234561\n"))
	require.NoError(t, err)
	assert.Equal(t, 48234561, number)

	_, err = parseNumber([]byte("\n"))
	assert.ErrorIs(t, err, ErrNoFocusedWindow)

	_, err = parseNumber([]byte("nope"))
	assert.Error(t, err)
}

func TestParseXprop(t *testing.T) {
	output := []byte(`_NET_WM_STATE(ATOM) = _NET_WM_STATE_MAXIMIZED_HORZ, _NET_WM_STATE_FULLSCREEN
WM_CLASS(STRING) = "Navigator", "firefox"
`)
	fullscreen, class := parseXprop(output)
	assert.True(t, fullscreen)
	assert.Equal(t, "firefox", class)

	fullscreen, class = parseXprop([]byte("_NET_WM_STATE(ATOM) = \nWM_CLASS:  not found.\n"))
	assert.False(t, fullscreen)
	assert.Empty(t, class)
}

func TestParseAppleScriptList(t *testing.T) {
	items := parseAppleScriptList([]byte("com.apple.finder, missing value, com.work.app\n"))
	assert.Equal(t, []string{"com.apple.finder", "com.work.app"}, items)
	assert.Empty(t, parseAppleScriptList([]byte("\n")))
}

func TestParseFrontmost(t *testing.T) {
	bundleID, name, fullscreen, err := parseFrontmost([]byte("com.apple.Safari\nSafari\ntrue\n"))
	require.NoError(t, err)
	assert.Equal(t, "com.apple.Safari", bundleID)
	assert.Equal(t, "Safari", name)
	assert.True(t, fullscreen)

	bundleID, _, fullscreen, err = parseFrontmost([]byte("missing value\nHelper\nfalse"))
	require.NoError(t, err)
	assert.Equal(t, "unknown", bundleID)
	assert.False(t, fullscreen)

	_, _, _, err = parseFrontmost([]byte("only one line"))
	assert.Error(t, err)
}

func TestParseTasklist(t *testing.T) {
	output := []byte("\"Code.exe\",\"1234\",\"Console\",\"1\",\"150,000 K\"\r\n\"slack.exe\",\"88\",\"Console\",\"1\",\"90,000 K\"\r\n")
	names, err := parseTasklist(output)
	require.NoError(t, err)
	assert.Equal(t, []string{"Code.exe", "slack.exe"}, names)
}

func TestExecutableIDs(t *testing.T) {
	assert.Equal(t, []string{"focuspomo"}, executableIDs("focuspomo"))
	assert.Equal(t, []string{"focuspomo.exe", "focuspomo"}, executableIDs("focuspomo.exe"))
	assert.Equal(t, []string{"focuspomo-nightly-build", "focuspomo-night"}, executableIDs("focuspomo-nightly-build"))
}

func TestSelfProcessIDsIncludesAppID(t *testing.T) {
	ids := SelfProcessIDs("com.focuspomo.agent")
	assert.True(t, ids.Has("com.focuspomo.agent"))
	assert.GreaterOrEqual(t, ids.Len(), 2)
}
