package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"focuspomo/internal/core/model"
)

func snapshot(processID string, fullscreen bool) model.FocusSnapshot {
	return model.FocusSnapshot{
		ProcessID:    processID,
		DisplayName:  processID,
		IsFullscreen: fullscreen,
		ObservedAt:   time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC),
	}
}

func TestAutoStartAllowlistDependsOnlyOnRunningProcesses(t *testing.T) {
	config := model.RuleConfig{
		FullscreenNonWork:  true,
		AutoStartAllowlist: model.NewIDSet("com.work.app"),
	}

	cases := []struct {
		name    string
		focused model.FocusSnapshot
		running model.IDSet
		want    bool
	}{
		{"running and focused", snapshot("com.work.app", false), model.NewIDSet("com.work.app"), true},
		{"running but other app is fullscreen", snapshot("com.movie.player", true), model.NewIDSet("com.work.app"), true},
		{"running while browser is fullscreen", snapshot(DesignatedBrowserID, true), model.NewIDSet("com.work.app"), true},
		{"not running but focused", snapshot("com.work.app", false), model.NewIDSet(), false},
		{"unrelated process running", snapshot("com.work.app", true), model.NewIDSet("com.other.app"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.focused, tc.running, config))
		})
	}
}

func TestFullscreenFlagIrrelevantWithAllowlist(t *testing.T) {
	config := model.RuleConfig{
		FullscreenNonWork:  true,
		AutoStartAllowlist: model.NewIDSet("com.a", "com.b"),
	}
	for _, running := range []model.IDSet{model.NewIDSet(), model.NewIDSet("com.b"), model.NewIDSet("com.c")} {
		windowed := Classify(snapshot("com.x", false), running, config)
		fullscreen := Classify(snapshot("com.x", true), running, config)
		assert.Equal(t, windowed, fullscreen)
	}
}

func TestDesignatedBrowserFullscreenNeverWork(t *testing.T) {
	configs := []model.RuleConfig{
		{},
		{FullscreenAllowlist: model.NewIDSet(DesignatedBrowserID)},
		{FullscreenNonWork: true, FullscreenAllowlist: model.NewIDSet(DesignatedBrowserID)},
	}
	for _, config := range configs {
		assert.False(t, Classify(snapshot(DesignatedBrowserID, true), nil, config))
	}
	assert.True(t, Classify(snapshot(DesignatedBrowserID, false), nil, model.RuleConfig{FullscreenNonWork: true}))
}

func TestFullscreenNonWorkRespectsAllowlist(t *testing.T) {
	config := model.RuleConfig{
		FullscreenNonWork:   true,
		FullscreenAllowlist: model.NewIDSet("com.work.app"),
	}

	assert.True(t, Classify(snapshot("com.work.app", true), nil, config))
	assert.False(t, Classify(snapshot("com.other.app", true), nil, config))
	assert.True(t, Classify(snapshot("com.other.app", false), nil, config))
}

func TestFullscreenAllowedWhenRuleDisabled(t *testing.T) {
	assert.True(t, Classify(snapshot("com.movie.player", true), nil, model.RuleConfig{}))
}

func TestEvaluateSelfFocus(t *testing.T) {
	self := model.NewIDSet("com.focuspomo.app")
	focused := snapshot("com.focuspomo.app", false)

	assert.Equal(t, Indeterminate, Evaluate(focused, self, nil, model.RuleConfig{FullscreenNonWork: true}))

	withAllowlist := model.RuleConfig{AutoStartAllowlist: model.NewIDSet("com.work.app")}
	assert.Equal(t, Work, Evaluate(focused, self, model.NewIDSet("com.work.app"), withAllowlist))
	assert.Equal(t, NonWork, Evaluate(focused, self, model.NewIDSet(), withAllowlist))
}

func TestEvaluateMapsClassify(t *testing.T) {
	config := model.RuleConfig{FullscreenNonWork: true}

	assert.Equal(t, Work, Evaluate(snapshot("com.editor", false), nil, nil, config))
	assert.Equal(t, NonWork, Evaluate(snapshot("com.game", true), nil, nil, config))
	assert.Equal(t, "non_work", NonWork.String())
}
