package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextSuppression(t *testing.T) {
	tests := []struct {
		name       string
		suppressed bool
		isWork     bool
		want       bool
	}{
		{name: "stays armed while working", suppressed: true, isWork: true, want: true},
		{name: "clears on non-work", suppressed: true, isWork: false, want: false},
		{name: "never set by work", suppressed: false, isWork: true, want: false},
		{name: "never set by non-work", suppressed: false, isWork: false, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextSuppression(tt.suppressed, tt.isWork))
		})
	}
}

func TestShouldStartWork(t *testing.T) {
	assert.True(t, ShouldStartWork(true, false, false, false))
	assert.False(t, ShouldStartWork(false, false, false, false), "non-work")
	assert.False(t, ShouldStartWork(true, true, false, false), "already running")
	assert.False(t, ShouldStartWork(true, false, true, false), "break running")
	assert.False(t, ShouldStartWork(true, false, false, true), "suppressed")
}

func TestShouldPauseWork(t *testing.T) {
	assert.True(t, ShouldPauseWork(false, true))
	assert.False(t, ShouldPauseWork(true, true))
	assert.False(t, ShouldPauseWork(false, false))
}
