package sampler

import (
	"context"

	"focuspomo/internal/core/model"
)

//go:generate mockgen -source=probe.go -destination=probe_mock.go -package=sampler

// Probe is the OS capability the sampler polls.
type Probe interface {
	HasFocusPermission() bool
	RequestFocusPermission() bool
	CurrentFocusSnapshot(ctx context.Context) (model.FocusSnapshot, error)
	RunningProcessIDs(ctx context.Context, matching model.IDSet) (model.IDSet, error)
}
