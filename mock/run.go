package mock

import (
	"context"

	"github.com/fwojciec/modcat"
)

var _ modcat.RunService = (*RunService)(nil)

// RunService is a mock implementation of modcat.RunService.
type RunService struct {
	CreateRunFn func(ctx context.Context, run *modcat.Run) error
	FindRunsFn  func(ctx context.Context, filter modcat.RunFilter) ([]*modcat.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *modcat.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRuns(ctx context.Context, filter modcat.RunFilter) ([]*modcat.Run, error) {
	return s.FindRunsFn(ctx, filter)
}
