package mock

import (
	"context"

	"github.com/fwojciec/modcat"
)

var _ modcat.ModService = (*ModService)(nil)

// ModService is a mock implementation of modcat.ModService.
type ModService struct {
	FindModByNameFn  func(ctx context.Context, name string) (*modcat.Mod, error)
	FindModsFn       func(ctx context.Context, filter modcat.ModFilter) ([]*modcat.Mod, error)
	CountModsFn      func(ctx context.Context, filter modcat.ModFilter) (int, error)
	FindCategoriesFn func(ctx context.Context) ([]string, error)
	UpsertModFn      func(ctx context.Context, mod *modcat.Mod) error
	DeleteModsFn     func(ctx context.Context, filter modcat.ModDelete) (int, error)
}

func (s *ModService) FindModByName(ctx context.Context, name string) (*modcat.Mod, error) {
	return s.FindModByNameFn(ctx, name)
}

func (s *ModService) FindMods(ctx context.Context, filter modcat.ModFilter) ([]*modcat.Mod, error) {
	return s.FindModsFn(ctx, filter)
}

func (s *ModService) CountMods(ctx context.Context, filter modcat.ModFilter) (int, error) {
	return s.CountModsFn(ctx, filter)
}

func (s *ModService) FindCategories(ctx context.Context) ([]string, error) {
	return s.FindCategoriesFn(ctx)
}

func (s *ModService) UpsertMod(ctx context.Context, mod *modcat.Mod) error {
	return s.UpsertModFn(ctx, mod)
}

func (s *ModService) DeleteMods(ctx context.Context, filter modcat.ModDelete) (int, error) {
	return s.DeleteModsFn(ctx, filter)
}
