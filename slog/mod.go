package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/modcat"
)

// Ensure LoggingModService implements modcat.ModService.
var _ modcat.ModService = (*LoggingModService)(nil)

// LoggingModService wraps a ModService and logs writes. Reads pass through.
type LoggingModService struct {
	next   modcat.ModService
	logger *slog.Logger
}

// NewLoggingModService creates a new LoggingModService.
func NewLoggingModService(next modcat.ModService, logger *slog.Logger) *LoggingModService {
	return &LoggingModService{next: next, logger: logger}
}

func (s *LoggingModService) FindModByName(ctx context.Context, name string) (*modcat.Mod, error) {
	return s.next.FindModByName(ctx, name)
}

func (s *LoggingModService) FindMods(ctx context.Context, filter modcat.ModFilter) ([]*modcat.Mod, error) {
	return s.next.FindMods(ctx, filter)
}

func (s *LoggingModService) CountMods(ctx context.Context, filter modcat.ModFilter) (int, error) {
	return s.next.CountMods(ctx, filter)
}

func (s *LoggingModService) FindCategories(ctx context.Context) ([]string, error) {
	return s.next.FindCategories(ctx)
}

// UpsertMod delegates to the wrapped service and logs the written mod.
func (s *LoggingModService) UpsertMod(ctx context.Context, mod *modcat.Mod) (err error) {
	defer func() {
		category := ""
		if mod.Category != nil {
			category = *mod.Category
		}
		s.logger.Info("upsert mod",
			"name", mod.Name,
			"category", category,
			"err", err,
		)
	}()
	return s.next.UpsertMod(ctx, mod)
}

// DeleteMods delegates to the wrapped service and logs the deleted count.
func (s *LoggingModService) DeleteMods(ctx context.Context, filter modcat.ModDelete) (deleted int, err error) {
	defer func() {
		s.logger.Info("delete mods",
			"source", filter.SourceURL,
			"deleted", deleted,
			"err", err,
		)
	}()
	return s.next.DeleteMods(ctx, filter)
}
