// Package services содержит фоновую очистку устаревших черновиков
// и осиротевших временных изображений.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/stepanenkodv/realty-board/internal/lib/clock"
	"github.com/stepanenkodv/realty-board/internal/lib/sl"
)

// DraftSweeper удаляет давно не обновлявшиеся черновики.
type DraftSweeper interface {
	SweepOlderThan(ctx context.Context, maxAge time.Duration) (int, error)
}

// ImageSweeper удаляет временные изображения, загруженные до cutoff.
type ImageSweeper interface {
	SweepTemporaryOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// SweeperService периодически запускает очистку черновиков и временных
// изображений.
type SweeperService struct {
	drafts   DraftSweeper
	images   ImageSweeper
	clock    clock.Clock
	interval time.Duration
	maxAge   time.Duration
	log      *slog.Logger
}

// NewSweeperService создает новый экземпляр SweeperService.
func NewSweeperService(drafts DraftSweeper, images ImageSweeper, clk clock.Clock,
	interval, maxAge time.Duration, log *slog.Logger) *SweeperService {
	return &SweeperService{
		drafts:   drafts,
		images:   images,
		clock:    clk,
		interval: interval,
		maxAge:   maxAge,
		log:      log,
	}
}

// Run запускает цикл очистки и блокируется до отмены контекста.
// Первый проход выполняется сразу при старте.
func (s *SweeperService) Run(ctx context.Context) {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("draft sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SweeperService) sweep(ctx context.Context) {
	s.log.Info("starting stale draft sweep")
	n, err := s.drafts.SweepOlderThan(ctx, s.maxAge)
	if err != nil {
		s.log.Error("failed to sweep stale drafts", sl.Err(err))
	} else if n > 0 {
		s.log.Info("stale drafts swept", slog.Int("count", n))
	}

	// Сбой одной половины очистки не мешает другой.
	cutoff := s.clock.Now().Add(-s.maxAge)
	m, err := s.images.SweepTemporaryOlderThan(ctx, cutoff)
	if err != nil {
		s.log.Error("failed to sweep temporary images", sl.Err(err))
	} else if m > 0 {
		s.log.Info("orphaned temporary images swept", slog.Int("count", m))
	}
}
