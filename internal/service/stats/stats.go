package stats

import (
	"context"
	"time"

	"crm-dashboard-service/internal/cache"
	"crm-dashboard-service/internal/domain/stats"
	xerrors "crm-dashboard-service/internal/pkg/errors"
	"crm-dashboard-service/internal/repository/postgres"

	"go.uber.org/zap"
)

const reportCacheKey = "dashboard"

type StatsService struct {
	statsRepo *postgres.StatsRepository
	cache     *cache.JSONCache
	location  *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

func NewStatsService(statsRepo *postgres.StatsRepository, reportCache *cache.JSONCache, location *time.Location, logger *zap.Logger) *StatsService {
	if location == nil {
		location = time.UTC
	}
	return &StatsService{
		statsRepo: statsRepo,
		cache:     reportCache,
		location:  location,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock replaces the time source that decides what "today" is.
func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	s.now = now
	return s
}

// GetReport returns the dashboard report, from cache unless refresh is set.
// Cache trouble is logged and never fails the request.
func (s *StatsService) GetReport(ctx context.Context, refresh bool) (*stats.Report, error) {
	if !refresh {
		var cached stats.Report
		hit, err := s.cache.Get(ctx, reportCacheKey, &cached)
		if err != nil {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		}
		if hit {
			return &cached, nil
		}
	}

	start := time.Now()
	rep, err := s.statsRepo.Report(ctx, s.now(), s.location)
	if err != nil {
		s.logger.Error("failed to build dashboard report", zap.Error(err))
		return nil, xerrors.Wrap(err, "failed to build dashboard report")
	}

	s.logger.Debug("dashboard report built",
		zap.Duration("took", time.Since(start)),
		zap.String("timezone", s.location.String()),
	)

	if err := s.cache.Set(ctx, reportCacheKey, rep); err != nil {
		s.logger.Warn("stats cache write failed", zap.Error(err))
	}

	return rep, nil
}

// Invalidate drops the cached report so the next read rebuilds it.
func (s *StatsService) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, reportCacheKey); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}
