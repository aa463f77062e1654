package service

import (
	"context"

	"p2psandbox/internal/middleware"
	"p2psandbox/internal/models"
	"p2psandbox/internal/repository"
)

// StatsService exposes the per-user statistics row and activity feed.
type StatsService struct {
	statsRepo    repository.StatsRepository
	activityRepo repository.ActivityRepository
}

// Dashboard bundles everything the profile dashboard renders in one call.
type Dashboard struct {
	Stats    *models.UserStats  `json:"stats"`
	Activity []*models.Activity `json:"activity"`
}

func NewStatsService(statsRepo repository.StatsRepository, activityRepo repository.ActivityRepository) *StatsService {
	return &StatsService{statsRepo: statsRepo, activityRepo: activityRepo}
}

func (s *StatsService) GetUserStats(ctx context.Context, userID uint) (*models.UserStats, error) {
	return s.statsRepo.GetByUserID(ctx, userID)
}

// RecomputeUserStats forces a fresh aggregation. The result does not depend
// on how many times or in what order this runs.
func (s *StatsService) RecomputeUserStats(ctx context.Context, userID uint) (*models.UserStats, error) {
	stats, err := s.statsRepo.Recompute(ctx, userID)
	if err != nil {
		return nil, err
	}
	middleware.StatsRecomputes.Inc()
	return stats, nil
}

func (s *StatsService) GetActivity(ctx context.Context, userID uint, limit, offset int) ([]*models.Activity, error) {
	return s.activityRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *StatsService) GetDashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	stats, err := s.statsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	activity, err := s.activityRepo.ListByUser(ctx, userID, 10, 0)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Stats: stats, Activity: activity}, nil
}
