package application

import (
	"context"

	"github.com/atvirokodosprendimai/labelhub/internal/domain"
)

const (
	dailyLimit     = 30
	countriesLimit = 10
	topTracksLimit = 10
)

type AnalyticsService struct {
	repo domain.AnalyticsRepository
}

func NewAnalyticsService(repo domain.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// Report picks the track, user or global report; a track id wins over a user id.
func (s *AnalyticsService) Report(ctx context.Context, scope domain.AnalyticsScope) (any, error) {
	if scope.StartDate != nil && scope.EndDate != nil && scope.EndDate.Before(scope.StartDate.Time) {
		return nil, domain.Invalid("end_date must not be before start_date")
	}
	switch {
	case scope.TrackID != nil:
		scope.UserID = nil
		return s.TrackReport(ctx, scope)
	case scope.UserID != nil:
		return s.UserReport(ctx, scope)
	default:
		return s.GlobalReport(ctx, scope)
	}
}

func (s *AnalyticsService) TrackReport(ctx context.Context, scope domain.AnalyticsScope) (domain.TrackReport, error) {
	daily, err := s.repo.DailySeries(ctx, scope, dailyLimit)
	if err != nil {
		return domain.TrackReport{}, err
	}
	countries, err := s.repo.CountryBreakdown(ctx, scope, countriesLimit)
	if err != nil {
		return domain.TrackReport{}, err
	}
	platforms, err := s.repo.PlatformBreakdown(ctx, scope)
	if err != nil {
		return domain.TrackReport{}, err
	}
	return domain.TrackReport{Daily: daily, Countries: countries, Platforms: platforms}, nil
}

func (s *AnalyticsService) UserReport(ctx context.Context, scope domain.AnalyticsScope) (domain.UserReport, error) {
	daily, err := s.repo.DailySeries(ctx, scope, dailyLimit)
	if err != nil {
		return domain.UserReport{}, err
	}
	top, err := s.repo.TopTracks(ctx, scope, topTracksLimit)
	if err != nil {
		return domain.UserReport{}, err
	}
	totals, err := s.repo.Totals(ctx, scope)
	if err != nil {
		return domain.UserReport{}, err
	}
	return domain.UserReport{Daily: daily, TopTracks: top, Totals: totals}, nil
}

func (s *AnalyticsService) GlobalReport(ctx context.Context, scope domain.AnalyticsScope) (domain.GlobalReport, error) {
	daily, err := s.repo.DailySeries(ctx, scope, dailyLimit)
	if err != nil {
		return domain.GlobalReport{}, err
	}
	totals, err := s.repo.Totals(ctx, scope)
	if err != nil {
		return domain.GlobalReport{}, err
	}
	return domain.GlobalReport{Daily: daily, Totals: totals}, nil
}

// Record stores one analytics row; used by seeding and imports.
func (s *AnalyticsService) Record(ctx context.Context, row domain.AnalyticsRow) (domain.AnalyticsRow, error) {
	if row.TrackID == 0 {
		return domain.AnalyticsRow{}, domain.Invalid("track_id is required")
	}
	if row.Date.IsZero() {
		return domain.AnalyticsRow{}, domain.Invalid("date is required")
	}
	return s.repo.RecordAnalytics(ctx, row)
}
