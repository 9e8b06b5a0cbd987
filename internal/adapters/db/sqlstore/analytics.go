package sqlstore

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/labelhub/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// scoped narrows analytics rows to one track, one owner's tracks, or nothing, then by date.
func (r *Repository) scoped(ctx context.Context, scope domain.AnalyticsScope, joinTracks bool) *gorm.DB {
	q := r.db.WithContext(ctx).Table("analytics AS a")
	if joinTracks || (scope.TrackID == nil && scope.UserID != nil) {
		q = q.Joins("JOIN tracks t ON t.id = a.track_id")
	}
	switch {
	case scope.TrackID != nil:
		q = q.Where("a.track_id = ?", *scope.TrackID)
	case scope.UserID != nil:
		q = q.Where("t.user_id = ?", *scope.UserID)
	}
	if scope.StartDate != nil {
		q = q.Where("a.date >= ?", *scope.StartDate)
	}
	if scope.EndDate != nil {
		q = q.Where("a.date <= ?", *scope.EndDate)
	}
	return q
}

func (r *Repository) DailySeries(ctx context.Context, scope domain.AnalyticsScope, limit int) ([]domain.DailyPoint, error) {
	rows := make([]domain.DailyPoint, 0)
	if err := r.scoped(ctx, scope, false).
		Select("a.date AS date, SUM(a.streams) AS streams, SUM(a.revenue) AS revenue").
		Group("a.date").
		Order("a.date DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("daily series: %w", err)
	}
	for i := range rows {
		rows[i].Revenue = moneySum(rows[i].Revenue)
	}
	return rows, nil
}

func (r *Repository) CountryBreakdown(ctx context.Context, scope domain.AnalyticsScope, limit int) ([]domain.CountryPoint, error) {
	rows := make([]domain.CountryPoint, 0)
	if err := r.scoped(ctx, scope, false).
		Select("a.country AS country, SUM(a.streams) AS streams").
		Group("a.country").
		Order("SUM(a.streams) DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("country breakdown: %w", err)
	}
	return rows, nil
}

func (r *Repository) PlatformBreakdown(ctx context.Context, scope domain.AnalyticsScope) ([]domain.PlatformPoint, error) {
	rows := make([]domain.PlatformPoint, 0)
	if err := r.scoped(ctx, scope, false).
		Select("a.platform AS platform, SUM(a.streams) AS streams, SUM(a.revenue) AS revenue").
		Group("a.platform").
		Order("SUM(a.streams) DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("platform breakdown: %w", err)
	}
	for i := range rows {
		rows[i].Revenue = moneySum(rows[i].Revenue)
	}
	return rows, nil
}

func (r *Repository) TopTracks(ctx context.Context, scope domain.AnalyticsScope, limit int) ([]domain.TopTrack, error) {
	rows := make([]domain.TopTrack, 0)
	if err := r.scoped(ctx, scope, true).
		Select("t.id AS id, t.title AS title, t.artist AS artist, SUM(a.streams) AS total_streams, SUM(a.revenue) AS total_revenue").
		Group("t.id, t.title, t.artist").
		Order("SUM(a.revenue) DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("top tracks: %w", err)
	}
	for i := range rows {
		rows[i].TotalRevenue = moneySum(rows[i].TotalRevenue)
	}
	return rows, nil
}

func (r *Repository) Totals(ctx context.Context, scope domain.AnalyticsScope) (domain.Totals, error) {
	var row struct {
		TotalStreams *int64
		TotalRevenue decimal.NullDecimal
	}
	if err := r.scoped(ctx, scope, false).
		Select("SUM(a.streams) AS total_streams, SUM(a.revenue) AS total_revenue").
		Scan(&row).Error; err != nil {
		return domain.Totals{}, fmt.Errorf("totals: %w", err)
	}
	return domain.Totals{TotalStreams: row.TotalStreams, TotalRevenue: moneySum(row.TotalRevenue)}, nil
}

func (r *Repository) RecordAnalytics(ctx context.Context, value domain.AnalyticsRow) (domain.AnalyticsRow, error) {
	m := AnalyticsModel{
		TrackID:  value.TrackID,
		Date:     value.Date,
		Streams:  value.Streams,
		Revenue:  value.Revenue,
		Country:  value.Country,
		Platform: value.Platform,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.AnalyticsRow{}, translateError(err)
	}
	return m.toDomain(), nil
}
