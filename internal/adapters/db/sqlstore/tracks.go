package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/atvirokodosprendimai/labelhub/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

type trackRow struct {
	TrackModel
	Username *string
	FullName *string
}

func (r *Repository) GetTrack(ctx context.Context, id uint) (domain.Track, error) {
	var m TrackModel
	if err := r.first(ctx, &m, id); err != nil {
		return domain.Track{}, err
	}
	return m.toDomain(), nil
}

func (r *Repository) ListTracks(ctx context.Context, filter domain.TrackFilter) ([]domain.TrackListItem, error) {
	q := r.db.WithContext(ctx).
		Table("tracks AS t").
		Select("t.*, u.username, u.full_name").
		Joins("LEFT JOIN users u ON u.id = t.user_id")

	if filter.UserID != nil {
		q = q.Where("t.user_id = ?", *filter.UserID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		q = q.Where("t.status = ?", status)
	}
	if genre := strings.TrimSpace(filter.Genre); genre != "" {
		q = q.Where("t.genre = ?", genre)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		q = q.Where("(LOWER(t.title) LIKE LOWER(?) OR LOWER(t.artist) LIKE LOWER(?))", like, like)
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = domain.SortByUploadDate
	}
	q = q.Order(clause.OrderByColumn{
		Column: clause.Column{Table: "t", Name: string(sortBy)},
		Desc:   filter.Order != domain.OrderAsc,
	}).Order("t.id DESC")

	rows := make([]trackRow, 0)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	result := make([]domain.TrackListItem, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.TrackListItem{Track: m.TrackModel.toDomain(), Username: m.Username, FullName: m.FullName})
	}
	return result, nil
}

func (r *Repository) CreateTrack(ctx context.Context, value domain.Track) (domain.Track, error) {
	m := TrackModel{
		UserID:          value.UserID,
		Title:           value.Title,
		Artist:          value.Artist,
		Genre:           value.Genre,
		BPM:             value.BPM,
		Key:             value.Key,
		Mood:            value.Mood,
		AudioURL:        value.AudioURL,
		CoverURL:        value.CoverURL,
		Duration:        value.Duration,
		Status:          value.Status,
		RejectionReason: value.RejectionReason,
		Streams:         value.Streams,
		Revenue:         value.Revenue,
		Metadata:        value.Metadata,
		UploadDate:      value.UploadDate,
	}
	if len(m.Metadata) == 0 {
		m.Metadata = datatypes.JSON("{}")
	}
	if m.UploadDate.IsZero() {
		m.UploadDate = r.now()
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Track{}, translateError(err)
	}
	return m.toDomain(), nil
}

func (r *Repository) UpdateTrack(ctx context.Context, id uint, changes domain.Changes) (domain.Track, error) {
	if err := r.update(ctx, &TrackModel{}, id, changes, true); err != nil {
		return domain.Track{}, err
	}
	return r.GetTrack(ctx, id)
}

// SetTrackStatus changes only the status column; updated_at keeps its value.
func (r *Repository) SetTrackStatus(ctx context.Context, id uint, status string) (domain.Track, error) {
	if err := r.update(ctx, &TrackModel{}, id, domain.Changes{"status": status}, false); err != nil {
		return domain.Track{}, err
	}
	return r.GetTrack(ctx, id)
}
