package sqlstore

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/labelhub/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type labelSummaryRow struct {
	LabelModel
	ArtistCount int64
}

func (r *Repository) GetLabelDetail(ctx context.Context, id uint) (domain.LabelDetail, error) {
	var m LabelModel
	if err := r.first(ctx, &m, id); err != nil {
		return domain.LabelDetail{}, err
	}

	type memberRow struct {
		UserID   uint
		Username string
		FullName *string
		Role     string
	}
	rows := make([]memberRow, 0)
	if err := r.db.WithContext(ctx).Raw(`
SELECT la.user_id, u.username, u.full_name, la.role
FROM label_artists la
JOIN users u ON u.id = la.user_id
WHERE la.label_id = ?
ORDER BY la.joined_at ASC, la.id ASC
`, id).Scan(&rows).Error; err != nil {
		return domain.LabelDetail{}, fmt.Errorf("list label %d artists: %w", id, err)
	}

	artists := make([]domain.LabelMember, 0, len(rows))
	for _, row := range rows {
		artists = append(artists, domain.LabelMember{UserID: row.UserID, Username: row.Username, FullName: row.FullName, Role: row.Role})
	}
	return domain.LabelDetail{Label: m.toDomain(), Artists: artists}, nil
}

func (r *Repository) labelSummaries(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]domain.LabelSummary, error) {
	q := r.db.WithContext(ctx).
		Table("labels AS l").
		Select("l.*, COUNT(la.user_id) AS artist_count").
		Joins("LEFT JOIN label_artists la ON la.label_id = l.id")
	if scope != nil {
		q = scope(q)
	}

	rows := make([]labelSummaryRow, 0)
	if err := q.Group("l.id").Order("l.id ASC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	result := make([]domain.LabelSummary, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.LabelSummary{Label: m.LabelModel.toDomain(), ArtistCount: m.ArtistCount})
	}
	return result, nil
}

func (r *Repository) ListLabels(ctx context.Context) ([]domain.LabelSummary, error) {
	return r.labelSummaries(ctx, nil)
}

// ListLabelsForUser returns labels the user owns or belongs to; artist_count covers every member.
func (r *Repository) ListLabelsForUser(ctx context.Context, userID uint) ([]domain.LabelSummary, error) {
	return r.labelSummaries(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("l.owner_id = ? OR l.id IN (SELECT label_id FROM label_artists WHERE user_id = ?)", userID, userID)
	})
}

func (r *Repository) CreateLabel(ctx context.Context, value domain.Label) (domain.Label, error) {
	m := LabelModel{
		OwnerID:     value.OwnerID,
		Name:        value.Name,
		Description: value.Description,
		LogoURL:     value.LogoURL,
		Website:     value.Website,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Label{}, translateError(err)
	}
	return m.toDomain(), nil
}

func (r *Repository) UpdateLabel(ctx context.Context, id uint, changes domain.Changes) (domain.Label, error) {
	if err := r.update(ctx, &LabelModel{}, id, changes, true); err != nil {
		return domain.Label{}, err
	}
	var m LabelModel
	if err := r.first(ctx, &m, id); err != nil {
		return domain.Label{}, err
	}
	return m.toDomain(), nil
}

// UpsertLabelArtist inserts the membership or updates its role when the pair exists.
func (r *Repository) UpsertLabelArtist(ctx context.Context, value domain.LabelArtist) (domain.LabelArtist, error) {
	var out LabelArtistModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := LabelArtistModel{LabelID: value.LabelID, UserID: value.UserID, Role: value.Role, JoinedAt: r.now()}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "label_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role"}),
		}).Create(&m).Error; err != nil {
			return err
		}
		return tx.Where("label_id = ? AND user_id = ?", value.LabelID, value.UserID).First(&out).Error
	})
	if err != nil {
		return domain.LabelArtist{}, translateError(err)
	}
	return out.toDomain(), nil
}

func (r *Repository) ListReleases(ctx context.Context, filter domain.ReleaseFilter) ([]domain.ReleaseListItem, error) {
	type row struct {
		ReleaseModel
		Title    string
		Artist   string
		CoverURL *string
		Username string
	}

	q := r.db.WithContext(ctx).
		Table("releases AS r").
		Select("r.*, t.title, t.artist, t.cover_url, u.username").
		Joins("JOIN tracks t ON t.id = r.track_id").
		Joins("JOIN users u ON u.id = r.user_id")
	if filter.UserID != nil {
		q = q.Where("r.user_id = ?", *filter.UserID)
	}
	if filter.StartDate != nil {
		q = q.Where("r.release_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("r.release_date <= ?", *filter.EndDate)
	}

	rows := make([]row, 0)
	if err := q.Order("r.release_date ASC").Order("r.id ASC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list releases: %w", err)
	}
	result := make([]domain.ReleaseListItem, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.ReleaseListItem{
			Release:  m.ReleaseModel.toDomain(),
			Title:    m.Title,
			Artist:   m.Artist,
			CoverURL: m.CoverURL,
			Username: m.Username,
		})
	}
	return result, nil
}

func (r *Repository) CreateRelease(ctx context.Context, value domain.Release) (domain.Release, error) {
	m := ReleaseModel{
		TrackID:         value.TrackID,
		UserID:          value.UserID,
		ReleaseDate:     value.ReleaseDate,
		Platforms:       value.Platforms,
		PromotionalPlan: value.PromotionalPlan,
		Status:          value.Status,
	}
	if len(m.Platforms) == 0 {
		m.Platforms = datatypes.JSON("[]")
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Release{}, translateError(err)
	}
	return m.toDomain(), nil
}

func (r *Repository) UpdateRelease(ctx context.Context, id uint, changes domain.Changes) (domain.Release, error) {
	if err := r.update(ctx, &ReleaseModel{}, id, changes, true); err != nil {
		return domain.Release{}, err
	}
	var m ReleaseModel
	if err := r.first(ctx, &m, id); err != nil {
		return domain.Release{}, err
	}
	return m.toDomain(), nil
}
