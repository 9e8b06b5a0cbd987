package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/atvirokodosprendimai/labelhub/internal/domain"
	"github.com/shopspring/decimal"
)

type userProfileRow struct {
	UserModel
	TotalTracks  int64
	TotalStreams *int64
	TotalRevenue decimal.NullDecimal
}

func (r *Repository) GetUserProfile(ctx context.Context, id uint) (domain.UserProfile, error) {
	var row userProfileRow
	res := r.db.WithContext(ctx).Raw(`
SELECT u.*,
       COUNT(t.id) AS total_tracks,
       SUM(t.streams) AS total_streams,
       SUM(t.revenue) AS total_revenue
FROM users u
LEFT JOIN tracks t ON t.user_id = u.id
WHERE u.id = ?
GROUP BY u.id
`, id).Scan(&row)
	if res.Error != nil {
		return domain.UserProfile{}, fmt.Errorf("get user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.UserProfile{}, domain.ErrNotFound
	}
	return domain.UserProfile{
		User:         row.UserModel.toDomain(),
		TotalTracks:  row.TotalTracks,
		TotalStreams: row.TotalStreams,
		TotalRevenue: moneySum(row.TotalRevenue),
	}, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&m).Error; err != nil {
		return domain.User{}, translateError(err)
	}
	return m.toDomain(), nil
}

func (r *Repository) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.UserListItem, error) {
	type row struct {
		UserModel
		TotalTracks int64
	}

	q := r.db.WithContext(ctx).
		Table("users AS u").
		Select("u.*, COUNT(t.id) AS total_tracks").
		Joins("LEFT JOIN tracks t ON t.user_id = u.id")
	if role := strings.TrimSpace(filter.Role); role != "" {
		q = q.Where("u.role = ?", role)
	}

	rows := make([]row, 0)
	if err := q.Group("u.id").Order("u.created_at DESC").Order("u.id DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	result := make([]domain.UserListItem, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.UserListItem{User: m.UserModel.toDomain(), TotalTracks: m.TotalTracks})
	}
	return result, nil
}

func (r *Repository) CreateUser(ctx context.Context, value domain.User) (domain.User, error) {
	m := UserModel{
		Email:                 value.Email,
		Username:              value.Username,
		FullName:              value.FullName,
		Role:                  value.Role,
		Bio:                   value.Bio,
		AvatarURL:             value.AvatarURL,
		PaypalEmail:           value.PaypalEmail,
		BankAccount:           value.BankAccount,
		TelegramID:            value.TelegramID,
		TelegramNotifications: value.TelegramNotifications,
		EmailNotifications:    value.EmailNotifications,
		PushNotifications:     value.PushNotifications,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.User{}, translateError(err)
	}
	return m.toDomain(), nil
}

func (r *Repository) UpdateUser(ctx context.Context, id uint, changes domain.Changes) (domain.User, error) {
	if err := r.update(ctx, &UserModel{}, id, changes, true); err != nil {
		return domain.User{}, err
	}
	var m UserModel
	if err := r.first(ctx, &m, id); err != nil {
		return domain.User{}, err
	}
	return m.toDomain(), nil
}
