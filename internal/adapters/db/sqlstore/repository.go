package sqlstore

import (
	"context"
	"time"

	"github.com/atvirokodosprendimai/labelhub/internal/domain"
	"gorm.io/gorm"
)

// Repository implements every domain port on one gorm handle.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

var (
	_ domain.UserRepository      = (*Repository)(nil)
	_ domain.TrackRepository     = (*Repository)(nil)
	_ domain.LabelRepository     = (*Repository)(nil)
	_ domain.SocialRepository    = (*Repository)(nil)
	_ domain.AnalyticsRepository = (*Repository)(nil)
)

// Ping checks that the pool can reach the database.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// update applies changes to one row of model's table. With stamp it also sets
// updated_at; without it the row's timestamps are left alone.
func (r *Repository) update(ctx context.Context, model any, id uint, changes domain.Changes, stamp bool) error {
	values := make(map[string]any, len(changes)+1)
	for k, v := range changes {
		values[k] = v
	}
	tx := r.db.WithContext(ctx).Model(model).Where("id = ?", id)
	var res *gorm.DB
	if stamp {
		values["updated_at"] = r.now()
		res = tx.Updates(values)
	} else {
		// UpdateColumns skips gorm's automatic updated_at.
		res = tx.UpdateColumns(values)
	}
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// MySQL reports zero affected rows when the values did not change.
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) first(ctx context.Context, dest any, id uint) error {
	return translateError(r.db.WithContext(ctx).Where("id = ?", id).First(dest).Error)
}
