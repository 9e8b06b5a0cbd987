package sqlstore

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/labelhub/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *Repository) ListComments(ctx context.Context, trackID uint) ([]domain.CommentView, error) {
	type row struct {
		CommentModel
		Username  string
		FullName  *string
		AvatarURL *string
	}

	rows := make([]row, 0)
	if err := r.db.WithContext(ctx).Raw(`
SELECT c.*, u.username, u.full_name, u.avatar_url
FROM comments c
JOIN users u ON u.id = c.user_id
WHERE c.track_id = ?
ORDER BY c.created_at DESC, c.id DESC
`, trackID).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list comments for track %d: %w", trackID, err)
	}
	result := make([]domain.CommentView, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.CommentView{
			Comment:   m.CommentModel.toDomain(),
			Username:  m.Username,
			FullName:  m.FullName,
			AvatarURL: m.AvatarURL,
		})
	}
	return result, nil
}

func (r *Repository) CreateComment(ctx context.Context, value domain.Comment) (domain.Comment, error) {
	m := CommentModel{TrackID: value.TrackID, UserID: value.UserID, Content: value.Content, ParentID: value.ParentID}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Comment{}, translateError(err)
	}
	return m.toDomain(), nil
}

func (r *Repository) ListMessages(ctx context.Context, userID uint, limit int) ([]domain.MessageView, error) {
	type row struct {
		MessageModel
		SenderUsername   string
		SenderName       *string
		ReceiverUsername string
		ReceiverName     *string
	}

	rows := make([]row, 0)
	if err := r.db.WithContext(ctx).Raw(`
SELECT m.*,
       s.username AS sender_username,
       s.full_name AS sender_name,
       rc.username AS receiver_username,
       rc.full_name AS receiver_name
FROM messages m
JOIN users s ON s.id = m.sender_id
JOIN users rc ON rc.id = m.receiver_id
WHERE m.sender_id = ? OR m.receiver_id = ?
ORDER BY m.created_at DESC, m.id DESC
LIMIT ?
`, userID, userID, limit).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list messages for user %d: %w", userID, err)
	}
	result := make([]domain.MessageView, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.MessageView{
			Message:          m.MessageModel.toDomain(),
			SenderUsername:   m.SenderUsername,
			SenderName:       m.SenderName,
			ReceiverUsername: m.ReceiverUsername,
			ReceiverName:     m.ReceiverName,
		})
	}
	return result, nil
}

func (r *Repository) CreateMessage(ctx context.Context, value domain.Message) (domain.Message, error) {
	m := MessageModel{SenderID: value.SenderID, ReceiverID: value.ReceiverID, TrackID: value.TrackID, Content: value.Content}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Message{}, translateError(err)
	}
	return m.toDomain(), nil
}

func (r *Repository) MarkMessageRead(ctx context.Context, id uint) (domain.Message, error) {
	if err := r.update(ctx, &MessageModel{}, id, domain.Changes{"is_read": true}, false); err != nil {
		return domain.Message{}, err
	}
	var m MessageModel
	if err := r.first(ctx, &m, id); err != nil {
		return domain.Message{}, err
	}
	return m.toDomain(), nil
}

func (r *Repository) GetPlaylistDetail(ctx context.Context, id uint) (domain.PlaylistDetail, error) {
	var m PlaylistModel
	if err := r.first(ctx, &m, id); err != nil {
		return domain.PlaylistDetail{}, err
	}

	type entryRow struct {
		TrackID  uint
		Title    string
		Artist   string
		Position int
	}
	rows := make([]entryRow, 0)
	if err := r.db.WithContext(ctx).Raw(`
SELECT pt.track_id, t.title, t.artist, pt.position
FROM playlist_tracks pt
JOIN tracks t ON t.id = pt.track_id
WHERE pt.playlist_id = ?
ORDER BY pt.position ASC, pt.id ASC
`, id).Scan(&rows).Error; err != nil {
		return domain.PlaylistDetail{}, fmt.Errorf("list playlist %d tracks: %w", id, err)
	}

	tracks := make([]domain.PlaylistEntry, 0, len(rows))
	for _, row := range rows {
		tracks = append(tracks, domain.PlaylistEntry{TrackID: row.TrackID, Title: row.Title, Artist: row.Artist, Position: row.Position})
	}
	return domain.PlaylistDetail{Playlist: m.toDomain(), Tracks: tracks}, nil
}

// ListPlaylists returns the user's own playlists together with every public one.
func (r *Repository) ListPlaylists(ctx context.Context, userID uint) ([]domain.PlaylistSummary, error) {
	type row struct {
		PlaylistModel
		TrackCount int64
	}

	rows := make([]row, 0)
	if err := r.db.WithContext(ctx).
		Table("playlists AS p").
		Select("p.*, COUNT(pt.track_id) AS track_count").
		Joins("LEFT JOIN playlist_tracks pt ON pt.playlist_id = p.id").
		Where("p.user_id = ? OR p.is_public = ?", userID, true).
		Group("p.id").
		Order("p.created_at DESC").
		Order("p.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list playlists for user %d: %w", userID, err)
	}
	result := make([]domain.PlaylistSummary, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.PlaylistSummary{Playlist: m.PlaylistModel.toDomain(), TrackCount: m.TrackCount})
	}
	return result, nil
}

func (r *Repository) CreatePlaylist(ctx context.Context, value domain.Playlist) (domain.Playlist, error) {
	m := PlaylistModel{UserID: value.UserID, Title: value.Title, Description: value.Description, IsPublic: value.IsPublic}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Playlist{}, translateError(err)
	}
	return m.toDomain(), nil
}

// UpsertPlaylistTrack adds the track or moves it to the new position when already present.
func (r *Repository) UpsertPlaylistTrack(ctx context.Context, value domain.PlaylistTrack) (domain.PlaylistTrack, error) {
	var out PlaylistTrackModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := PlaylistTrackModel{PlaylistID: value.PlaylistID, TrackID: value.TrackID, Position: value.Position, AddedAt: r.now()}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "playlist_id"}, {Name: "track_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"position"}),
		}).Create(&m).Error; err != nil {
			return err
		}
		return tx.Where("playlist_id = ? AND track_id = ?", value.PlaylistID, value.TrackID).First(&out).Error
	})
	if err != nil {
		return domain.PlaylistTrack{}, translateError(err)
	}
	return out.toDomain(), nil
}

func (r *Repository) ListNotifications(ctx context.Context, userID uint, limit int) ([]domain.Notification, error) {
	rows := make([]NotificationModel, 0)
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list notifications for user %d: %w", userID, err)
	}
	result := make([]domain.Notification, 0, len(rows))
	for _, m := range rows {
		result = append(result, m.toDomain())
	}
	return result, nil
}

func (r *Repository) CreateNotification(ctx context.Context, value domain.Notification) (domain.Notification, error) {
	m := NotificationModel{UserID: value.UserID, Type: value.Type, Title: value.Title, Message: value.Message, Link: value.Link}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Notification{}, translateError(err)
	}
	return m.toDomain(), nil
}

func (r *Repository) MarkNotificationRead(ctx context.Context, id uint) (domain.Notification, error) {
	if err := r.update(ctx, &NotificationModel{}, id, domain.Changes{"is_read": true}, false); err != nil {
		return domain.Notification{}, err
	}
	var m NotificationModel
	if err := r.first(ctx, &m, id); err != nil {
		return domain.Notification{}, err
	}
	return m.toDomain(), nil
}
