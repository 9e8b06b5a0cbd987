package sqlstore

import (
	"time"

	"github.com/atvirokodosprendimai/labelhub/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type UserModel struct {
	ID                    uint   `gorm:"primaryKey"`
	Email                 string `gorm:"not null;uniqueIndex"`
	Username              string `gorm:"not null;uniqueIndex"`
	FullName              *string
	Role                  string `gorm:"not null"`
	Bio                   *string
	AvatarURL             *string
	PaypalEmail           *string
	BankAccount           *string
	TelegramID            *string
	TelegramNotifications bool `gorm:"not null"`
	EmailNotifications    bool `gorm:"not null"`
	PushNotifications     bool `gorm:"not null"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (UserModel) TableName() string { return "users" }

func (m UserModel) toDomain() domain.User {
	return domain.User{
		ID:                    m.ID,
		Email:                 m.Email,
		Username:              m.Username,
		FullName:              m.FullName,
		Role:                  m.Role,
		Bio:                   m.Bio,
		AvatarURL:             m.AvatarURL,
		PaypalEmail:           m.PaypalEmail,
		BankAccount:           m.BankAccount,
		TelegramID:            m.TelegramID,
		TelegramNotifications: m.TelegramNotifications,
		EmailNotifications:    m.EmailNotifications,
		PushNotifications:     m.PushNotifications,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

type TrackModel struct {
	ID              uint   `gorm:"primaryKey"`
	UserID          *uint  `gorm:"index"`
	Title           string `gorm:"not null"`
	Artist          string `gorm:"not null"`
	Genre           *string
	BPM             *int `gorm:"column:bpm"`
	Key             *string
	Mood            *string
	AudioURL        *string
	CoverURL        *string
	Duration        *int
	Status          string `gorm:"not null;index"`
	RejectionReason *string
	Streams         int64           `gorm:"not null"`
	Revenue         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Metadata        datatypes.JSON
	UploadDate      time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (TrackModel) TableName() string { return "tracks" }

func (m TrackModel) toDomain() domain.Track {
	return domain.Track{
		ID:              m.ID,
		UserID:          m.UserID,
		Title:           m.Title,
		Artist:          m.Artist,
		Genre:           m.Genre,
		BPM:             m.BPM,
		Key:             m.Key,
		Mood:            m.Mood,
		AudioURL:        m.AudioURL,
		CoverURL:        m.CoverURL,
		Duration:        m.Duration,
		Status:          m.Status,
		RejectionReason: m.RejectionReason,
		Streams:         m.Streams,
		Revenue:         money(m.Revenue),
		Metadata:        m.Metadata,
		UploadDate:      m.UploadDate,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

type AnalyticsModel struct {
	ID       uint            `gorm:"primaryKey"`
	TrackID  uint            `gorm:"not null;index"`
	Date     domain.Date     `gorm:"not null;index"`
	Streams  int64           `gorm:"not null"`
	Revenue  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Country  *string
	Platform *string
}

func (AnalyticsModel) TableName() string { return "analytics" }

func (m AnalyticsModel) toDomain() domain.AnalyticsRow {
	return domain.AnalyticsRow{
		ID:       m.ID,
		TrackID:  m.TrackID,
		Date:     m.Date,
		Streams:  m.Streams,
		Revenue:  money(m.Revenue),
		Country:  m.Country,
		Platform: m.Platform,
	}
}

type LabelModel struct {
	ID          uint   `gorm:"primaryKey"`
	OwnerID     uint   `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Description *string
	LogoURL     *string
	Website     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (LabelModel) TableName() string { return "labels" }

func (m LabelModel) toDomain() domain.Label {
	return domain.Label{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Description: m.Description,
		LogoURL:     m.LogoURL,
		Website:     m.Website,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type LabelArtistModel struct {
	ID       uint      `gorm:"primaryKey"`
	LabelID  uint      `gorm:"not null;index:idx_label_artist,unique"`
	UserID   uint      `gorm:"not null;index:idx_label_artist,unique"`
	Role     string    `gorm:"not null"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

func (LabelArtistModel) TableName() string { return "label_artists" }

func (m LabelArtistModel) toDomain() domain.LabelArtist {
	return domain.LabelArtist{ID: m.ID, LabelID: m.LabelID, UserID: m.UserID, Role: m.Role, JoinedAt: m.JoinedAt}
}

type ReleaseModel struct {
	ID              uint        `gorm:"primaryKey"`
	TrackID         uint        `gorm:"not null;index"`
	UserID          uint        `gorm:"not null;index"`
	ReleaseDate     domain.Date `gorm:"not null"`
	Platforms       datatypes.JSON
	PromotionalPlan *string
	Status          string `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (ReleaseModel) TableName() string { return "releases" }

func (m ReleaseModel) toDomain() domain.Release {
	return domain.Release{
		ID:              m.ID,
		TrackID:         m.TrackID,
		UserID:          m.UserID,
		ReleaseDate:     m.ReleaseDate,
		Platforms:       m.Platforms,
		PromotionalPlan: m.PromotionalPlan,
		Status:          m.Status,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

type CommentModel struct {
	ID        uint   `gorm:"primaryKey"`
	TrackID   uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null"`
	Content   string `gorm:"not null"`
	ParentID  *uint
	CreatedAt time.Time
}

func (CommentModel) TableName() string { return "comments" }

func (m CommentModel) toDomain() domain.Comment {
	return domain.Comment{ID: m.ID, TrackID: m.TrackID, UserID: m.UserID, Content: m.Content, ParentID: m.ParentID, CreatedAt: m.CreatedAt}
}

type MessageModel struct {
	ID         uint `gorm:"primaryKey"`
	SenderID   uint `gorm:"not null;index"`
	ReceiverID uint `gorm:"not null;index"`
	TrackID    *uint
	Content    string `gorm:"not null"`
	IsRead     bool   `gorm:"not null"`
	CreatedAt  time.Time
}

func (MessageModel) TableName() string { return "messages" }

func (m MessageModel) toDomain() domain.Message {
	return domain.Message{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		TrackID:    m.TrackID,
		Content:    m.Content,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt,
	}
}

type PlaylistModel struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description *string
	IsPublic    bool `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PlaylistModel) TableName() string { return "playlists" }

func (m PlaylistModel) toDomain() domain.Playlist {
	return domain.Playlist{
		ID:          m.ID,
		UserID:      m.UserID,
		Title:       m.Title,
		Description: m.Description,
		IsPublic:    m.IsPublic,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

type PlaylistTrackModel struct {
	ID         uint      `gorm:"primaryKey"`
	PlaylistID uint      `gorm:"not null;index:idx_playlist_track,unique"`
	TrackID    uint      `gorm:"not null;index:idx_playlist_track,unique"`
	Position   int       `gorm:"not null"`
	AddedAt    time.Time `gorm:"autoCreateTime"`
}

func (PlaylistTrackModel) TableName() string { return "playlist_tracks" }

func (m PlaylistTrackModel) toDomain() domain.PlaylistTrack {
	return domain.PlaylistTrack{ID: m.ID, PlaylistID: m.PlaylistID, TrackID: m.TrackID, Position: m.Position, AddedAt: m.AddedAt}
}

type NotificationModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	Type      string `gorm:"not null"`
	Title     string `gorm:"not null"`
	Message   string `gorm:"not null"`
	Link      *string
	IsRead    bool `gorm:"not null"`
	CreatedAt time.Time
}

func (NotificationModel) TableName() string { return "notifications" }

func (m NotificationModel) toDomain() domain.Notification {
	return domain.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      m.Type,
		Title:     m.Title,
		Message:   m.Message,
		Link:      m.Link,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}
