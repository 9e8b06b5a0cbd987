package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type User struct {
	ID                    uint      `json:"id"`
	Email                 string    `json:"email"`
	Username              string    `json:"username"`
	FullName              *string   `json:"full_name"`
	Role                  string    `json:"role"`
	Bio                   *string   `json:"bio"`
	AvatarURL             *string   `json:"avatar_url"`
	PaypalEmail           *string   `json:"paypal_email"`
	BankAccount           *string   `json:"bank_account"`
	TelegramID            *string   `json:"telegram_id"`
	TelegramNotifications bool      `json:"telegram_notifications"`
	EmailNotifications    bool      `json:"email_notifications"`
	PushNotifications     bool      `json:"push_notifications"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// UserProfile is a user with totals over the tracks they own.
type UserProfile struct {
	User
	TotalTracks  int64               `json:"total_tracks"`
	TotalStreams *int64              `json:"total_streams"`
	TotalRevenue decimal.NullDecimal `json:"total_revenue"`
}

type UserListItem struct {
	User
	TotalTracks int64 `json:"total_tracks"`
}

type Track struct {
	ID              uint            `json:"id"`
	UserID          *uint           `json:"user_id"`
	Title           string          `json:"title"`
	Artist          string          `json:"artist"`
	Genre           *string         `json:"genre"`
	BPM             *int            `json:"bpm"`
	Key             *string         `json:"key"`
	Mood            *string         `json:"mood"`
	AudioURL        *string         `json:"audio_url"`
	CoverURL        *string         `json:"cover_url"`
	Duration        *int            `json:"duration"`
	Status          string          `json:"status"`
	RejectionReason *string         `json:"rejection_reason"`
	Streams         int64           `json:"streams"`
	Revenue         decimal.Decimal `json:"revenue"`
	Metadata        datatypes.JSON  `json:"metadata"`
	UploadDate      time.Time       `json:"upload_date"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TrackListItem is a track joined with its owner's display fields.
type TrackListItem struct {
	Track
	Username *string `json:"username"`
	FullName *string `json:"full_name"`
}

type AnalyticsRow struct {
	ID       uint            `json:"id"`
	TrackID  uint            `json:"track_id"`
	Date     Date            `json:"date"`
	Streams  int64           `json:"streams"`
	Revenue  decimal.Decimal `json:"revenue"`
	Country  *string         `json:"country"`
	Platform *string         `json:"platform"`
}

type Label struct {
	ID          uint      `json:"id"`
	OwnerID     uint      `json:"owner_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	LogoURL     *string   `json:"logo_url"`
	Website     *string   `json:"website"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type LabelSummary struct {
	Label
	ArtistCount int64 `json:"artist_count"`
}

type LabelMember struct {
	UserID   uint    `json:"user_id"`
	Username string  `json:"username"`
	FullName *string `json:"full_name"`
	Role     string  `json:"role"`
}

type LabelDetail struct {
	Label
	Artists []LabelMember `json:"artists"`
}

type LabelArtist struct {
	ID       uint      `json:"id"`
	LabelID  uint      `json:"label_id"`
	UserID   uint      `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type Release struct {
	ID              uint           `json:"id"`
	TrackID         uint           `json:"track_id"`
	UserID          uint           `json:"user_id"`
	ReleaseDate     Date           `json:"release_date"`
	Platforms       datatypes.JSON `json:"platforms"`
	PromotionalPlan *string        `json:"promotional_plan"`
	Status          string         `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type ReleaseListItem struct {
	Release
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	CoverURL *string `json:"cover_url"`
	Username string  `json:"username"`
}

type Comment struct {
	ID        uint      `json:"id"`
	TrackID   uint      `json:"track_id"`
	UserID    uint      `json:"user_id"`
	Content   string    `json:"content"`
	ParentID  *uint     `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentView struct {
	Comment
	Username  string  `json:"username"`
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

type Message struct {
	ID         uint      `json:"id"`
	SenderID   uint      `json:"sender_id"`
	ReceiverID uint      `json:"receiver_id"`
	TrackID    *uint     `json:"track_id"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

type MessageView struct {
	Message
	SenderUsername   string  `json:"sender_username"`
	SenderName       *string `json:"sender_name"`
	ReceiverUsername string  `json:"receiver_username"`
	ReceiverName     *string `json:"receiver_name"`
}

type Playlist struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PlaylistSummary struct {
	Playlist
	TrackCount int64 `json:"track_count"`
}

type PlaylistEntry struct {
	TrackID  uint   `json:"track_id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Position int    `json:"position"`
}

type PlaylistDetail struct {
	Playlist
	Tracks []PlaylistEntry `json:"tracks"`
}

type PlaylistTrack struct {
	ID         uint      `json:"id"`
	PlaylistID uint      `json:"playlist_id"`
	TrackID    uint      `json:"track_id"`
	Position   int       `json:"position"`
	AddedAt    time.Time `json:"added_at"`
}

type Notification struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      *string   `json:"link"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type DailyPoint struct {
	Date    Date                `json:"date"`
	Streams *int64              `json:"streams"`
	Revenue decimal.NullDecimal `json:"revenue"`
}

type CountryPoint struct {
	Country *string `json:"country"`
	Streams *int64  `json:"streams"`
}

type PlatformPoint struct {
	Platform *string             `json:"platform"`
	Streams  *int64              `json:"streams"`
	Revenue  decimal.NullDecimal `json:"revenue"`
}

type TopTrack struct {
	ID           uint                `json:"id"`
	Title        string              `json:"title"`
	Artist       string              `json:"artist"`
	TotalStreams *int64              `json:"total_streams"`
	TotalRevenue decimal.NullDecimal `json:"total_revenue"`
}

type Totals struct {
	TotalStreams *int64              `json:"total_streams"`
	TotalRevenue decimal.NullDecimal `json:"total_revenue"`
}

type TrackReport struct {
	Daily     []DailyPoint    `json:"daily"`
	Countries []CountryPoint  `json:"countries"`
	Platforms []PlatformPoint `json:"platforms"`
}

type UserReport struct {
	Daily     []DailyPoint `json:"daily"`
	TopTracks []TopTrack   `json:"top_tracks"`
	Totals    Totals       `json:"totals"`
}

type GlobalReport struct {
	Daily  []DailyPoint `json:"daily"`
	Totals Totals       `json:"totals"`
}
