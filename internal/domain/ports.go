package domain

import "context"

type UserRepository interface {
	GetUserProfile(ctx context.Context, id uint) (UserProfile, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]UserListItem, error)
	CreateUser(ctx context.Context, value User) (User, error)
	UpdateUser(ctx context.Context, id uint, changes Changes) (User, error)
}

type TrackRepository interface {
	GetTrack(ctx context.Context, id uint) (Track, error)
	ListTracks(ctx context.Context, filter TrackFilter) ([]TrackListItem, error)
	CreateTrack(ctx context.Context, value Track) (Track, error)
	UpdateTrack(ctx context.Context, id uint, changes Changes) (Track, error)
	SetTrackStatus(ctx context.Context, id uint, status string) (Track, error)
}

type LabelRepository interface {
	GetLabelDetail(ctx context.Context, id uint) (LabelDetail, error)
	ListLabels(ctx context.Context) ([]LabelSummary, error)
	ListLabelsForUser(ctx context.Context, userID uint) ([]LabelSummary, error)
	CreateLabel(ctx context.Context, value Label) (Label, error)
	UpdateLabel(ctx context.Context, id uint, changes Changes) (Label, error)
	UpsertLabelArtist(ctx context.Context, value LabelArtist) (LabelArtist, error)
	ListReleases(ctx context.Context, filter ReleaseFilter) ([]ReleaseListItem, error)
	CreateRelease(ctx context.Context, value Release) (Release, error)
	UpdateRelease(ctx context.Context, id uint, changes Changes) (Release, error)
}

type SocialRepository interface {
	ListComments(ctx context.Context, trackID uint) ([]CommentView, error)
	CreateComment(ctx context.Context, value Comment) (Comment, error)
	ListMessages(ctx context.Context, userID uint, limit int) ([]MessageView, error)
	CreateMessage(ctx context.Context, value Message) (Message, error)
	MarkMessageRead(ctx context.Context, id uint) (Message, error)
	GetPlaylistDetail(ctx context.Context, id uint) (PlaylistDetail, error)
	ListPlaylists(ctx context.Context, userID uint) ([]PlaylistSummary, error)
	CreatePlaylist(ctx context.Context, value Playlist) (Playlist, error)
	UpsertPlaylistTrack(ctx context.Context, value PlaylistTrack) (PlaylistTrack, error)
	ListNotifications(ctx context.Context, userID uint, limit int) ([]Notification, error)
	CreateNotification(ctx context.Context, value Notification) (Notification, error)
	MarkNotificationRead(ctx context.Context, id uint) (Notification, error)
}

type AnalyticsRepository interface {
	DailySeries(ctx context.Context, scope AnalyticsScope, limit int) ([]DailyPoint, error)
	CountryBreakdown(ctx context.Context, scope AnalyticsScope, limit int) ([]CountryPoint, error)
	PlatformBreakdown(ctx context.Context, scope AnalyticsScope) ([]PlatformPoint, error)
	TopTracks(ctx context.Context, scope AnalyticsScope, limit int) ([]TopTrack, error)
	Totals(ctx context.Context, scope AnalyticsScope) (Totals, error)
	RecordAnalytics(ctx context.Context, value AnalyticsRow) (AnalyticsRow, error)
}
