package application

import (
	"context"
	"strings"

	"github.com/atvirokodosprendimai/labelhub/internal/domain"
)

// Inbox-style lists are capped at this many rows, newest first.
const socialListLimit = 50

type CreateCommentInput struct {
	TrackID  *uint   `json:"track_id" validate:"required"`
	UserID   *uint   `json:"user_id" validate:"required"`
	Content  *string `json:"content" validate:"required"`
	ParentID *uint   `json:"parent_id"`
}

type CreateMessageInput struct {
	SenderID   *uint   `json:"sender_id" validate:"required"`
	ReceiverID *uint   `json:"receiver_id" validate:"required"`
	Content    *string `json:"content" validate:"required"`
	TrackID    *uint   `json:"track_id"`
}

type CreatePlaylistInput struct {
	UserID      *uint   `json:"user_id" validate:"required"`
	Title       *string `json:"title" validate:"required"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

type PlaylistTrackInput struct {
	PlaylistID *uint `json:"playlist_id" validate:"required"`
	TrackID    *uint `json:"track_id" validate:"required"`
	Position   *int  `json:"position" validate:"required"`
}

type CreateNotificationInput struct {
	UserID  *uint   `json:"user_id" validate:"required"`
	Type    *string `json:"type" validate:"required"`
	Title   *string `json:"title" validate:"required"`
	Message *string `json:"message" validate:"required"`
	Link    *string `json:"link"`
}

type SocialService struct {
	repo domain.SocialRepository
}

func NewSocialService(repo domain.SocialRepository) *SocialService {
	return &SocialService{repo: repo}
}

func (s *SocialService) Comments(ctx context.Context, trackID uint) ([]domain.CommentView, error) {
	return s.repo.ListComments(ctx, trackID)
}

func (s *SocialService) Comment(ctx context.Context, in CreateCommentInput) (domain.Comment, error) {
	if err := validateInput(in); err != nil {
		return domain.Comment{}, err
	}
	if strings.TrimSpace(*in.Content) == "" {
		return domain.Comment{}, domain.Invalid("content is required")
	}
	return s.repo.CreateComment(ctx, domain.Comment{
		TrackID:  *in.TrackID,
		UserID:   *in.UserID,
		Content:  *in.Content,
		ParentID: in.ParentID,
	})
}

func (s *SocialService) Messages(ctx context.Context, userID uint) ([]domain.MessageView, error) {
	return s.repo.ListMessages(ctx, userID, socialListLimit)
}

func (s *SocialService) SendMessage(ctx context.Context, in CreateMessageInput) (domain.Message, error) {
	if err := validateInput(in); err != nil {
		return domain.Message{}, err
	}
	if strings.TrimSpace(*in.Content) == "" {
		return domain.Message{}, domain.Invalid("content is required")
	}
	return s.repo.CreateMessage(ctx, domain.Message{
		SenderID:   *in.SenderID,
		ReceiverID: *in.ReceiverID,
		TrackID:    in.TrackID,
		Content:    *in.Content,
	})
}

func (s *SocialService) MarkMessageRead(ctx context.Context, patch Patch) (domain.Message, error) {
	id, err := patch.ID()
	if err != nil {
		return domain.Message{}, err
	}
	return s.repo.MarkMessageRead(ctx, id)
}

func (s *SocialService) Playlist(ctx context.Context, id uint) (domain.PlaylistDetail, error) {
	return s.repo.GetPlaylistDetail(ctx, id)
}

func (s *SocialService) Playlists(ctx context.Context, userID uint) ([]domain.PlaylistSummary, error) {
	return s.repo.ListPlaylists(ctx, userID)
}

func (s *SocialService) CreatePlaylist(ctx context.Context, in CreatePlaylistInput) (domain.Playlist, error) {
	if err := validateInput(in); err != nil {
		return domain.Playlist{}, err
	}
	if strings.TrimSpace(*in.Title) == "" {
		return domain.Playlist{}, domain.Invalid("title is required")
	}
	isPublic := false
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}
	return s.repo.CreatePlaylist(ctx, domain.Playlist{
		UserID:      *in.UserID,
		Title:       *in.Title,
		Description: in.Description,
		IsPublic:    isPublic,
	})
}

func (s *SocialService) AddPlaylistTrack(ctx context.Context, in PlaylistTrackInput) (domain.PlaylistTrack, error) {
	if err := validateInput(in); err != nil {
		return domain.PlaylistTrack{}, err
	}
	return s.repo.UpsertPlaylistTrack(ctx, domain.PlaylistTrack{
		PlaylistID: *in.PlaylistID,
		TrackID:    *in.TrackID,
		Position:   *in.Position,
	})
}

func (s *SocialService) Notifications(ctx context.Context, userID uint) ([]domain.Notification, error) {
	return s.repo.ListNotifications(ctx, userID, socialListLimit)
}

func (s *SocialService) Notify(ctx context.Context, in CreateNotificationInput) (domain.Notification, error) {
	if err := validateInput(in); err != nil {
		return domain.Notification{}, err
	}
	return s.repo.CreateNotification(ctx, domain.Notification{
		UserID:  *in.UserID,
		Type:    *in.Type,
		Title:   *in.Title,
		Message: *in.Message,
		Link:    in.Link,
	})
}

func (s *SocialService) MarkNotificationRead(ctx context.Context, patch Patch) (domain.Notification, error) {
	id, err := patch.ID()
	if err != nil {
		return domain.Notification{}, err
	}
	return s.repo.MarkNotificationRead(ctx, id)
}
