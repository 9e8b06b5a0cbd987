package application

import (
	"context"
	"strings"

	"github.com/atvirokodosprendimai/labelhub/internal/domain"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	TrackStatusPending  = "pending"
	TrackStatusRejected = "rejected"
)

type CreateTrackInput struct {
	UserID   *uint           `json:"user_id"`
	Title    *string         `json:"title" validate:"required"`
	Artist   *string         `json:"artist" validate:"required"`
	Genre    *string         `json:"genre"`
	BPM      *int            `json:"bpm"`
	Key      *string         `json:"key"`
	Mood     *string         `json:"mood"`
	AudioURL *string         `json:"audio_url"`
	CoverURL *string         `json:"cover_url"`
	Duration *int            `json:"duration"`
	Status   *string         `json:"status"`
	Metadata json.RawMessage `json:"metadata"`
}

// TrackQuery carries list parameters as received; sort values are checked against the allow-list.
type TrackQuery struct {
	UserID *uint
	Status string
	Genre  string
	Search string
	SortBy string
	Order  string
}

type TrackService struct {
	repo domain.TrackRepository
}

func NewTrackService(repo domain.TrackRepository) *TrackService {
	return &TrackService{repo: repo}
}

func (s *TrackService) Get(ctx context.Context, id uint) (domain.Track, error) {
	return s.repo.GetTrack(ctx, id)
}

func (s *TrackService) List(ctx context.Context, q TrackQuery) ([]domain.TrackListItem, error) {
	sortBy, ok := domain.ParseTrackSortField(q.SortBy)
	if !ok {
		return nil, domain.Invalid("invalid sort_by %q", q.SortBy)
	}
	order, ok := domain.ParseSortOrder(q.Order)
	if !ok {
		return nil, domain.Invalid("order must be ASC or DESC")
	}

	return s.repo.ListTracks(ctx, domain.TrackFilter{
		UserID: q.UserID,
		Status: q.Status,
		Genre:  q.Genre,
		Search: q.Search,
		SortBy: sortBy,
		Order:  order,
	})
}

func (s *TrackService) Create(ctx context.Context, in CreateTrackInput) (domain.Track, error) {
	if err := validateInput(in); err != nil {
		return domain.Track{}, err
	}
	if strings.TrimSpace(*in.Title) == "" || strings.TrimSpace(*in.Artist) == "" {
		return domain.Track{}, domain.Invalid("title and artist are required")
	}

	metadata := datatypes.JSON("{}")
	if !isNull(in.Metadata) {
		var obj map[string]any
		if err := json.Unmarshal(in.Metadata, &obj); err != nil {
			return domain.Track{}, domain.Invalid("metadata must be a JSON object")
		}
		metadata = datatypes.JSON(in.Metadata)
	}

	return s.repo.CreateTrack(ctx, domain.Track{
		UserID:   in.UserID,
		Title:    *in.Title,
		Artist:   *in.Artist,
		Genre:    in.Genre,
		BPM:      in.BPM,
		Key:      in.Key,
		Mood:     in.Mood,
		AudioURL: in.AudioURL,
		CoverURL: in.CoverURL,
		Duration: in.Duration,
		Status:   defaultString(in.Status, TrackStatusPending),
		Revenue:  decimal.Zero,
		Metadata: metadata,
	})
}

func (s *TrackService) Update(ctx context.Context, patch Patch) (domain.Track, error) {
	id, changes, err := patch.target(trackPatchFields)
	if err != nil {
		return domain.Track{}, err
	}
	return s.repo.UpdateTrack(ctx, id, changes)
}

// Reject is the soft delete: the row stays, its status becomes rejected.
func (s *TrackService) Reject(ctx context.Context, id uint) (domain.Track, error) {
	return s.repo.SetTrackStatus(ctx, id, TrackStatusRejected)
}
