package application

import (
	"context"
	"strings"

	"github.com/atvirokodosprendimai/labelhub/internal/domain"
	"github.com/goccy/go-json"
)

const (
	defaultMemberRole    = "artist"
	defaultReleaseStatus = "scheduled"
)

type CreateLabelInput struct {
	OwnerID     *uint   `json:"owner_id" validate:"required"`
	Name        *string `json:"name" validate:"required"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url"`
	Website     *string `json:"website"`
}

type LabelArtistInput struct {
	LabelID *uint   `json:"label_id" validate:"required"`
	UserID  *uint   `json:"user_id" validate:"required"`
	Role    *string `json:"role"`
}

type CreateReleaseInput struct {
	TrackID         *uint           `json:"track_id" validate:"required"`
	UserID          *uint           `json:"user_id" validate:"required"`
	ReleaseDate     *string         `json:"release_date" validate:"required"`
	Platforms       json.RawMessage `json:"platforms"`
	PromotionalPlan *string         `json:"promotional_plan"`
	Status          *string         `json:"status"`
}

type LabelService struct {
	repo domain.LabelRepository
}

func NewLabelService(repo domain.LabelRepository) *LabelService {
	return &LabelService{repo: repo}
}

func (s *LabelService) Detail(ctx context.Context, id uint) (domain.LabelDetail, error) {
	return s.repo.GetLabelDetail(ctx, id)
}

// List returns every label, or only those the user owns or belongs to when userID is set.
func (s *LabelService) List(ctx context.Context, userID *uint) ([]domain.LabelSummary, error) {
	if userID != nil {
		return s.repo.ListLabelsForUser(ctx, *userID)
	}
	return s.repo.ListLabels(ctx)
}

func (s *LabelService) Create(ctx context.Context, in CreateLabelInput) (domain.Label, error) {
	if err := validateInput(in); err != nil {
		return domain.Label{}, err
	}
	if strings.TrimSpace(*in.Name) == "" {
		return domain.Label{}, domain.Invalid("name is required")
	}

	return s.repo.CreateLabel(ctx, domain.Label{
		OwnerID:     *in.OwnerID,
		Name:        *in.Name,
		Description: in.Description,
		LogoURL:     in.LogoURL,
		Website:     in.Website,
	})
}

func (s *LabelService) AddArtist(ctx context.Context, in LabelArtistInput) (domain.LabelArtist, error) {
	if err := validateInput(in); err != nil {
		return domain.LabelArtist{}, err
	}

	return s.repo.UpsertLabelArtist(ctx, domain.LabelArtist{
		LabelID: *in.LabelID,
		UserID:  *in.UserID,
		Role:    defaultString(in.Role, defaultMemberRole),
	})
}

func (s *LabelService) Update(ctx context.Context, patch Patch) (domain.Label, error) {
	id, changes, err := patch.target(labelPatchFields)
	if err != nil {
		return domain.Label{}, err
	}
	return s.repo.UpdateLabel(ctx, id, changes)
}

func (s *LabelService) Releases(ctx context.Context, filter domain.ReleaseFilter) ([]domain.ReleaseListItem, error) {
	return s.repo.ListReleases(ctx, filter)
}

func (s *LabelService) CreateRelease(ctx context.Context, in CreateReleaseInput) (domain.Release, error) {
	if err := validateInput(in); err != nil {
		return domain.Release{}, err
	}
	day, err := domain.ParseDate(*in.ReleaseDate)
	if err != nil {
		return domain.Release{}, domain.Invalid("release_date must be a YYYY-MM-DD date")
	}
	platforms, err := jsonArray("platforms", in.Platforms)
	if err != nil {
		return domain.Release{}, err
	}

	return s.repo.CreateRelease(ctx, domain.Release{
		TrackID:         *in.TrackID,
		UserID:          *in.UserID,
		ReleaseDate:     day,
		Platforms:       platforms,
		PromotionalPlan: in.PromotionalPlan,
		Status:          defaultString(in.Status, defaultReleaseStatus),
	})
}

func (s *LabelService) UpdateRelease(ctx context.Context, patch Patch) (domain.Release, error) {
	id, changes, err := patch.target(releasePatchFields)
	if err != nil {
		return domain.Release{}, err
	}
	return s.repo.UpdateRelease(ctx, id, changes)
}
