package application

import (
	"context"
	"errors"
	"testing"

	"github.com/atvirokodosprendimai/labelhub/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type fakeTrackRepo struct {
	domain.TrackRepository
	updates []domain.Changes
	created domain.Track
	filter  domain.TrackFilter
}

func (f *fakeTrackRepo) UpdateTrack(_ context.Context, id uint, changes domain.Changes) (domain.Track, error) {
	f.updates = append(f.updates, changes)
	return domain.Track{ID: id}, nil
}

func (f *fakeTrackRepo) CreateTrack(_ context.Context, value domain.Track) (domain.Track, error) {
	f.created = value
	return value, nil
}

func (f *fakeTrackRepo) ListTracks(_ context.Context, filter domain.TrackFilter) ([]domain.TrackListItem, error) {
	f.filter = filter
	return []domain.TrackListItem{}, nil
}

func TestTrackUpdateOnlyRecognizedFields(t *testing.T) {
	repo := &fakeTrackRepo{}
	svc := NewTrackService(repo)

	patch, err := DecodePatch([]byte(`{"id": 7, "title": "New", "revenue": "12.50", "genre": null, "owner": "nope", "upload_date": "2020-01-01"}`))
	if err != nil {
		t.Fatalf("decode patch: %v", err)
	}
	if _, err := svc.Update(context.Background(), patch); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(repo.updates) != 1 {
		t.Fatalf("expected one write, got %d", len(repo.updates))
	}
	changes := repo.updates[0]
	if len(changes) != 3 {
		t.Fatalf("expected 3 changed columns, got %v", changes)
	}
	if changes["title"] != "New" {
		t.Fatalf("unexpected title: %v", changes["title"])
	}
	if rev, ok := changes["revenue"].(decimal.Decimal); !ok || !rev.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected revenue: %v", changes["revenue"])
	}
	if genre, ok := changes["genre"].(*string); !ok || genre != nil {
		t.Fatalf("expected genre cleared, got %v", changes["genre"])
	}
}

func TestTrackUpdateWithoutFieldsSkipsWrite(t *testing.T) {
	repo := &fakeTrackRepo{}
	svc := NewTrackService(repo)

	patch, _ := DecodePatch([]byte(`{"id": 7, "unknown": 1}`))
	_, err := svc.Update(context.Background(), patch)
	if !errors.Is(err, ErrNoFields) {
		t.Fatalf("expected ErrNoFields, got %v", err)
	}
	if len(repo.updates) != 0 {
		t.Fatalf("expected no write, got %d", len(repo.updates))
	}
}

func TestPatchValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "missing id", body: `{"title": "x"}`, want: "id is required"},
		{name: "bad id", body: `{"id": "abc", "title": "x"}`, want: "id must be a positive integer"},
		{name: "bad bpm", body: `{"id": 1, "bpm": "fast"}`, want: "bpm must be an integer"},
		{name: "empty title", body: `{"id": 1, "title": ""}`, want: "title must be a non-empty string"},
		{name: "negative streams", body: `{"id": 1, "streams": -4}`, want: "streams must be a non-negative integer"},
	}

	svc := NewTrackService(&fakeTrackRepo{})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			patch, err := DecodePatch([]byte(tc.body))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			_, err = svc.Update(context.Background(), patch)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Message != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, verr.Message)
			}
		})
	}
}

func TestDecodePatchRejectsMalformedJSON(t *testing.T) {
	if _, err := DecodePatch([]byte(`{"id":`)); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	p, err := DecodePatch(nil)
	if err != nil || len(p) != 0 {
		t.Fatalf("expected empty patch, got %v %v", p, err)
	}
}

func TestReleasePatchDecodesDateAndPlatforms(t *testing.T) {
	patch, _ := DecodePatch([]byte(`{"id": 3, "release_date": "2024-09-01", "platforms": ["spotify", "apple"]}`))
	changes, err := patch.changes(releasePatchFields)
	if err != nil {
		t.Fatalf("changes: %v", err)
	}
	if d, ok := changes["release_date"].(domain.Date); !ok || d.String() != "2024-09-01" {
		t.Fatalf("unexpected release_date: %v", changes["release_date"])
	}
	if got := string(changes["platforms"].(datatypes.JSON)); got != `["spotify", "apple"]` {
		t.Fatalf("unexpected platforms: %s", got)
	}

	bad, _ := DecodePatch([]byte(`{"id": 3, "platforms": {"a": 1}}`))
	if _, err := bad.changes(releasePatchFields); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error for object platforms, got %v", err)
	}
}

func TestCreateTrackDefaults(t *testing.T) {
	repo := &fakeTrackRepo{}
	svc := NewTrackService(repo)
	title, artist := "Song", "Band"

	if _, err := svc.Create(context.Background(), CreateTrackInput{Title: &title, Artist: &artist}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if repo.created.Status != TrackStatusPending {
		t.Fatalf("expected pending status, got %q", repo.created.Status)
	}
	if string(repo.created.Metadata) != "{}" {
		t.Fatalf("expected empty metadata object, got %s", repo.created.Metadata)
	}

	_, err := svc.Create(context.Background(), CreateTrackInput{Title: &title})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Message != "artist is required" {
		t.Fatalf("expected artist is required, got %v", err)
	}
}

func TestTrackListRejectsUnknownSort(t *testing.T) {
	repo := &fakeTrackRepo{}
	svc := NewTrackService(repo)

	if _, err := svc.List(context.Background(), TrackQuery{SortBy: "id; DROP TABLE tracks"}); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.List(context.Background(), TrackQuery{Order: "sideways"}); domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error for order, got %v", err)
	}
	if _, err := svc.List(context.Background(), TrackQuery{SortBy: "Title", Order: "asc"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if repo.filter.SortBy != domain.SortByTitle || repo.filter.Order != domain.OrderAsc {
		t.Fatalf("unexpected filter: %+v", repo.filter)
	}
}

type fakeAnalyticsRepo struct {
	domain.AnalyticsRepository
	scopes []domain.AnalyticsScope
}

func (f *fakeAnalyticsRepo) DailySeries(_ context.Context, scope domain.AnalyticsScope, _ int) ([]domain.DailyPoint, error) {
	f.scopes = append(f.scopes, scope)
	return []domain.DailyPoint{}, nil
}

func (f *fakeAnalyticsRepo) CountryBreakdown(context.Context, domain.AnalyticsScope, int) ([]domain.CountryPoint, error) {
	return []domain.CountryPoint{}, nil
}

func (f *fakeAnalyticsRepo) PlatformBreakdown(context.Context, domain.AnalyticsScope) ([]domain.PlatformPoint, error) {
	return []domain.PlatformPoint{}, nil
}

func (f *fakeAnalyticsRepo) TopTracks(context.Context, domain.AnalyticsScope, int) ([]domain.TopTrack, error) {
	return []domain.TopTrack{}, nil
}

func (f *fakeAnalyticsRepo) Totals(context.Context, domain.AnalyticsScope) (domain.Totals, error) {
	return domain.Totals{}, nil
}

func TestAnalyticsReportPrecedence(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	svc := NewAnalyticsService(repo)
	trackID, userID := uint(5), uint(9)

	report, err := svc.Report(context.Background(), domain.AnalyticsScope{TrackID: &trackID, UserID: &userID})
	if err != nil {
		t.Fatalf("track report: %v", err)
	}
	if _, ok := report.(domain.TrackReport); !ok {
		t.Fatalf("expected track report, got %T", report)
	}
	if repo.scopes[0].UserID != nil {
		t.Fatalf("user_id should be dropped when track_id is set")
	}

	report, _ = svc.Report(context.Background(), domain.AnalyticsScope{UserID: &userID})
	if _, ok := report.(domain.UserReport); !ok {
		t.Fatalf("expected user report, got %T", report)
	}

	report, _ = svc.Report(context.Background(), domain.AnalyticsScope{})
	if _, ok := report.(domain.GlobalReport); !ok {
		t.Fatalf("expected global report, got %T", report)
	}
}
