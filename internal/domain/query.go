package domain

import "strings"

type TrackSortField string

const (
	SortByUploadDate TrackSortField = "upload_date"
	SortByCreatedAt  TrackSortField = "created_at"
	SortByUpdatedAt  TrackSortField = "updated_at"
	SortByTitle      TrackSortField = "title"
	SortByArtist     TrackSortField = "artist"
	SortByGenre      TrackSortField = "genre"
	SortByBPM        TrackSortField = "bpm"
	SortByDuration   TrackSortField = "duration"
	SortByStreams    TrackSortField = "streams"
	SortByRevenue    TrackSortField = "revenue"
	SortByStatus     TrackSortField = "status"
)

var trackSortFields = map[TrackSortField]struct{}{
	SortByUploadDate: {},
	SortByCreatedAt:  {},
	SortByUpdatedAt:  {},
	SortByTitle:      {},
	SortByArtist:     {},
	SortByGenre:      {},
	SortByBPM:        {},
	SortByDuration:   {},
	SortByStreams:    {},
	SortByRevenue:    {},
	SortByStatus:     {},
}

// ParseTrackSortField accepts only known column names; empty means upload_date.
func ParseTrackSortField(raw string) (TrackSortField, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return SortByUploadDate, true
	}
	field := TrackSortField(raw)
	_, ok := trackSortFields[field]
	return field, ok
}

type SortOrder string

const (
	OrderAsc  SortOrder = "ASC"
	OrderDesc SortOrder = "DESC"
)

func ParseSortOrder(raw string) (SortOrder, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "":
		return OrderDesc, true
	case "ASC":
		return OrderAsc, true
	case "DESC":
		return OrderDesc, true
	default:
		return "", false
	}
}

// TrackFilter slots are applied conjunctively; nil or empty slots are skipped.
type TrackFilter struct {
	UserID *uint
	Status string
	Genre  string
	Search string
	SortBy TrackSortField
	Order  SortOrder
}

type UserFilter struct {
	Role string
}

type ReleaseFilter struct {
	UserID    *uint
	StartDate *Date
	EndDate   *Date
}

// AnalyticsScope selects the rows an aggregation runs over. TrackID wins over UserID.
type AnalyticsScope struct {
	TrackID   *uint
	UserID    *uint
	StartDate *Date
	EndDate   *Date
}

// Changes maps column names to new values for a partial update.
type Changes map[string]any
