package domain

import "strings"

// LabelResource selects the sub-entity the labels handler works on.
type LabelResource int

const (
	LabelResourceLabels LabelResource = iota
	LabelResourceArtists
	LabelResourceReleases
)

// ParseLabelResource maps the resource parameter; empty means labels.
func ParseLabelResource(raw string) (LabelResource, bool) {
	switch strings.TrimSpace(raw) {
	case "", "labels":
		return LabelResourceLabels, true
	case "label_artists":
		return LabelResourceArtists, true
	case "releases":
		return LabelResourceReleases, true
	default:
		return 0, false
	}
}

// SocialResource selects the sub-entity the social handler works on.
type SocialResource int

const (
	SocialResourceComments SocialResource = iota
	SocialResourceMessages
	SocialResourcePlaylists
	SocialResourcePlaylistTracks
	SocialResourceNotifications
)

// ParseSocialResource maps the resource parameter; empty means comments.
func ParseSocialResource(raw string) (SocialResource, bool) {
	switch strings.TrimSpace(raw) {
	case "", "comments":
		return SocialResourceComments, true
	case "messages":
		return SocialResourceMessages, true
	case "playlists":
		return SocialResourcePlaylists, true
	case "playlist_tracks":
		return SocialResourcePlaylistTracks, true
	case "notifications":
		return SocialResourceNotifications, true
	default:
		return 0, false
	}
}
