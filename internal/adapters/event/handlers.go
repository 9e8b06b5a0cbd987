package event

import (
	"context"
	"net/http"

	"github.com/atvirokodosprendimai/labelhub/internal/application"
	"github.com/atvirokodosprendimai/labelhub/internal/domain"
)

type Services struct {
	Users     *application.UserService
	Tracks    *application.TrackService
	Labels    *application.LabelService
	Social    *application.SocialService
	Analytics *application.AnalyticsService
}

// NewHandlers builds the five handlers in a stable order.
func NewHandlers(s Services) []Handler {
	return []Handler{
		NewUsersHandler(s.Users),
		NewTracksHandler(s.Tracks),
		NewLabelsHandler(s.Labels),
		NewSocialHandler(s.Social),
		NewAnalyticsHandler(s.Analytics),
	}
}

func NewUsersHandler(svc *application.UserService) Handler {
	return &endpoint{
		name:    "users",
		path:    "/users",
		methods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		route: func(ctx context.Context, method string, req request) (any, error) {
			switch method {
			case http.MethodGet:
				id, err := req.optUint("id")
				if err != nil {
					return nil, err
				}
				if id != nil {
					return svc.Profile(ctx, *id)
				}
				if username := req.str("username"); username != "" {
					return svc.ByUsername(ctx, username)
				}
				return svc.List(ctx, req.str("role"))
			case http.MethodPost:
				var in application.CreateUserInput
				if err := req.decode(&in); err != nil {
					return nil, err
				}
				return svc.Create(ctx, in)
			default:
				patch, err := req.patch()
				if err != nil {
					return nil, err
				}
				return svc.Update(ctx, patch)
			}
		},
	}
}

func NewTracksHandler(svc *application.TrackService) Handler {
	return &endpoint{
		name:    "tracks",
		path:    "/api",
		methods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		route: func(ctx context.Context, method string, req request) (any, error) {
			switch method {
			case http.MethodGet:
				id, err := req.optUint("id")
				if err != nil {
					return nil, err
				}
				if id != nil {
					return svc.Get(ctx, *id)
				}
				userID, err := req.optUint("user_id")
				if err != nil {
					return nil, err
				}
				return svc.List(ctx, application.TrackQuery{
					UserID: userID,
					Status: req.str("status"),
					Genre:  req.str("genre"),
					Search: req.str("search"),
					SortBy: req.str("sort_by"),
					Order:  req.str("order"),
				})
			case http.MethodPost:
				var in application.CreateTrackInput
				if err := req.decode(&in); err != nil {
					return nil, err
				}
				return svc.Create(ctx, in)
			case http.MethodPut:
				patch, err := req.patch()
				if err != nil {
					return nil, err
				}
				return svc.Update(ctx, patch)
			default:
				id, err := req.requiredUint("id")
				if err != nil {
					return nil, err
				}
				return svc.Reject(ctx, id)
			}
		},
	}
}

func NewLabelsHandler(svc *application.LabelService) Handler {
	return &endpoint{
		name:    "labels",
		path:    "/labels",
		methods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		route: func(ctx context.Context, method string, req request) (any, error) {
			resource, ok := domain.ParseLabelResource(req.str("resource"))
			if !ok {
				return nil, ErrUnknownResource
			}
			switch method {
			case http.MethodGet:
				return getLabels(ctx, svc, resource, req)
			case http.MethodPost:
				return postLabels(ctx, svc, resource, req)
			default:
				return putLabels(ctx, svc, resource, req)
			}
		},
	}
}

func getLabels(ctx context.Context, svc *application.LabelService, resource domain.LabelResource, req request) (any, error) {
	switch resource {
	case domain.LabelResourceLabels:
		labelID, err := req.optUint("label_id")
		if err != nil {
			return nil, err
		}
		if labelID != nil {
			return svc.Detail(ctx, *labelID)
		}
		userID, err := req.optUint("user_id")
		if err != nil {
			return nil, err
		}
		return svc.List(ctx, userID)
	case domain.LabelResourceReleases:
		userID, err := req.optUint("user_id")
		if err != nil {
			return nil, err
		}
		start, err := req.date("start_date")
		if err != nil {
			return nil, err
		}
		end, err := req.date("end_date")
		if err != nil {
			return nil, err
		}
		return svc.Releases(ctx, domain.ReleaseFilter{UserID: userID, StartDate: start, EndDate: end})
	default:
		return nil, ErrUnknownResource
	}
}

func postLabels(ctx context.Context, svc *application.LabelService, resource domain.LabelResource, req request) (any, error) {
	switch resource {
	case domain.LabelResourceLabels:
		var in application.CreateLabelInput
		if err := req.decode(&in); err != nil {
			return nil, err
		}
		return svc.Create(ctx, in)
	case domain.LabelResourceArtists:
		var in application.LabelArtistInput
		if err := req.decode(&in); err != nil {
			return nil, err
		}
		return svc.AddArtist(ctx, in)
	case domain.LabelResourceReleases:
		var in application.CreateReleaseInput
		if err := req.decode(&in); err != nil {
			return nil, err
		}
		return svc.CreateRelease(ctx, in)
	default:
		return nil, ErrUnknownResource
	}
}

func putLabels(ctx context.Context, svc *application.LabelService, resource domain.LabelResource, req request) (any, error) {
	switch resource {
	case domain.LabelResourceLabels:
		patch, err := req.patch()
		if err != nil {
			return nil, err
		}
		return svc.Update(ctx, patch)
	case domain.LabelResourceReleases:
		patch, err := req.patch()
		if err != nil {
			return nil, err
		}
		return svc.UpdateRelease(ctx, patch)
	default:
		return nil, ErrUnknownResource
	}
}

func NewSocialHandler(svc *application.SocialService) Handler {
	return &endpoint{
		name:    "social",
		path:    "/social",
		methods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		route: func(ctx context.Context, method string, req request) (any, error) {
			resource, ok := domain.ParseSocialResource(req.str("resource"))
			if !ok {
				return nil, ErrUnknownResource
			}
			switch method {
			case http.MethodGet:
				return getSocial(ctx, svc, resource, req)
			case http.MethodPost:
				return postSocial(ctx, svc, resource, req)
			default:
				return putSocial(ctx, svc, resource, req)
			}
		},
	}
}

func getSocial(ctx context.Context, svc *application.SocialService, resource domain.SocialResource, req request) (any, error) {
	switch resource {
	case domain.SocialResourceComments:
		trackID, err := req.requiredUint("track_id")
		if err != nil {
			return nil, err
		}
		return svc.Comments(ctx, trackID)
	case domain.SocialResourceMessages:
		userID, err := req.requiredUint("user_id")
		if err != nil {
			return nil, err
		}
		return svc.Messages(ctx, userID)
	case domain.SocialResourcePlaylists:
		playlistID, err := req.optUint("playlist_id")
		if err != nil {
			return nil, err
		}
		if playlistID != nil {
			return svc.Playlist(ctx, *playlistID)
		}
		userID, err := req.requiredUint("user_id")
		if err != nil {
			return nil, err
		}
		return svc.Playlists(ctx, userID)
	case domain.SocialResourceNotifications:
		userID, err := req.requiredUint("user_id")
		if err != nil {
			return nil, err
		}
		return svc.Notifications(ctx, userID)
	default:
		return nil, ErrUnknownResource
	}
}

func postSocial(ctx context.Context, svc *application.SocialService, resource domain.SocialResource, req request) (any, error) {
	switch resource {
	case domain.SocialResourceComments:
		var in application.CreateCommentInput
		if err := req.decode(&in); err != nil {
			return nil, err
		}
		return svc.Comment(ctx, in)
	case domain.SocialResourceMessages:
		var in application.CreateMessageInput
		if err := req.decode(&in); err != nil {
			return nil, err
		}
		return svc.SendMessage(ctx, in)
	case domain.SocialResourcePlaylists:
		var in application.CreatePlaylistInput
		if err := req.decode(&in); err != nil {
			return nil, err
		}
		return svc.CreatePlaylist(ctx, in)
	case domain.SocialResourcePlaylistTracks:
		var in application.PlaylistTrackInput
		if err := req.decode(&in); err != nil {
			return nil, err
		}
		return svc.AddPlaylistTrack(ctx, in)
	case domain.SocialResourceNotifications:
		var in application.CreateNotificationInput
		if err := req.decode(&in); err != nil {
			return nil, err
		}
		return svc.Notify(ctx, in)
	default:
		return nil, ErrUnknownResource
	}
}

func putSocial(ctx context.Context, svc *application.SocialService, resource domain.SocialResource, req request) (any, error) {
	switch resource {
	case domain.SocialResourceMessages:
		patch, err := req.patch()
		if err != nil {
			return nil, err
		}
		return svc.MarkMessageRead(ctx, patch)
	case domain.SocialResourceNotifications:
		patch, err := req.patch()
		if err != nil {
			return nil, err
		}
		return svc.MarkNotificationRead(ctx, patch)
	default:
		return nil, ErrUnknownResource
	}
}

func NewAnalyticsHandler(svc *application.AnalyticsService) Handler {
	return &endpoint{
		name:    "analytics",
		path:    "/analytics",
		methods: []string{http.MethodGet},
		route: func(ctx context.Context, _ string, req request) (any, error) {
			var scope domain.AnalyticsScope
			var err error
			if scope.TrackID, err = req.optUint("track_id"); err != nil {
				return nil, err
			}
			if scope.TrackID == nil {
				if scope.UserID, err = req.optUint("user_id"); err != nil {
					return nil, err
				}
			}
			if scope.StartDate, err = req.date("start_date"); err != nil {
				return nil, err
			}
			if scope.EndDate, err = req.date("end_date"); err != nil {
				return nil, err
			}
			return svc.Report(ctx, scope)
		},
	}
}
