package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
)

// remoteCall is one handler invocation issued by a client command.
type remoteCall struct {
	handler string
	method  string
	query   map[string]string
	body    map[string]any
	columns []string
	// raw always prints JSON; used for nested payloads.
	raw bool
}

func transportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "transport", Usage: "uds or http (defaults to saved client config)"},
		&cli.StringFlag{Name: "server", Usage: "HTTP server URL"},
		&cli.StringFlag{Name: "socket", Usage: "JSON-RPC unix socket path"},
		&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
	}
}

func clientConfig(c *cli.Command) (cliConfig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cliConfig{}, err
	}
	if c.IsSet("transport") {
		cfg.Transport = c.String("transport")
	}
	if c.IsSet("server") {
		cfg.Server = c.String("server")
	}
	if c.IsSet("socket") {
		cfg.Socket = c.String("socket")
	}
	if cfg.Transport != "uds" && cfg.Transport != "http" {
		return cliConfig{}, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
	return cfg, nil
}

func runRemote(ctx context.Context, c *cli.Command, call remoteCall) error {
	cfg, err := clientConfig(c)
	if err != nil {
		return err
	}
	var body any
	if call.body != nil {
		body = call.body
	}
	ev, err := newEvent(call.method, call.query, body)
	if err != nil {
		return err
	}
	resp, err := invokeRemote(ctx, cfg, call.handler, ev)
	if err != nil {
		return err
	}
	return printResponse(resp, call.columns, call.raw || c.Bool("json"))
}

func optString(c *cli.Command, flag string) string {
	if c.IsSet(flag) {
		return c.String(flag)
	}
	return ""
}

func optUint(c *cli.Command, flag string) string {
	if c.IsSet(flag) {
		return strconv.FormatUint(uint64(c.Uint(flag)), 10)
	}
	return ""
}

// payload collects only the flags the user actually set.
type payload map[string]any

func (p payload) str(c *cli.Command, flag, key string) payload {
	if c.IsSet(flag) {
		p[key] = c.String(flag)
	}
	return p
}

func (p payload) id(c *cli.Command, flag, key string) payload {
	if c.IsSet(flag) {
		p[key] = c.Uint(flag)
	}
	return p
}

func (p payload) num(c *cli.Command, flag, key string) payload {
	if c.IsSet(flag) {
		p[key] = c.Int(flag)
	}
	return p
}

func (p payload) flag(c *cli.Command, flag, key string) payload {
	if c.IsSet(flag) {
		p[key] = c.Bool(flag)
	}
	return p
}

// patchBody builds a PUT body from --id and repeated --set key=value flags.
func patchBody(c *cli.Command) (map[string]any, error) {
	body, err := parseAssignments(c.StringSlice("set"))
	if err != nil {
		return nil, err
	}
	body["id"] = c.Uint("id")
	return body, nil
}

func updateCommand(usage, handler, resource string) *cli.Command {
	return &cli.Command{
		Name:  "update",
		Usage: usage,
		Flags: []cli.Flag{
			&cli.UintFlag{Name: "id", Required: true},
			&cli.StringSliceFlag{Name: "set", Usage: "field=value, repeatable"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			body, err := patchBody(c)
			if err != nil {
				return err
			}
			return runRemote(ctx, c, remoteCall{handler: handler, method: http.MethodPut, query: map[string]string{"resource": resource}, body: body})
		},
	}
}

func clientConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "client-config",
		Usage: "Show or store client transport settings",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "transport", Usage: "uds or http"},
			&cli.StringFlag{Name: "server"},
			&cli.StringFlag{Name: "socket"},
			&cli.StringFlag{Name: "user-id", Usage: "sent as X-User-Id over http"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			changed := false
			for _, f := range []struct {
				flag string
				dst  *string
			}{{"transport", &cfg.Transport}, {"server", &cfg.Server}, {"socket", &cfg.Socket}, {"user-id", &cfg.UserID}} {
				if c.IsSet(f.flag) {
					*f.dst = c.String(f.flag)
					changed = true
				}
			}
			if cfg.Transport != "uds" && cfg.Transport != "http" {
				return fmt.Errorf("unknown transport %q", cfg.Transport)
			}
			if changed {
				if err := saveConfig(cfg); err != nil {
					return err
				}
			}
			printKV([][2]string{{"transport", cfg.Transport}, {"server", cfg.Server}, {"socket", cfg.Socket}, {"user_id", cfg.UserID}})
			return nil
		},
	}
}

func handlersCommand() *cli.Command {
	return &cli.Command{
		Name:  "handlers",
		Usage: "List handlers exposed by the server",
		Flags: transportFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := clientConfig(c)
			if err != nil {
				return err
			}
			list, err := listRemoteHandlers(ctx, cfg)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(list)
			}
			rows := make([][]string, 0, len(list))
			for _, h := range list {
				rows = append(rows, []string{h.Name, h.Path, strings.Join(h.Methods, ",")})
			}
			printTable([]string{"HANDLER", "PATH", "METHODS"}, rows)
			return nil
		},
	}
}

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "User commands",
		Flags: transportFlags(),
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Show a user profile by id or a user by username",
				Flags: []cli.Flag{&cli.UintFlag{Name: "id"}, &cli.StringFlag{Name: "username"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					if !c.IsSet("id") && !c.IsSet("username") {
						return errors.New("--id or --username is required")
					}
					return runRemote(ctx, c, remoteCall{handler: "users", method: http.MethodGet, query: map[string]string{
						"id":       optUint(c, "id"),
						"username": optString(c, "username"),
					}})
				},
			},
			{
				Name:  "list",
				Usage: "List users, newest first",
				Flags: []cli.Flag{&cli.StringFlag{Name: "role"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					return runRemote(ctx, c, remoteCall{
						handler: "users", method: http.MethodGet,
						query:   map[string]string{"role": optString(c, "role")},
						columns: []string{"id", "username", "email", "role", "total_tracks", "created_at"},
					})
				},
			},
			{
				Name:  "create",
				Usage: "Create a user",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "username", Required: true},
					&cli.StringFlag{Name: "full-name"},
					&cli.StringFlag{Name: "role"},
					&cli.StringFlag{Name: "bio"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					body := payload{}.str(c, "email", "email").str(c, "username", "username").
						str(c, "full-name", "full_name").str(c, "role", "role").str(c, "bio", "bio")
					return runRemote(ctx, c, remoteCall{handler: "users", method: http.MethodPost, body: body})
				},
			},
			updateCommand("Update user fields", "users", ""),
		},
	}
}

func tracksCommand() *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "Track commands",
		Flags: transportFlags(),
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Show a track",
				Flags: []cli.Flag{&cli.UintFlag{Name: "id", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					return runRemote(ctx, c, remoteCall{handler: "tracks", method: http.MethodGet, query: map[string]string{"id": optUint(c, "id")}})
				},
			},
			{
				Name:  "list",
				Usage: "List tracks",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "user-id"},
					&cli.StringFlag{Name: "status"},
					&cli.StringFlag{Name: "genre"},
					&cli.StringFlag{Name: "search"},
					&cli.StringFlag{Name: "sort-by", Usage: "created_at, title, artist, streams, revenue, upload_date"},
					&cli.StringFlag{Name: "order", Usage: "ASC or DESC"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return runRemote(ctx, c, remoteCall{
						handler: "tracks", method: http.MethodGet,
						query: map[string]string{
							"user_id": optUint(c, "user-id"),
							"status":  optString(c, "status"),
							"genre":   optString(c, "genre"),
							"search":  optString(c, "search"),
							"sort_by": optString(c, "sort-by"),
							"order":   optString(c, "order"),
						},
						columns: []string{"id", "title", "artist", "genre", "status", "streams", "revenue", "username"},
					})
				},
			},
			{
				Name:  "create",
				Usage: "Upload a track record",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "artist", Required: true},
					&cli.UintFlag{Name: "user-id"},
					&cli.StringFlag{Name: "genre"},
					&cli.IntFlag{Name: "bpm"},
					&cli.StringFlag{Name: "key"},
					&cli.StringFlag{Name: "mood"},
					&cli.StringFlag{Name: "audio-url"},
					&cli.StringFlag{Name: "cover-url"},
					&cli.IntFlag{Name: "duration", Usage: "seconds"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					body := payload{}.str(c, "title", "title").str(c, "artist", "artist").id(c, "user-id", "user_id").
						str(c, "genre", "genre").num(c, "bpm", "bpm").str(c, "key", "key").str(c, "mood", "mood").
						str(c, "audio-url", "audio_url").str(c, "cover-url", "cover_url").num(c, "duration", "duration")
					return runRemote(ctx, c, remoteCall{handler: "tracks", method: http.MethodPost, body: body})
				},
			},
			updateCommand("Update track fields", "tracks", ""),
			{
				Name:  "reject",
				Usage: "Soft delete a track by marking it rejected",
				Flags: []cli.Flag{&cli.UintFlag{Name: "id", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					return runRemote(ctx, c, remoteCall{handler: "tracks", method: http.MethodDelete, query: map[string]string{"id": optUint(c, "id")}})
				},
			},
		},
	}
}

func labelsCommand() *cli.Command {
	return &cli.Command{
		Name:  "labels",
		Usage: "Label, roster and release commands",
		Flags: transportFlags(),
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List labels, optionally those a user owns or belongs to",
				Flags: []cli.Flag{&cli.UintFlag{Name: "user-id"}},
				Action: func(ctx context.Context, c *cli.Command) error {
					return runRemote(ctx, c, remoteCall{
						handler: "labels", method: http.MethodGet,
						query:   map[string]string{"user_id": optUint(c, "user-id")},
						columns: []string{"id", "name", "owner_id", "artist_count", "website"},
					})
				},
			},
			{
				Name:  "get",
				Usage: "Show a label with its artists",
				Flags: []cli.Flag{&cli.UintFlag{Name: "label-id", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					return runRemote(ctx, c, remoteCall{handler: "labels", method: http.MethodGet, query: map[string]string{"label_id": optUint(c, "label-id")}})
				},
			},
			{
				Name:  "create",
				Usage: "Create a label",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "owner-id", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "description"},
					&cli.StringFlag{Name: "logo-url"},
					&cli.StringFlag{Name: "website"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					body := payload{}.id(c, "owner-id", "owner_id").str(c, "name", "name").str(c, "description", "description").
						str(c, "logo-url", "logo_url").str(c, "website", "website")
					return runRemote(ctx, c, remoteCall{handler: "labels", method: http.MethodPost, body: body})
				},
			},
			updateCommand("Update label fields", "labels", "labels"),
			{
				Name:  "add-artist",
				Usage: "Add an artist to a label or change their role",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "label-id", Required: true},
					&cli.UintFlag{Name: "user-id", Required: true},
					&cli.StringFlag{Name: "role"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					body := payload{}.id(c, "label-id", "label_id").id(c, "user-id", "user_id").str(c, "role", "role")
					return runRemote(ctx, c, remoteCall{handler: "labels", method: http.MethodPost, query: map[string]string{"resource": "label_artists"}, body: body})
				},
			},
			{
				Name:  "releases",
				Usage: "Release schedule commands",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List releases by date",
						Flags: []cli.Flag{
							&cli.UintFlag{Name: "user-id"},
							&cli.StringFlag{Name: "start-date", Usage: "YYYY-MM-DD"},
							&cli.StringFlag{Name: "end-date", Usage: "YYYY-MM-DD"},
						},
						Action: func(ctx context.Context, c *cli.Command) error {
							return runRemote(ctx, c, remoteCall{
								handler: "labels", method: http.MethodGet,
								query: map[string]string{
									"resource":   "releases",
									"user_id":    optUint(c, "user-id"),
									"start_date": optString(c, "start-date"),
									"end_date":   optString(c, "end-date"),
								},
								columns: []string{"id", "release_date", "title", "artist", "username", "status"},
							})
						},
					},
					{
						Name:  "create",
						Usage: "Schedule a release",
						Flags: []cli.Flag{
							&cli.UintFlag{Name: "track-id", Required: true},
							&cli.UintFlag{Name: "user-id", Required: true},
							&cli.StringFlag{Name: "release-date", Required: true, Usage: "YYYY-MM-DD"},
							&cli.StringSliceFlag{Name: "platform", Usage: "repeatable"},
							&cli.StringFlag{Name: "promotional-plan"},
							&cli.StringFlag{Name: "status"},
						},
						Action: func(ctx context.Context, c *cli.Command) error {
							body := payload{}.id(c, "track-id", "track_id").id(c, "user-id", "user_id").
								str(c, "release-date", "release_date").str(c, "promotional-plan", "promotional_plan").str(c, "status", "status")
							if c.IsSet("platform") {
								body["platforms"] = c.StringSlice("platform")
							}
							return runRemote(ctx, c, remoteCall{handler: "labels", method: http.MethodPost, query: map[string]string{"resource": "releases"}, body: body})
						},
					},
					updateCommand("Update release fields", "labels", "releases"),
				},
			},
		},
	}
}

func socialCommand() *cli.Command {
	return &cli.Command{
		Name:  "social",
		Usage: "Comments, messages, playlists and notifications",
		Flags: transportFlags(),
		Commands: []*cli.Command{
			{
				Name:  "comments",
				Usage: "List comments on a track",
				Flags: []cli.Flag{&cli.UintFlag{Name: "track-id", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					return runRemote(ctx, c, remoteCall{
						handler: "social", method: http.MethodGet,
						query:   map[string]string{"resource": "comments", "track_id": optUint(c, "track-id")},
						columns: []string{"id", "username", "content", "parent_id", "created_at"},
					})
				},
			},
			{
				Name:  "comment",
				Usage: "Comment on a track",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "track-id", Required: true},
					&cli.UintFlag{Name: "user-id", Required: true},
					&cli.StringFlag{Name: "content", Required: true},
					&cli.UintFlag{Name: "parent-id"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					body := payload{}.id(c, "track-id", "track_id").id(c, "user-id", "user_id").
						str(c, "content", "content").id(c, "parent-id", "parent_id")
					return runRemote(ctx, c, remoteCall{handler: "social", method: http.MethodPost, query: map[string]string{"resource": "comments"}, body: body})
				},
			},
			{
				Name:  "messages",
				Usage: "List recent messages sent or received by a user",
				Flags: []cli.Flag{&cli.UintFlag{Name: "user-id", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					return runRemote(ctx, c, remoteCall{
						handler: "social", method: http.MethodGet,
						query:   map[string]string{"resource": "messages", "user_id": optUint(c, "user-id")},
						columns: []string{"id", "sender_username", "receiver_username", "content", "is_read", "created_at"},
					})
				},
			},
			{
				Name:  "send",
				Usage: "Send a direct message",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "sender-id", Required: true},
					&cli.UintFlag{Name: "receiver-id", Required: true},
					&cli.StringFlag{Name: "content", Required: true},
					&cli.UintFlag{Name: "track-id"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					body := payload{}.id(c, "sender-id", "sender_id").id(c, "receiver-id", "receiver_id").
						str(c, "content", "content").id(c, "track-id", "track_id")
					return runRemote(ctx, c, remoteCall{handler: "social", method: http.MethodPost, query: map[string]string{"resource": "messages"}, body: body})
				},
			},
			markReadCommand("read-message", "Mark a message read", "messages"),
			{
				Name:  "playlists",
				Usage: "List a user's playlists and public ones",
				Flags: []cli.Flag{&cli.UintFlag{Name: "user-id", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					return runRemote(ctx, c, remoteCall{
						handler: "social", method: http.MethodGet,
						query:   map[string]string{"resource": "playlists", "user_id": optUint(c, "user-id")},
						columns: []string{"id", "title", "user_id", "is_public", "track_count"},
					})
				},
			},
			{
				Name:  "playlist",
				Usage: "Show a playlist with its tracks",
				Flags: []cli.Flag{&cli.UintFlag{Name: "playlist-id", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					return runRemote(ctx, c, remoteCall{handler: "social", method: http.MethodGet, query: map[string]string{"resource": "playlists", "playlist_id": optUint(c, "playlist-id")}, raw: true})
				},
			},
			{
				Name:  "playlist-create",
				Usage: "Create a playlist",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "user-id", Required: true},
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "description"},
					&cli.BoolFlag{Name: "public"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					body := payload{}.id(c, "user-id", "user_id").str(c, "title", "title").
						str(c, "description", "description").flag(c, "public", "is_public")
					return runRemote(ctx, c, remoteCall{handler: "social", method: http.MethodPost, query: map[string]string{"resource": "playlists"}, body: body})
				},
			},
			{
				Name:  "playlist-add",
				Usage: "Add a track to a playlist or move it",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "playlist-id", Required: true},
					&cli.UintFlag{Name: "track-id", Required: true},
					&cli.IntFlag{Name: "position", Required: true},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					body := payload{}.id(c, "playlist-id", "playlist_id").id(c, "track-id", "track_id").num(c, "position", "position")
					return runRemote(ctx, c, remoteCall{handler: "social", method: http.MethodPost, query: map[string]string{"resource": "playlist_tracks"}, body: body})
				},
			},
			{
				Name:  "notifications",
				Usage: "List recent notifications for a user",
				Flags: []cli.Flag{&cli.UintFlag{Name: "user-id", Required: true}},
				Action: func(ctx context.Context, c *cli.Command) error {
					return runRemote(ctx, c, remoteCall{
						handler: "social", method: http.MethodGet,
						query:   map[string]string{"resource": "notifications", "user_id": optUint(c, "user-id")},
						columns: []string{"id", "type", "title", "is_read", "created_at"},
					})
				},
			},
			{
				Name:  "notify",
				Usage: "Create a notification",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "user-id", Required: true},
					&cli.StringFlag{Name: "type", Required: true},
					&cli.StringFlag{Name: "title", Required: true},
					&cli.StringFlag{Name: "message", Required: true},
					&cli.StringFlag{Name: "link"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					body := payload{}.id(c, "user-id", "user_id").str(c, "type", "type").str(c, "title", "title").
						str(c, "message", "message").str(c, "link", "link")
					return runRemote(ctx, c, remoteCall{handler: "social", method: http.MethodPost, query: map[string]string{"resource": "notifications"}, body: body})
				},
			},
			markReadCommand("read-notification", "Mark a notification read", "notifications"),
		},
	}
}

func markReadCommand(name, usage, resource string) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{&cli.UintFlag{Name: "id", Required: true}},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runRemote(ctx, c, remoteCall{handler: "social", method: http.MethodPut, query: map[string]string{"resource": resource}, body: map[string]any{"id": c.Uint("id")}})
		},
	}
}

func analyticsCommand() *cli.Command {
	return &cli.Command{
		Name:  "analytics",
		Usage: "Stream and revenue reports for a track, a user or the whole platform",
		Flags: append(transportFlags(),
			&cli.UintFlag{Name: "track-id"},
			&cli.UintFlag{Name: "user-id"},
			&cli.StringFlag{Name: "start-date", Usage: "YYYY-MM-DD"},
			&cli.StringFlag{Name: "end-date", Usage: "YYYY-MM-DD"},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			return runRemote(ctx, c, remoteCall{
				handler: "analytics", method: http.MethodGet,
				query: map[string]string{
					"track_id":   optUint(c, "track-id"),
					"user_id":    optUint(c, "user-id"),
					"start_date": optString(c, "start-date"),
					"end_date":   optString(c, "end-date"),
				},
				raw: true,
			})
		},
	}
}
