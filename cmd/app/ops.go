package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/atvirokodosprendimai/labelhub/internal/adapters/event"
	"github.com/goccy/go-json"
)

// handlerPaths mirrors the routes mounted by the server.
var handlerPaths = map[string]string{
	"users":     "/users",
	"tracks":    "/api",
	"labels":    "/labels",
	"social":    "/social",
	"analytics": "/analytics",
}

// invokeRemote runs ev through the named handler of a running server.
func invokeRemote(ctx context.Context, cfg cliConfig, handler string, ev event.Event) (event.Response, error) {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).invoke(ctx, handler, ev)
	}
	path, ok := handlerPaths[handler]
	if !ok {
		return event.Response{}, fmt.Errorf("unknown handler %q", handler)
	}
	return newAPIClient(cfg.Server, cfg.UserID).send(ctx, path, ev)
}

// listRemoteHandlers asks the server over uds; over http only the static routes are known.
func listRemoteHandlers(ctx context.Context, cfg cliConfig) ([]handlerInfo, error) {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).handlers(ctx)
	}
	names := []string{"users", "tracks", "labels", "social", "analytics"}
	list := make([]handlerInfo, 0, len(names))
	for _, n := range names {
		list = append(list, handlerInfo{Name: n, Path: handlerPaths[n]})
	}
	return list, nil
}

// newEvent builds an event, dropping empty query values and marshalling body when non-nil.
func newEvent(method string, query map[string]string, body any) (event.Event, error) {
	ev := event.Event{HTTPMethod: method}
	for k, v := range query {
		if v == "" {
			continue
		}
		if ev.QueryStringParameters == nil {
			ev.QueryStringParameters = map[string]string{}
		}
		ev.QueryStringParameters[k] = v
	}
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return event.Event{}, err
		}
		s := string(raw)
		ev.Body = &s
	}
	return ev, nil
}

// parseAssignments turns key=value pairs into a JSON object; values that parse as JSON keep their type.
func parseAssignments(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q, want key=value", pair)
		}
		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			out[key] = decoded
			continue
		}
		out[key] = value
	}
	return out, nil
}
