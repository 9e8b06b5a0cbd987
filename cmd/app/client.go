package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/labelhub/internal/adapters/event"
	"github.com/goccy/go-json"
)

const (
	defaultTransport = "uds"
	defaultServer    = "http://127.0.0.1:8080"
	defaultSocket    = "/tmp/labelhub.sock"
)

type cliConfig struct {
	Transport string `json:"transport"`
	Server    string `json:"server"`
	Socket    string `json:"socket"`
	UserID    string `json:"user_id,omitempty"`
}

type apiClient struct {
	httpClient *http.Client
	server     string
	userID     string
}

func newAPIClient(server, userID string) *apiClient {
	return &apiClient{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		server:     strings.TrimRight(server, "/"),
		userID:     userID,
	}
}

// send replays ev as a plain HTTP request against path and captures the response verbatim.
func (c *apiClient) send(ctx context.Context, path string, ev event.Event) (event.Response, error) {
	target := c.server + path
	if len(ev.QueryStringParameters) > 0 {
		q := url.Values{}
		for k, v := range ev.QueryStringParameters {
			q.Set(k, v)
		}
		target += "?" + q.Encode()
	}

	var body io.Reader
	if ev.Body != nil {
		body = bytes.NewBufferString(*ev.Body)
	}
	req, err := http.NewRequestWithContext(ctx, ev.HTTPMethod, target, body)
	if err != nil {
		return event.Response{}, err
	}
	if ev.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set("X-User-Id", c.userID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return event.Response{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return event.Response{}, err
	}
	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}
	return event.Response{StatusCode: resp.StatusCode, Headers: headers, Body: string(payload)}, nil
}

// clientConfigPath is ~/.labelhub/config.json.
func clientConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".labelhub", "config.json"), nil
}

func (c cliConfig) withDefaults() cliConfig {
	if c.Transport == "" {
		c.Transport = defaultTransport
	}
	if c.Server == "" {
		c.Server = defaultServer
	}
	if c.Socket == "" {
		c.Socket = defaultSocket
	}
	return c
}

// loadConfig reads the saved client settings; a missing file yields defaults.
func loadConfig() (cliConfig, error) {
	var cfg cliConfig
	path, err := clientConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cfg.withDefaults(), nil
	case err != nil:
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg.withDefaults(), nil
}

func saveConfig(cfg cliConfig) error {
	path, err := clientConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg.withDefaults(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}
