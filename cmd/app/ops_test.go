package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/atvirokodosprendimai/labelhub/internal/adapters/event"
)

func TestParseAssignmentsKeepsJSONTypes(t *testing.T) {
	got, err := parseAssignments([]string{"bpm=128", "title=Night Drive", "explicit=true", "genre=\"house\""})
	if err != nil {
		t.Fatalf("parseAssignments: %v", err)
	}
	if got["bpm"] != float64(128) {
		t.Fatalf("bpm = %#v", got["bpm"])
	}
	if got["title"] != "Night Drive" {
		t.Fatalf("title = %#v", got["title"])
	}
	if got["explicit"] != true {
		t.Fatalf("explicit = %#v", got["explicit"])
	}
	if got["genre"] != "house" {
		t.Fatalf("genre = %#v", got["genre"])
	}

	if _, err := parseAssignments([]string{"novalue"}); err == nil {
		t.Fatal("expected error for missing '='")
	}
}

func TestNewEventDropsEmptyQueryValues(t *testing.T) {
	ev, err := newEvent(http.MethodGet, map[string]string{"status": "", "genre": "techno"}, nil)
	if err != nil {
		t.Fatalf("newEvent: %v", err)
	}
	if len(ev.QueryStringParameters) != 1 || ev.QueryStringParameters["genre"] != "techno" {
		t.Fatalf("query = %#v", ev.QueryStringParameters)
	}
	if ev.Body != nil {
		t.Fatalf("body = %q, want nil", *ev.Body)
	}
}

func TestAPIClientSendReplaysEvent(t *testing.T) {
	var gotMethod, gotQuery, gotBody, gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.Query().Get("resource")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotUser = r.Header.Get("X-User-Id")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":7}`))
	}))
	defer srv.Close()

	ev, err := newEvent(http.MethodPost, map[string]string{"resource": "playlists"}, map[string]any{"title": "Warmup"})
	if err != nil {
		t.Fatalf("newEvent: %v", err)
	}
	resp, err := newAPIClient(srv.URL, "3").send(context.Background(), "/social", ev)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotMethod != http.MethodPost || gotQuery != "playlists" || gotBody != `{"title":"Warmup"}` || gotUser != "3" {
		t.Fatalf("request = %s %s %s %s", gotMethod, gotQuery, gotBody, gotUser)
	}
	if resp.StatusCode != http.StatusOK || resp.Body != `{"id":7}` || resp.Headers["Content-Type"] != "application/json" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestResponseErrorReportsErrorBodies(t *testing.T) {
	cases := []struct {
		name string
		resp event.Response
		want string
	}{
		{"ok", event.Response{StatusCode: 200, Body: `{"id":1}`}, ""},
		{"unknown resource", event.Response{StatusCode: 200, Body: `{"error":"Unknown resource"}`}, "Unknown resource"},
		{"not found", event.Response{StatusCode: 404, Body: `{"error":"Not found","code":"not_found"}`}, "api error (404): Not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := responseError(tc.resp)
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tc.want {
				t.Fatalf("error = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestPrintResponseRendersListAsTable(t *testing.T) {
	var buf bytes.Buffer
	stdout = &buf
	t.Cleanup(func() { stdout = os.Stdout })

	resp := event.Response{StatusCode: 200, Body: `[{"id":1,"title":"Night Drive","genre":null},{"id":2,"title":"Morning","genre":"ambient"}]`}
	if err := printResponse(resp, []string{"id", "title", "genre"}, false); err != nil {
		t.Fatalf("printResponse: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[1], "Night Drive") || !strings.HasSuffix(lines[1], "-") {
		t.Fatalf("table = %q", buf.String())
	}
}
