package event

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/atvirokodosprendimai/labelhub/internal/adapters/db/sqlstore"
	"github.com/atvirokodosprendimai/labelhub/internal/application"
	"github.com/atvirokodosprendimai/labelhub/internal/domain"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

type fixture struct {
	repo     *sqlstore.Repository
	handlers []Handler
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	db, err := sqlstore.Open(sqlstore.Options{DSN: filepath.Join(t.TempDir(), "event_test.db")})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = sqlstore.Close(db) })
	if err := sqlstore.RunMigrations(ctx, db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	repo := sqlstore.NewRepository(db)
	return fixture{
		repo: repo,
		handlers: NewHandlers(Services{
			Users:     application.NewUserService(repo),
			Tracks:    application.NewTrackService(repo),
			Labels:    application.NewLabelService(repo),
			Social:    application.NewSocialService(repo),
			Analytics: application.NewAnalyticsService(repo),
		}),
	}
}

func (f fixture) handler(t *testing.T, name string) Handler {
	t.Helper()
	h, ok := Lookup(f.handlers, name)
	if !ok {
		t.Fatalf("handler %s not registered", name)
	}
	return h
}

func (f fixture) call(t *testing.T, name, method string, query map[string]string, body string) Response {
	t.Helper()
	ev := Event{HTTPMethod: method, QueryStringParameters: query}
	if body != "" {
		ev.Body = &body
	}
	return f.handler(t, name).Handle(context.Background(), ev)
}

func decodeObject(t *testing.T, resp Response) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		t.Fatalf("decode object %q: %v", resp.Body, err)
	}
	return out
}

func decodeList(t *testing.T, resp Response) []map[string]any {
	t.Helper()
	var out []map[string]any
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		t.Fatalf("decode list %q: %v", resp.Body, err)
	}
	return out
}

func expectStatus(t *testing.T, resp Response, status int) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("expected status %d, got %d: %s", status, resp.StatusCode, resp.Body)
	}
}

func createUser(t *testing.T, f fixture, username string) uint {
	t.Helper()
	resp := f.call(t, "users", http.MethodPost, nil, fmt.Sprintf(`{"email":"%s@example.com","username":"%s"}`, username, username))
	expectStatus(t, resp, http.StatusOK)
	return uint(decodeObject(t, resp)["id"].(float64))
}

func createTrack(t *testing.T, f fixture, body string) map[string]any {
	t.Helper()
	resp := f.call(t, "tracks", http.MethodPost, nil, body)
	expectStatus(t, resp, http.StatusOK)
	return decodeObject(t, resp)
}

func TestOptionsReturnsCORSPreflight(t *testing.T) {
	f := newFixture(t)
	want := map[string]string{
		"users":     "GET, POST, PUT, OPTIONS",
		"tracks":    "GET, POST, PUT, DELETE, OPTIONS",
		"labels":    "GET, POST, PUT, OPTIONS",
		"social":    "GET, POST, PUT, OPTIONS",
		"analytics": "GET, OPTIONS",
	}
	for _, h := range f.handlers {
		resp := f.call(t, h.Name(), "options", map[string]string{"resource": "bogus", "id": "x"}, `{not json`)
		expectStatus(t, resp, http.StatusOK)
		if resp.Body != "" {
			t.Fatalf("%s: expected empty body, got %q", h.Name(), resp.Body)
		}
		if _, ok := resp.Headers["Content-Type"]; ok {
			t.Fatalf("%s: preflight must not set Content-Type", h.Name())
		}
		if resp.Headers["Access-Control-Allow-Origin"] != "*" ||
			resp.Headers["Access-Control-Allow-Headers"] != "Content-Type, X-User-Id" ||
			resp.Headers["Access-Control-Max-Age"] != "86400" {
			t.Fatalf("%s: unexpected CORS headers %v", h.Name(), resp.Headers)
		}
		if resp.Headers["Access-Control-Allow-Methods"] != want[h.Name()] {
			t.Fatalf("%s: expected methods %q, got %q", h.Name(), want[h.Name()], resp.Headers["Access-Control-Allow-Methods"])
		}
	}
}

func TestUnsupportedMethodIs405(t *testing.T) {
	f := newFixture(t)
	for _, tc := range []struct{ handler, method string }{
		{"users", http.MethodDelete},
		{"labels", http.MethodPatch},
		{"analytics", http.MethodPost},
	} {
		resp := f.call(t, tc.handler, tc.method, nil, "")
		expectStatus(t, resp, http.StatusMethodNotAllowed)
		if decodeObject(t, resp)["error"] != "Method not allowed" {
			t.Fatalf("%s: unexpected body %s", tc.handler, resp.Body)
		}
		if resp.Headers["Content-Type"] != "application/json" || resp.Headers["Access-Control-Allow-Origin"] != "*" {
			t.Fatalf("%s: missing response headers %v", tc.handler, resp.Headers)
		}
	}
}

func TestTrackRoundTripFillsDefaults(t *testing.T) {
	f := newFixture(t)
	userID := createUser(t, f, "roundtrip")

	created := createTrack(t, f, fmt.Sprintf(`{"user_id":%d,"title":"Echoes","artist":"Tide","genre":"ambient","bpm":90,"key":"Am","metadata":{"isrc":"X1"}}`, userID))
	id := uint(created["id"].(float64))

	resp := f.call(t, "tracks", "", map[string]string{"id": fmt.Sprint(id)}, "")
	expectStatus(t, resp, http.StatusOK)
	got := decodeObject(t, resp)

	for key, want := range map[string]any{
		"title":   "Echoes",
		"artist":  "Tide",
		"genre":   "ambient",
		"bpm":     float64(90),
		"key":     "Am",
		"status":  "pending",
		"streams": float64(0),
		"user_id": float64(userID),
	} {
		if got[key] != want {
			t.Fatalf("%s: expected %v, got %v", key, want, got[key])
		}
	}
	if meta, ok := got["metadata"].(map[string]any); !ok || meta["isrc"] != "X1" {
		t.Fatalf("unexpected metadata: %v", got["metadata"])
	}

	missing := f.call(t, "tracks", http.MethodGet, map[string]string{"id": "9999"}, "")
	expectStatus(t, missing, http.StatusNotFound)
}

func TestTrackFiltersCombineConjunctively(t *testing.T) {
	f := newFixture(t)
	a := createUser(t, f, "filter_a")
	b := createUser(t, f, "filter_b")

	createTrack(t, f, fmt.Sprintf(`{"user_id":%d,"title":"Blue Hour","artist":"A","genre":"jazz","status":"approved"}`, a))
	createTrack(t, f, fmt.Sprintf(`{"user_id":%d,"title":"Red Sky","artist":"A","genre":"jazz","status":"approved"}`, a))
	createTrack(t, f, fmt.Sprintf(`{"user_id":%d,"title":"Blue Monday","artist":"B","genre":"jazz","status":"approved"}`, b))
	createTrack(t, f, fmt.Sprintf(`{"user_id":%d,"title":"Blue Note","artist":"A","genre":"rock","status":"pending"}`, a))

	all := decodeList(t, f.call(t, "tracks", http.MethodGet, nil, ""))
	if len(all) != 4 {
		t.Fatalf("expected 4 tracks, got %d", len(all))
	}
	if all[0]["title"] != "Blue Note" {
		t.Fatalf("expected newest upload first, got %v", all[0]["title"])
	}

	filtered := decodeList(t, f.call(t, "tracks", http.MethodGet, map[string]string{
		"user_id": fmt.Sprint(a),
		"status":  "approved",
		"genre":   "jazz",
		"search":  "bLuE",
	}, ""))
	if len(filtered) != 1 || filtered[0]["title"] != "Blue Hour" {
		t.Fatalf("expected only Blue Hour, got %v", filtered)
	}
	if filtered[0]["username"] != "filter_a" {
		t.Fatalf("expected joined username, got %v", filtered[0]["username"])
	}
}

func TestTrackSortIsAllowListed(t *testing.T) {
	f := newFixture(t)
	createTrack(t, f, `{"title":"B","artist":"x"}`)
	createTrack(t, f, `{"title":"A","artist":"y"}`)

	resp := f.call(t, "tracks", http.MethodGet, map[string]string{"sort_by": "id; DROP TABLE tracks"}, "")
	expectStatus(t, resp, http.StatusBadRequest)
	if decodeObject(t, resp)["code"] != "validation_error" {
		t.Fatalf("expected validation_error code, got %s", resp.Body)
	}

	sorted := decodeList(t, f.call(t, "tracks", http.MethodGet, map[string]string{"sort_by": "title", "order": "asc"}, ""))
	if len(sorted) != 2 || sorted[0]["title"] != "A" {
		t.Fatalf("expected A first, got %v", sorted)
	}
}

func TestTrackPutUpdatesOnlyRecognizedFields(t *testing.T) {
	f := newFixture(t)
	created := createTrack(t, f, `{"title":"Draft","artist":"Me","genre":"pop"}`)
	id := int(created["id"].(float64))
	time.Sleep(10 * time.Millisecond)

	resp := f.call(t, "tracks", http.MethodPut, nil, fmt.Sprintf(`{"id":%d,"title":"Final","revenue":"3.50","owner":"ignored"}`, id))
	expectStatus(t, resp, http.StatusOK)
	updated := decodeObject(t, resp)
	if updated["title"] != "Final" || updated["genre"] != "pop" || updated["artist"] != "Me" {
		t.Fatalf("unexpected update: %v", updated)
	}
	if rev, err := decimal.NewFromString(fmt.Sprint(updated["revenue"])); err != nil || !rev.Equal(decimal.RequireFromString("3.5")) {
		t.Fatalf("unexpected revenue %v", updated["revenue"])
	}
	before, _ := time.Parse(time.RFC3339Nano, created["updated_at"].(string))
	after, _ := time.Parse(time.RFC3339Nano, updated["updated_at"].(string))
	if !after.After(before) {
		t.Fatalf("updated_at not refreshed: %v -> %v", before, after)
	}

	none := f.call(t, "tracks", http.MethodPut, nil, fmt.Sprintf(`{"id":%d,"owner":"ignored"}`, id))
	expectStatus(t, none, http.StatusOK)
	if decodeObject(t, none)["error"] != "No fields to update" {
		t.Fatalf("unexpected body %s", none.Body)
	}
	reread := decodeObject(t, f.call(t, "tracks", http.MethodGet, map[string]string{"id": fmt.Sprint(id)}, ""))
	if reread["updated_at"] != updated["updated_at"] {
		t.Fatalf("no-op update must not write: %v vs %v", reread["updated_at"], updated["updated_at"])
	}

	unknown := f.call(t, "tracks", http.MethodPut, nil, `{"id":9999,"title":"x"}`)
	expectStatus(t, unknown, http.StatusNotFound)

	noID := f.call(t, "tracks", http.MethodPut, nil, `{"title":"x"}`)
	expectStatus(t, noID, http.StatusBadRequest)
}

func TestTrackDeleteIsSoft(t *testing.T) {
	f := newFixture(t)
	created := createTrack(t, f, `{"title":"Gone","artist":"Soon"}`)
	stored := decodeList(t, f.call(t, "tracks", http.MethodGet, nil, ""))[0]["updated_at"]

	resp := f.call(t, "tracks", http.MethodDelete, map[string]string{"id": fmt.Sprint(int(created["id"].(float64)))}, "")
	expectStatus(t, resp, http.StatusOK)
	if decodeObject(t, resp)["status"] != "rejected" {
		t.Fatalf("expected rejected status, got %s", resp.Body)
	}
	listed := decodeList(t, f.call(t, "tracks", http.MethodGet, nil, ""))
	if len(listed) != 1 {
		t.Fatalf("soft-deleted track should still be listed")
	}
	if listed[0]["updated_at"] != stored {
		t.Fatalf("delete must only change status, updated_at %v -> %v", stored, listed[0]["updated_at"])
	}
}

func TestLabelArtistUpsertIsIdempotent(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f, "label_owner")
	artist := createUser(t, f, "label_artist")

	label := f.call(t, "labels", http.MethodPost, nil, fmt.Sprintf(`{"owner_id":%d,"name":"Night Shift"}`, owner))
	expectStatus(t, label, http.StatusOK)
	labelID := int(decodeObject(t, label)["id"].(float64))

	body := func(role string) string {
		return fmt.Sprintf(`{"label_id":%d,"user_id":%d,"role":"%s"}`, labelID, artist, role)
	}
	first := f.call(t, "labels", http.MethodPost, map[string]string{"resource": "label_artists"}, body("artist"))
	expectStatus(t, first, http.StatusOK)
	second := f.call(t, "labels", http.MethodPost, map[string]string{"resource": "label_artists"}, body("a&r"))
	expectStatus(t, second, http.StatusOK)

	if decodeObject(t, first)["id"] != decodeObject(t, second)["id"] {
		t.Fatalf("upsert created a second row: %s vs %s", first.Body, second.Body)
	}
	if decodeObject(t, second)["role"] != "a&r" {
		t.Fatalf("role not updated: %s", second.Body)
	}

	detail := decodeObject(t, f.call(t, "labels", http.MethodGet, map[string]string{"label_id": fmt.Sprint(labelID)}, ""))
	artists, _ := detail["artists"].([]any)
	if len(artists) != 1 {
		t.Fatalf("expected one artist, got %v", detail["artists"])
	}

	empty := f.call(t, "labels", http.MethodPost, nil, fmt.Sprintf(`{"owner_id":%d,"name":"Empty"}`, owner))
	emptyID := int(decodeObject(t, empty)["id"].(float64))
	emptyDetail := decodeObject(t, f.call(t, "labels", http.MethodGet, map[string]string{"label_id": fmt.Sprint(emptyID)}, ""))
	if list, ok := emptyDetail["artists"].([]any); !ok || len(list) != 0 {
		t.Fatalf("expected empty artists list, got %v", emptyDetail["artists"])
	}
}

func TestUnknownResourceIsReportedAtSuccess(t *testing.T) {
	f := newFixture(t)
	for _, tc := range []struct{ handler, method string }{
		{"social", http.MethodPost},
		{"social", http.MethodGet},
		{"labels", http.MethodGet},
	} {
		resp := f.call(t, tc.handler, tc.method, map[string]string{"resource": "unknown_resource"}, `{}`)
		expectStatus(t, resp, http.StatusOK)
		if decodeObject(t, resp)["error"] != "Unknown resource" {
			t.Fatalf("%s %s: unexpected body %s", tc.method, tc.handler, resp.Body)
		}
	}

	unsupported := f.call(t, "social", http.MethodPut, map[string]string{"resource": "comments"}, `{"id":1}`)
	expectStatus(t, unsupported, http.StatusOK)
	if decodeObject(t, unsupported)["error"] != "Unknown resource" {
		t.Fatalf("unexpected body %s", unsupported.Body)
	}
}

func TestSocialRequiredParameters(t *testing.T) {
	f := newFixture(t)
	resp := f.call(t, "social", http.MethodGet, map[string]string{"resource": "messages"}, "")
	expectStatus(t, resp, http.StatusBadRequest)
	if decodeObject(t, resp)["error"] != "user_id is required" {
		t.Fatalf("unexpected body %s", resp.Body)
	}

	post := f.call(t, "social", http.MethodPost, map[string]string{"resource": "comments"}, `{"track_id":1}`)
	expectStatus(t, post, http.StatusBadRequest)
}

func TestAnalyticsScopes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := createUser(t, f, "analyst")

	var trackIDs []uint
	for i := 0; i < 5; i++ {
		tr := createTrack(t, f, fmt.Sprintf(`{"user_id":%d,"title":"T%d","artist":"A"}`, owner, i))
		trackIDs = append(trackIDs, uint(tr["id"].(float64)))
	}
	day, _ := domain.ParseDate("2024-07-01")
	for _, id := range trackIDs {
		if _, err := f.repo.RecordAnalytics(ctx, domain.AnalyticsRow{TrackID: id, Date: day, Streams: 10, Revenue: decimal.RequireFromString("0.5")}); err != nil {
			t.Fatalf("record analytics: %v", err)
		}
	}

	byTrack := decodeObject(t, f.call(t, "analytics", http.MethodGet, map[string]string{"track_id": fmt.Sprint(trackIDs[4]), "user_id": "not-a-number"}, ""))
	if len(byTrack) != 3 || byTrack["daily"] == nil || byTrack["countries"] == nil || byTrack["platforms"] == nil {
		t.Fatalf("expected daily/countries/platforms, got %v", byTrack)
	}
	daily := byTrack["daily"].([]any)
	if len(daily) != 1 || daily[0].(map[string]any)["streams"] != float64(10) {
		t.Fatalf("track daily should cover one track, got %v", daily)
	}

	byUser := decodeObject(t, f.call(t, "analytics", http.MethodGet, map[string]string{"user_id": fmt.Sprint(owner)}, ""))
	if len(byUser) != 3 || byUser["top_tracks"] == nil || byUser["totals"] == nil {
		t.Fatalf("expected daily/top_tracks/totals, got %v", byUser)
	}

	global := decodeObject(t, f.call(t, "analytics", http.MethodGet, nil, ""))
	if len(global) != 2 || global["daily"] == nil || global["totals"] == nil {
		t.Fatalf("expected only daily and totals, got %v", global)
	}
	totals := global["totals"].(map[string]any)
	if totals["total_streams"] != float64(50) {
		t.Fatalf("expected 50 streams over the full table, got %v", totals["total_streams"])
	}
}

func TestMalformedBodyIsValidationError(t *testing.T) {
	f := newFixture(t)
	resp := f.call(t, "users", http.MethodPost, nil, `{"email":`)
	expectStatus(t, resp, http.StatusBadRequest)
	if decodeObject(t, resp)["code"] != "validation_error" {
		t.Fatalf("unexpected body %s", resp.Body)
	}

	dup := f.call(t, "users", http.MethodPost, nil, `{"email":"a@example.com","username":"a"}`)
	expectStatus(t, dup, http.StatusOK)
	again := f.call(t, "users", http.MethodPost, nil, `{"email":"a@example.com","username":"a"}`)
	expectStatus(t, again, http.StatusConflict)
}

func TestUserLookupsAndComments(t *testing.T) {
	f := newFixture(t)
	artistID := createUser(t, f, "nova")
	resp := f.call(t, "users", http.MethodPost, nil, `{"email":"hq@example.com","username":"hq","role":"label"}`)
	expectStatus(t, resp, http.StatusOK)
	labelUserID := uint(decodeObject(t, resp)["id"].(float64))

	track := createTrack(t, f, fmt.Sprintf(`{"user_id":%d,"title":"Drift","artist":"Nova"}`, artistID))
	trackID := uint(track["id"].(float64))
	put := f.call(t, "tracks", http.MethodPut, nil, fmt.Sprintf(`{"id":%d,"streams":25}`, trackID))
	expectStatus(t, put, http.StatusOK)

	profile := decodeObject(t, f.call(t, "users", http.MethodGet, map[string]string{"id": fmt.Sprint(artistID)}, ""))
	if profile["total_tracks"] != float64(1) || profile["total_streams"] != float64(25) {
		t.Fatalf("unexpected profile aggregates: %v", profile)
	}

	byName := decodeObject(t, f.call(t, "users", http.MethodGet, map[string]string{"username": "hq"}, ""))
	if byName["id"] != float64(labelUserID) || byName["role"] != "label" {
		t.Fatalf("unexpected user by username: %v", byName)
	}
	expectStatus(t, f.call(t, "users", http.MethodGet, map[string]string{"username": "ghost"}, ""), http.StatusNotFound)

	labelUsers := decodeList(t, f.call(t, "users", http.MethodGet, map[string]string{"role": "label"}, ""))
	if len(labelUsers) != 1 || labelUsers[0]["username"] != "hq" {
		t.Fatalf("unexpected role filter result: %v", labelUsers)
	}

	comment := f.call(t, "social", http.MethodPost, map[string]string{"resource": "comments"},
		fmt.Sprintf(`{"track_id":%d,"user_id":%d,"content":"great mix"}`, trackID, labelUserID))
	expectStatus(t, comment, http.StatusOK)

	comments := decodeList(t, f.call(t, "social", http.MethodGet, map[string]string{"track_id": fmt.Sprint(trackID)}, ""))
	if len(comments) != 1 || comments[0]["username"] != "hq" || comments[0]["content"] != "great mix" {
		t.Fatalf("unexpected comments: %v", comments)
	}
}

func TestPutWithoutRecognizedFieldsReportsNoFields(t *testing.T) {
	f := newFixture(t)
	targets := []struct {
		handler  string
		resource string
	}{
		{"tracks", ""},
		{"users", ""},
		{"labels", "labels"},
		{"labels", "releases"},
	}
	for _, target := range targets {
		for _, body := range []string{`{}`, `{"foo":1}`, ""} {
			var query map[string]string
			if target.resource != "" {
				query = map[string]string{"resource": target.resource}
			}
			resp := f.call(t, target.handler, http.MethodPut, query, body)
			expectStatus(t, resp, http.StatusOK)
			if got := decodeObject(t, resp)["error"]; got != "No fields to update" {
				t.Fatalf("%s/%s PUT %q: unexpected error %v", target.handler, target.resource, body, got)
			}
		}
	}
}

func TestTrailingGarbageInDateIsRejected(t *testing.T) {
	f := newFixture(t)
	for _, target := range []struct {
		handler string
		query   map[string]string
	}{
		{"analytics", map[string]string{"start_date": "2024-01-01garbage"}},
		{"labels", map[string]string{"resource": "releases", "end_date": "2024-01-01garbage"}},
	} {
		resp := f.call(t, target.handler, http.MethodGet, target.query, "")
		expectStatus(t, resp, http.StatusBadRequest)
	}
}

func TestProfileRevenueHasNoFloatNoise(t *testing.T) {
	f := newFixture(t)
	userID := createUser(t, f, "ledger")
	for _, revenue := range []string{"0.1", "0.2"} {
		track := createTrack(t, f, fmt.Sprintf(`{"user_id":%d,"title":"T%s","artist":"L"}`, userID, revenue))
		put := f.call(t, "tracks", http.MethodPut, nil, fmt.Sprintf(`{"id":%d,"revenue":%s}`, int(track["id"].(float64)), revenue))
		expectStatus(t, put, http.StatusOK)
	}

	profile := decodeObject(t, f.call(t, "users", http.MethodGet, map[string]string{"id": fmt.Sprint(userID)}, ""))
	if profile["total_revenue"] != "0.3" {
		t.Fatalf("total_revenue = %v, want \"0.3\"", profile["total_revenue"])
	}
}
