package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atvirokodosprendimai/labelhub/internal/adapters/db/sqlstore"
	rpcadapter "github.com/atvirokodosprendimai/labelhub/internal/adapters/rpcjson"
	"github.com/atvirokodosprendimai/labelhub/internal/domain"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

func openTestRepository(t *testing.T, dsn string) *sqlstore.Repository {
	t.Helper()
	db, err := sqlstore.Open(sqlstore.Options{Driver: sqlstore.DriverSQLite, DSN: dsn})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = sqlstore.Close(db) })
	if err := sqlstore.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return sqlstore.NewRepository(db)
}

// startRPCServer serves the real handlers on a socket under a short temp dir.
func startRPCServer(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "lh")
	if err != nil {
		t.Fatalf("temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	repo := openTestRepository(t, filepath.Join(t.TempDir(), "rpc.db"))
	socket := filepath.Join(dir, "rpc.sock")
	srv, err := rpcadapter.Start(socket, buildHandlers(repo))
	if err != nil {
		t.Fatalf("start rpc server: %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })
	return socket
}

func TestRPCClientListsHandlersWithPaths(t *testing.T) {
	socket := startRPCServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	list, err := newRPCClient(socket).handlers(ctx)
	if err != nil {
		t.Fatalf("handlers: %v", err)
	}
	if len(list) != len(handlerPaths) {
		t.Fatalf("expected %d handlers, got %v", len(handlerPaths), list)
	}
	for _, h := range list {
		if handlerPaths[h.Name] != h.Path {
			t.Fatalf("%s: path %q does not match client route %q", h.Name, h.Path, handlerPaths[h.Name])
		}
		if len(h.Methods) == 0 {
			t.Fatalf("%s: no methods reported", h.Name)
		}
	}
}

func TestRPCClientInvokeRoundTrip(t *testing.T) {
	socket := startRPCServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cfg := cliConfig{Transport: "uds", Socket: socket}

	ev, err := newEvent(http.MethodPost, nil, map[string]any{"email": "nova@example.com", "username": "nova"})
	if err != nil {
		t.Fatalf("newEvent: %v", err)
	}
	created, err := invokeRemote(ctx, cfg, "users", ev)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.StatusCode != http.StatusOK {
		t.Fatalf("create user status %d: %s", created.StatusCode, created.Body)
	}

	ev, _ = newEvent(http.MethodGet, map[string]string{"username": "nova"}, nil)
	found, err := invokeRemote(ctx, cfg, "users", ev)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	var user map[string]any
	if err := json.Unmarshal([]byte(found.Body), &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user["email"] != "nova@example.com" {
		t.Fatalf("unexpected user: %v", user)
	}
}

func TestHandlersCommandPrintsServerTable(t *testing.T) {
	socket := startRPCServer(t)
	t.Setenv("HOME", t.TempDir())
	var buf bytes.Buffer
	stdout = &buf
	t.Cleanup(func() { stdout = os.Stdout })

	err := newRootCommand().Run(context.Background(), []string{"labelhub", "handlers", "--transport", "uds", "--socket", socket})
	if err != nil {
		t.Fatalf("handlers command: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "METHODS") || !strings.Contains(out, "/api") || !strings.Contains(out, "GET") {
		t.Fatalf("unexpected handlers output:\n%s", out)
	}
}

func TestMigrateAndIngestCommands(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dsn := filepath.Join(dir, "labelhub.db")
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LABELHUB_DATABASE__DSN", dsn)
	t.Setenv("LABELHUB_LOG__LEVEL", "error")
	ctx := context.Background()

	if err := newRootCommand().Run(ctx, []string{"labelhub", "migrate"}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo := openTestRepository(t, dsn)
	owner, err := repo.CreateUser(ctx, domain.User{Email: "owner@example.com", Username: "owner", Role: "artist"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	track, err := repo.CreateTrack(ctx, domain.Track{UserID: &owner.ID, Title: "Drift", Artist: "Owner", Status: "pending", Revenue: decimal.Zero})
	if err != nil {
		t.Fatalf("create track: %v", err)
	}

	rows := []map[string]any{
		{"track_id": track.ID, "date": "2024-05-01", "streams": 10, "revenue": "0.1"},
		{"track_id": track.ID, "date": "2024-05-02", "streams": 5, "revenue": "0.2"},
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		t.Fatalf("marshal rows: %v", err)
	}
	input := filepath.Join(dir, "rows.json")
	if err := os.WriteFile(input, raw, 0o600); err != nil {
		t.Fatalf("write rows: %v", err)
	}

	if err := newRootCommand().Run(ctx, []string{"labelhub", "ingest", input}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	totals, err := repo.Totals(ctx, domain.AnalyticsScope{TrackID: &track.ID})
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.TotalStreams == nil || *totals.TotalStreams != 15 {
		t.Fatalf("unexpected streams: %v", totals.TotalStreams)
	}
	if !totals.TotalRevenue.Decimal.Equal(decimal.RequireFromString("0.3")) {
		t.Fatalf("unexpected revenue: %s", totals.TotalRevenue.Decimal)
	}
}
