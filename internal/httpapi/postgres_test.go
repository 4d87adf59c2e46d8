package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"bookit/internal/apperror"
	"bookit/internal/audit"
	"bookit/internal/booking"
	"bookit/internal/seed"
	"bookit/internal/session"
	"bookit/pkg/config"
	"bookit/pkg/db"
)

// Runs against a real database when BOOKIT_TEST_DATABASE_URL is set.
func newPostgresStores(t *testing.T) (Stores, config.Config) {
	t.Helper()
	url := os.Getenv("BOOKIT_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("BOOKIT_TEST_DATABASE_URL not set")
	}
	cfg := config.Config{
		AppEnv:          "test",
		Store:           config.StorePostgres,
		DatabaseURL:     url,
		EnforceCapacity: true,
	}
	if err := db.Migrate("file://../../migrations", cfg); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	ctx := context.Background()
	pool, err := db.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(pool.Close)

	stores := PostgresStores(pool)
	if err := seed.Load(ctx, stores.Seed(), testPassword); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return stores, cfg
}

func newPostgresServer(t *testing.T) *httptest.Server {
	t.Helper()
	stores, cfg := newPostgresStores(t)
	srv := httptest.NewServer(NewRouter(Dependencies{
		Cfg:      cfg,
		Stores:   stores,
		Sessions: session.NewIssuer("pg-test-secret", "bookit", time.Hour),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPostgres_ConcurrentDecisionsSingleWinner(t *testing.T) {
	srv := newPostgresServer(t)
	userTok := login(t, srv, "jane@example.com")
	adminTok := login(t, srv, "admin@bookit.com")

	resp, b := do(t, srv, http.MethodPost, "/v1/bookings", userTok, map[string]any{
		"eventId":           "4",
		"numberOfAttendees": 1,
		"package":           "vip",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d body %v", resp.StatusCode, b)
	}
	if b["totalPrice"] != "50" {
		t.Fatalf("expected vip total 50, got %v", b["totalPrice"])
	}
	id, _ := b["id"].(string)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = map[int]int{}
	)
	for _, action := range []string{"approve", "reject", "approve"} {
		wg.Add(1)
		go func(action string) {
			defer wg.Done()
			req, _ := http.NewRequest(http.MethodPost, srv.URL+"/v1/bookings/"+id+"/"+action, nil)
			req.Header.Set("Authorization", "Bearer "+adminTok)
			status := 0
			if resp, err := http.DefaultClient.Do(req); err == nil {
				status = resp.StatusCode
				resp.Body.Close()
			}
			mu.Lock()
			codes[status]++
			mu.Unlock()
		}(action)
	}
	wg.Wait()
	if codes[http.StatusOK] != 1 || codes[http.StatusConflict] != 2 {
		t.Fatalf("expected one winner, got %v", codes)
	}

	resp, b = do(t, srv, http.MethodGet, "/v1/bookings/"+id+"/events", userTok, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("history: status %d", resp.StatusCode)
	}
	if items, _ := b["items"].([]any); len(items) != 2 {
		t.Fatalf("expected created + decided entries, got %v", b["items"])
	}
}

func TestPostgres_CapacityExceeded(t *testing.T) {
	srv := newPostgresServer(t)
	userTok := login(t, srv, "john@example.com")

	// Event 3 is private; event 2 holds 40.
	resp, b := do(t, srv, http.MethodPost, "/v1/bookings", userTok, map[string]any{
		"eventId":           "2",
		"numberOfAttendees": 41,
	})
	if resp.StatusCode != http.StatusConflict || errorCode(b) != "CAPACITY_EXCEEDED" {
		t.Fatalf("expected capacity conflict, got %d %v", resp.StatusCode, b)
	}
}

func TestPostgres_PendingQueueFirstComeFirstServed(t *testing.T) {
	srv := newPostgresServer(t)
	userTok := login(t, srv, "jane@example.com")
	adminTok := login(t, srv, "admin@bookit.com")

	var ids []string
	for i := 0; i < 4; i++ {
		resp, b := do(t, srv, http.MethodPost, "/v1/bookings", userTok, map[string]any{
			"eventId":           "1",
			"numberOfAttendees": 1,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create: status %d body %v", resp.StatusCode, b)
		}
		id, _ := b["id"].(string)
		ids = append(ids, id)
	}

	if resp, b := do(t, srv, http.MethodPost, "/v1/bookings/"+ids[1]+"/approve", adminTok, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("approve: status %d body %v", resp.StatusCode, b)
	}

	// The database may hold pending bookings from earlier runs; only the
	// relative order of this run's bookings is checked.
	resp, b := do(t, srv, http.MethodGet, "/v1/bookings?status=pending", adminTok, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pending: status %d", resp.StatusCode)
	}
	mine := map[string]bool{ids[0]: true, ids[1]: true, ids[2]: true, ids[3]: true}
	var got []string
	items, _ := b["items"].([]any)
	for _, it := range items {
		row, _ := it.(map[string]any)
		if id, _ := row["id"].(string); mine[id] {
			got = append(got, id)
		}
	}
	want := []string{ids[0], ids[2], ids[3]}
	if len(got) != len(want) {
		t.Fatalf("expected %v in queue, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestPostgres_TransitionRollsBackWhenAuditInsertFails(t *testing.T) {
	stores, _ := newPostgresStores(t)
	ctx := context.Background()

	now := time.Now().UTC()
	total, _ := booking.TotalPrice(booking.PackageStandard, 1)
	b := &booking.Booking{
		ID:                "rollback-" + now.Format("20060102150405.000000000"),
		EventID:           "1",
		UserID:            "3",
		NumberOfAttendees: 1,
		Status:            booking.StatusPending,
		Package:           booking.PackageStandard,
		TotalPrice:        total,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := stores.Bookings.Insert(ctx, b, 0); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// booking_events.booking_id must reference an existing booking.
	orphan := audit.Entry{BookingID: "no-such-booking", Action: audit.ActionBookingApproved, Actor: "1", OccurredAt: now}
	if _, err := stores.Bookings.Transition(ctx, b.ID, booking.StatusApproved, "1", now, orphan); err == nil {
		t.Fatalf("expected transition to fail with the audit insert")
	}
	got, err := stores.Bookings.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != booking.StatusPending {
		t.Fatalf("status committed without its audit entry: %s", got.Status)
	}

	// The same failure on insert leaves no booking behind.
	b2 := *b
	b2.ID = b.ID + "-2"
	if err := stores.Bookings.Insert(ctx, &b2, 0, orphan); err == nil {
		t.Fatalf("expected insert to fail with the audit insert")
	}
	if _, err := stores.Bookings.Get(ctx, b2.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected booking rolled back, got %v", err)
	}
}
