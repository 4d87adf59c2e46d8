package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bookit/internal/apperror"
	"bookit/internal/audit"
	"bookit/internal/catalog"
	"bookit/internal/identity"
)

type fakeEvents map[string]catalog.Event

func (f fakeEvents) Event(_ context.Context, id string) (*catalog.Event, error) {
	e, ok := f[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return &e, nil
}

var (
	admin  = &identity.Identity{ID: "1", Name: "Admin User", Role: identity.RoleAdmin}
	booker = &identity.Identity{ID: "2", Name: "John Doe", Role: identity.RoleUser}
)

var testEvents = fakeEvents{
	"1": {ID: "1", Name: "Digital Marketing Summit 2024", Capacity: 180, IsPublic: true},
	"2": {ID: "2", Name: "Creative Workshop", Capacity: 3, IsPublic: true},
	"3": {ID: "3", Name: "Quarterly Board Meeting", Capacity: 15, IsPublic: false},
}

// failingJournal refuses writes while down is set.
type failingJournal struct {
	*audit.MemoryStore
	mu   sync.Mutex
	down bool
}

func (j *failingJournal) setDown(v bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.down = v
}

func (j *failingJournal) Record(ctx context.Context, e audit.Entry) error {
	j.mu.Lock()
	down := j.down
	j.mu.Unlock()
	if down {
		return errors.New("journal unavailable")
	}
	return j.MemoryStore.Record(ctx, e)
}

func newTestManager(t *testing.T, opts Options) (*Manager, *audit.MemoryStore) {
	t.Helper()
	a := audit.NewMemoryStore()
	m := NewManager(NewMemoryStore(a), testEvents, a, opts)

	// Strictly increasing clock so creation order is observable.
	base := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	tick := 0
	m.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return m, a
}

func TestScenario_CreateApproveApproveAgain(t *testing.T) {
	ctx := context.Background()
	m, a := newTestManager(t, Options{EnforceCapacity: true})

	b, err := m.Create(ctx, CreateRequest{EventID: "1", UserID: "2", AttendeeCount: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Status != StatusPending {
		t.Fatalf("expected pending, got %s", b.Status)
	}

	approved, err := m.Approve(ctx, b.ID, admin)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != StatusApproved || approved.DecidedBy != admin.ID {
		t.Fatalf("unexpected booking after approve: %+v", approved)
	}
	if !approved.UpdatedAt.After(b.UpdatedAt) {
		t.Fatalf("expected updatedAt refreshed")
	}

	if _, err := m.Approve(ctx, b.ID, admin); !errors.Is(err, apperror.ErrInvalidStateTransition) {
		t.Fatalf("expected invalid state transition, got %v", err)
	}
	if _, err := m.Reject(ctx, b.ID, admin); !errors.Is(err, apperror.ErrInvalidStateTransition) {
		t.Fatalf("expected terminal approved to refuse reject, got %v", err)
	}

	got, err := m.Get(ctx, b.ID, booker)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusApproved {
		t.Fatalf("status changed after failed transitions: %s", got.Status)
	}

	entries, _ := a.ListByBooking(ctx, b.ID)
	if len(entries) != 2 || entries[1].Action != audit.ActionBookingApproved {
		t.Fatalf("unexpected audit trail: %+v", entries)
	}
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Options{})

	cases := []struct {
		name string
		req  CreateRequest
		want error
	}{
		{"zero attendees", CreateRequest{EventID: "1", UserID: "2", AttendeeCount: 0}, apperror.ErrValidation},
		{"missing event", CreateRequest{EventID: "404", UserID: "2", AttendeeCount: 1}, apperror.ErrNotFound},
		{"private event", CreateRequest{EventID: "3", UserID: "2", AttendeeCount: 1}, apperror.ErrValidation},
		{"bad package", CreateRequest{EventID: "1", UserID: "2", AttendeeCount: 1, Package: "gold"}, apperror.ErrValidation},
	}
	for _, tc := range cases {
		if _, err := m.Create(ctx, tc.req); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	all, _ := m.List(ctx, Filter{})
	if len(all) != 0 {
		t.Fatalf("failed creates must not store anything, got %d", len(all))
	}
}

func TestCreate_CapacityEnforced(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Options{EnforceCapacity: true})

	first, err := m.Create(ctx, CreateRequest{EventID: "2", UserID: "2", AttendeeCount: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := m.Create(ctx, CreateRequest{EventID: "2", UserID: "3", AttendeeCount: 2}); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected capacity exceeded, got %v", err)
	}

	// Rejection frees the seats.
	if _, err := m.Reject(ctx, first.ID, admin); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := m.Create(ctx, CreateRequest{EventID: "2", UserID: "3", AttendeeCount: 3}); err != nil {
		t.Fatalf("expected seats back after reject: %v", err)
	}
}

func TestCreate_CapacityOff(t *testing.T) {
	m, _ := newTestManager(t, Options{EnforceCapacity: false})
	if _, err := m.Create(context.Background(), CreateRequest{EventID: "2", UserID: "2", AttendeeCount: 10}); err != nil {
		t.Fatalf("expected overbooking allowed when enforcement off: %v", err)
	}
}

func TestApprove_RequiresAdmin(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Options{})
	b, err := m.Create(ctx, CreateRequest{EventID: "1", UserID: "2", AttendeeCount: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	provider := &identity.Identity{ID: "4", Role: identity.RoleProvider}
	for _, actor := range []*identity.Identity{nil, booker, provider} {
		if _, err := m.Approve(ctx, b.ID, actor); !errors.Is(err, apperror.ErrUnauthorized) {
			t.Fatalf("actor %+v: expected unauthorized, got %v", actor, err)
		}
	}
	if _, err := m.Reject(ctx, "missing", admin); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestApprove_ConcurrentExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Options{})
	b, err := m.Create(ctx, CreateRequest{EventID: "1", UserID: "2", AttendeeCount: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const n = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		wins     int
		conflict int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				_, err = m.Approve(ctx, b.ID, admin)
			} else {
				_, err = m.Reject(ctx, b.ID, admin)
			}
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, apperror.ErrInvalidStateTransition):
				conflict++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 || conflict != n-1 {
		t.Fatalf("expected exactly one winner, got wins=%d conflicts=%d", wins, conflict)
	}
}

func TestListViews(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Options{})

	var ids []string
	for _, user := range []string{"2", "3", "2", "2"} {
		b, err := m.Create(ctx, CreateRequest{EventID: "1", UserID: user, AttendeeCount: 1})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, b.ID)
	}
	if _, err := m.Approve(ctx, ids[2], admin); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := m.Reject(ctx, ids[0], admin); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := m.Approve(ctx, ids[1], admin); err != nil {
		t.Fatalf("approve: %v", err)
	}

	mine, err := m.ListForUser(ctx, "2")
	if err != nil {
		t.Fatalf("list for user: %v", err)
	}
	want := []string{ids[0], ids[2], ids[3]}
	if len(mine) != len(want) {
		t.Fatalf("expected %d bookings, got %d", len(want), len(mine))
	}
	for i := range want {
		if mine[i].ID != want[i] || mine[i].UserID != "2" {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], mine[i].ID)
		}
	}

	pending, err := m.ListPending(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != ids[3] {
		t.Fatalf("unexpected pending queue: %+v", pending)
	}
	for _, b := range pending {
		if b.Status != StatusPending {
			t.Fatalf("pending queue leaked %s", b.Status)
		}
	}

	recent, err := m.ListApproved(ctx, 1)
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != ids[1] {
		t.Fatalf("expected most recently approved first, got %+v", recent)
	}
	all, err := m.ListApproved(ctx, 0)
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if len(all) != 2 || all[0].ID != ids[1] || all[1].ID != ids[2] {
		t.Fatalf("expected creation order without limit, got %+v", all)
	}
}

func TestGet_OwnerOrReviewerOnly(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Options{})
	b, err := m.Create(ctx, CreateRequest{EventID: "1", UserID: "2", AttendeeCount: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	stranger := &identity.Identity{ID: "3", Role: identity.RoleUser}
	if _, err := m.Get(ctx, b.ID, stranger); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := m.Get(ctx, b.ID, admin); err != nil {
		t.Fatalf("admin get: %v", err)
	}
	history, err := m.History(ctx, b.ID, booker)
	if err != nil || len(history) != 1 || history[0].Action != audit.ActionBookingCreated {
		t.Fatalf("unexpected history %+v %v", history, err)
	}
}

func TestApprove_FailsWhenAuditWriteFails(t *testing.T) {
	ctx := context.Background()
	journal := &failingJournal{MemoryStore: audit.NewMemoryStore()}
	m := NewManager(NewMemoryStore(journal), testEvents, journal, Options{})

	b, err := m.Create(ctx, CreateRequest{EventID: "1", UserID: "2", AttendeeCount: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	journal.setDown(true)
	if _, err := m.Approve(ctx, b.ID, admin); err == nil {
		t.Fatalf("expected approve to fail when the audit entry cannot be written")
	}
	if _, err := m.Reject(ctx, b.ID, admin); err == nil {
		t.Fatalf("expected reject to fail when the audit entry cannot be written")
	}

	got, err := m.Get(ctx, b.ID, admin)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusPending || got.DecidedBy != "" {
		t.Fatalf("booking changed despite failed audit write: %+v", got)
	}
	entries, _ := journal.ListByBooking(ctx, b.ID)
	if len(entries) != 1 || entries[0].Action != audit.ActionBookingCreated {
		t.Fatalf("unexpected audit trail: %+v", entries)
	}

	journal.setDown(false)
	if _, err := m.Approve(ctx, b.ID, admin); err != nil {
		t.Fatalf("approve after recovery: %v", err)
	}
	entries, _ = journal.ListByBooking(ctx, b.ID)
	if len(entries) != 2 || entries[1].Action != audit.ActionBookingApproved {
		t.Fatalf("expected approval recorded, got %+v", entries)
	}
}

func TestCreate_FailsWhenAuditWriteFails(t *testing.T) {
	ctx := context.Background()
	journal := &failingJournal{MemoryStore: audit.NewMemoryStore(), down: true}
	m := NewManager(NewMemoryStore(journal), testEvents, journal, Options{EnforceCapacity: true})

	if _, err := m.Create(ctx, CreateRequest{EventID: "2", UserID: "2", AttendeeCount: 3}); err == nil {
		t.Fatalf("expected create to fail when the audit entry cannot be written")
	}
	all, _ := m.List(ctx, Filter{})
	if len(all) != 0 {
		t.Fatalf("failed create must not store a booking, got %d", len(all))
	}

	// The failed request held no seats.
	journal.setDown(false)
	if _, err := m.Create(ctx, CreateRequest{EventID: "2", UserID: "3", AttendeeCount: 3}); err != nil {
		t.Fatalf("create after recovery: %v", err)
	}
}

func TestListPending_FirstComeFirstServed(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Options{})

	var ids []string
	for _, user := range []string{"2", "3", "2", "3", "2"} {
		b, err := m.Create(ctx, CreateRequest{EventID: "1", UserID: user, AttendeeCount: 1})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, b.ID)
	}

	assertQueue := func(want ...string) {
		t.Helper()
		pending, err := m.ListPending(ctx)
		if err != nil {
			t.Fatalf("list pending: %v", err)
		}
		if len(pending) != len(want) {
			t.Fatalf("expected %d pending, got %d", len(want), len(pending))
		}
		for i := range want {
			if pending[i].ID != want[i] {
				t.Fatalf("position %d: expected %s, got %s", i, want[i], pending[i].ID)
			}
		}
	}

	assertQueue(ids...)

	if _, err := m.Approve(ctx, ids[2], admin); err != nil {
		t.Fatalf("approve: %v", err)
	}
	assertQueue(ids[0], ids[1], ids[3], ids[4])

	if _, err := m.Reject(ctx, ids[3], admin); err != nil {
		t.Fatalf("reject: %v", err)
	}
	assertQueue(ids[0], ids[1], ids[4])

	// Newcomers join the back of the queue.
	late, err := m.Create(ctx, CreateRequest{EventID: "1", UserID: "3", AttendeeCount: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	assertQueue(ids[0], ids[1], ids[4], late.ID)
}

func TestListForEvent_UnknownEventNotFound(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, Options{})

	if _, err := m.ListForEvent(ctx, "404"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	items, err := m.ListForEvent(ctx, "2")
	if err != nil {
		t.Fatalf("list for event: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no bookings, got %d", len(items))
	}

	b, err := m.Create(ctx, CreateRequest{EventID: "2", UserID: "2", AttendeeCount: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	items, err = m.ListForEvent(ctx, "2")
	if err != nil {
		t.Fatalf("list for event: %v", err)
	}
	if len(items) != 1 || items[0].ID != b.ID {
		t.Fatalf("unexpected bookings %+v", items)
	}
}
