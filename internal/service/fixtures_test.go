package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/spec-kit/benefits-service/internal/domain"
	"github.com/spec-kit/benefits-service/internal/events"
	"github.com/spec-kit/benefits-service/internal/repository/memory"
)

// testClock is a settable time source shared by services under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordedEvents struct {
	mu   sync.Mutex
	list []events.Event
}

func (r *recordedEvents) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, e)
	return nil
}

func (r *recordedEvents) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.list))
	for _, e := range r.list {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	clock   *testClock
	cases   *memory.CaseRepository
	users   *memory.UserRepository
	history *memory.CaseHistoryRepository
	events  *recordedEvents
	citizen *CaseService
	admin   *CaseAdminService
}

var fixtureStart = time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock:   &testClock{now: fixtureStart},
		cases:   memory.NewCaseRepository(),
		users:   memory.NewUserRepository(),
		history: memory.NewCaseHistoryRepository(),
		events:  &recordedEvents{},
	}
	f.cases.SetClock(f.clock.Now)

	dispatcher := events.NewInMemoryDispatcher()
	for _, et := range events.AllEventTypes() {
		dispatcher.Subscribe(et, f.events.handle)
	}

	f.citizen = NewCaseService(CaseDependencies{
		CaseRepo:   f.cases,
		Dispatcher: dispatcher,
		Clock:      f.clock.Now,
	})
	f.admin = NewCaseAdminService(CaseAdminDependencies{
		CaseRepo:    f.cases,
		UserRepo:    f.users,
		HistoryRepo: f.history,
		Dispatcher:  dispatcher,
		Clock:       f.clock.Now,
	})
	return f
}

func (f *fixture) addUser(t *testing.T, email string, role domain.UserRole) *domain.User {
	t.Helper()
	u := &domain.User{Name: email, Email: email, Phone: "050-0000000", PasswordHash: "x", Role: role}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) submitCase(t *testing.T, owner *domain.User) *domain.Case {
	t.Helper()
	view, err := f.citizen.CreateCase(context.Background(), owner, CreateCaseInput{BenefitType: domain.BenefitFamily})
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	return &view.Case
}

func strPtr(s string) *string { return &s }
