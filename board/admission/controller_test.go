package admission

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/errx"
	"github.com/thaihadefi/Innovation-Project-sub000/pkg/kernel"
)

// memStore mirrors the conditional update semantics of the SQL store: guard
// and increment under one lock, so concurrent callers contend the same way
// they would on a row lock.
type memStore struct {
	mu   sync.Mutex
	snap CounterSnapshot
}

func newMemStore(maxApplications, maxApproved int, expiresAt *time.Time) *memStore {
	return &memStore{
		snap: CounterSnapshot{
			MaxApplications: maxApplications,
			MaxApproved:     maxApproved,
			ExpiresAt:       expiresAt,
		},
	}
}

func (m *memStore) ReserveSlot(_ context.Context, _ kernel.JobID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap.IsExpired(time.Now()) || m.snap.ApplicationsFull() || m.snap.ApprovedFull() {
		return false, nil
	}
	m.snap.ApplicationCount++
	return true, nil
}

func (m *memStore) ReleaseSlot(_ context.Context, _ kernel.JobID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap.ApplicationCount > 0 {
		m.snap.ApplicationCount--
	}
	return nil
}

func (m *memStore) TransferToApproved(_ context.Context, _ kernel.JobID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap.ApprovedFull() {
		return false, nil
	}
	m.snap.ApprovedCount++
	return true, nil
}

func (m *memStore) TransferFromApproved(_ context.Context, _ kernel.JobID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap.ApprovedCount > 0 {
		m.snap.ApprovedCount--
	}
	return nil
}

func (m *memStore) Counters(_ context.Context, _ kernel.JobID) (*CounterSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := m.snap
	return &snap, nil
}

func (m *memStore) counts() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap.ApplicationCount, m.snap.ApprovedCount
}

const jobID = kernel.JobID("job-1")

func TestReserveNeverOvershootsUnderContention(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(1, 0, nil)
	controller := NewController(store)

	const attempts = 50
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- controller.Reserve(ctx, jobID)
		}()
	}
	wg.Wait()
	close(results)

	var granted, denied int
	for err := range results {
		if err == nil {
			granted++
			continue
		}
		denied++
		if !errx.IsCode(err, CodeApplicationsFull) {
			t.Errorf("expected applications-full denial, got %v", err)
		}
	}

	if granted != 1 {
		t.Fatalf("expected exactly 1 grant for capacity 1, got %d", granted)
	}
	if denied != attempts-1 {
		t.Fatalf("expected %d denials, got %d", attempts-1, denied)
	}
	if apps, _ := store.counts(); apps != 1 {
		t.Fatalf("expected application count 1, got %d", apps)
	}
}

func TestTransferToApprovedRespectsCap(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(0, 2, nil)
	controller := NewController(store)

	const attempts = 20
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- controller.TransferToApproved(ctx, jobID)
		}()
	}
	wg.Wait()
	close(results)

	var granted int
	for err := range results {
		if err == nil {
			granted++
		} else if !errx.IsCode(err, CodeApprovedFull) {
			t.Errorf("expected approved-full denial, got %v", err)
		}
	}

	if granted != 2 {
		t.Fatalf("expected exactly 2 grants for approved cap 2, got %d", granted)
	}
}

func TestReserveDeniedOnExpiredJob(t *testing.T) {
	ctx := context.Background()
	past := time.Now().Add(-time.Hour)
	controller := NewController(newMemStore(10, 0, &past))

	err := controller.Reserve(ctx, jobID)
	if !errx.IsCode(err, CodeJobExpired) {
		t.Fatalf("expected expired denial, got %v", err)
	}
}

func TestReserveDeniedWhenApprovedCapReached(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(0, 1, nil)
	controller := NewController(store)

	if err := controller.TransferToApproved(ctx, jobID); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	err := controller.Reserve(ctx, jobID)
	if !errx.IsCode(err, CodeApprovedFull) {
		t.Fatalf("expected approved-full denial, got %v", err)
	}
}

func TestReleaseNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(5, 0, nil)
	controller := NewController(store)

	if err := controller.Release(ctx, jobID); err != nil {
		t.Fatalf("release: %v", err)
	}
	if apps, _ := store.counts(); apps != 0 {
		t.Fatalf("expected count to stay at 0, got %d", apps)
	}

	if err := controller.Reserve(ctx, jobID); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := controller.Release(ctx, jobID); err != nil {
		t.Fatalf("release: %v", err)
	}
	if apps, _ := store.counts(); apps != 0 {
		t.Fatalf("expected count back at 0, got %d", apps)
	}
}

func TestReserveThenTransferLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(10, 3, nil)
	controller := NewController(store)

	if err := controller.Reserve(ctx, jobID); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := controller.TransferToApproved(ctx, jobID); err != nil {
		t.Fatalf("transfer to approved: %v", err)
	}

	apps, approved := store.counts()
	if apps != 1 || approved != 1 {
		t.Fatalf("expected counts (1,1), got (%d,%d)", apps, approved)
	}

	if err := controller.TransferFromApproved(ctx, jobID); err != nil {
		t.Fatalf("transfer from approved: %v", err)
	}

	apps, approved = store.counts()
	if apps != 1 || approved != 0 {
		t.Fatalf("expected counts (1,0), got (%d,%d)", apps, approved)
	}
}
