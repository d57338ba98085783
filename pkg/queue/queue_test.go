package queue

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memStore struct {
	values map[string]string
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (m *memStore) Get(ctx context.Context, key string) (string, error) {
	val, ok := m.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return val, nil
}

func (m *memStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.values[key] = value
	return nil
}

func (m *memStore) Update(ctx context.Context, key string, value string) error {
	m.values[key] = value
	return nil
}

func (m *memStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.values[key]
	return ok, nil
}

type fixedCounter struct {
	count int64
}

func (c *fixedCounter) CountSurveysWithQueuePrefix(prefix string) (int64, error) {
	return c.count, nil
}

func newTestService(store Store, counter SubmissionCounter) *Service {
	loc := time.FixedZone("WIB", 7*60*60)
	svc := NewService(store, counter, time.Hour, loc)
	svc.now = func() time.Time {
		return time.Date(2024, 1, 15, 9, 0, 0, 0, loc)
	}
	return svc
}

func TestIssueSequential(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemStore(), &fixedCounter{})
	ctx := context.Background()

	first, err := svc.Issue(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first != "/20240115/1" {
		t.Errorf("first token: got %q, want /20240115/1", first)
	}

	second, err := svc.Issue(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if second != "/20240115/2" {
		t.Errorf("second token: got %q, want /20240115/2", second)
	}
}

func TestIssueSkipsPastSubmittedCount(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemStore(), &fixedCounter{count: 4})
	token, err := svc.Issue(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if token != "/20240115/5" {
		t.Errorf("token: got %q, want /20240115/5", token)
	}
}

func TestValidateAndConsume(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := newTestService(store, &fixedCounter{})
	ctx := context.Background()

	token, err := svc.Issue(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Validate(ctx, token); err != nil {
		t.Fatalf("fresh token should validate, got %v", err)
	}

	substituteID, err := svc.ValidateAndConsume(ctx, token)
	if err != nil {
		t.Fatal(err)
	}
	if substituteID == "" {
		t.Error("expected a respondent-substitute id")
	}

	// The key survives consumption (status listings still see it), but
	// validation now fails with not-found semantics.
	if _, err := store.Get(ctx, token); err != nil {
		t.Error("consumed token key should still exist")
	}
	if err := svc.Validate(ctx, token); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("consumed token: expected ErrTokenNotFound, got %v", err)
	}
	if _, err := svc.ValidateAndConsume(ctx, token); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("double consume: expected ErrTokenNotFound, got %v", err)
	}
}

func TestValidateUnknownToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemStore(), &fixedCounter{})
	if err := svc.Validate(context.Background(), "/20240115/99"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestListStatus(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := newTestService(store, &fixedCounter{})
	ctx := context.Background()

	first, _ := svc.Issue(ctx)
	second, _ := svc.Issue(ctx)

	if err := svc.Consume(ctx, first); err != nil {
		t.Fatal(err)
	}

	statuses, err := svc.ListStatus(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if !statuses[0].Consumed || statuses[0].Token != first {
		t.Errorf("first status: got %+v", statuses[0])
	}
	if statuses[1].Consumed || statuses[1].Token != second {
		t.Errorf("second status: got %+v", statuses[1])
	}
}

func TestListStatusStopsAtFirstGap(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := newTestService(store, &fixedCounter{})
	ctx := context.Background()

	// Token 1 issued normally; token 3 written with a gap at 2.
	if _, err := svc.Issue(ctx); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, "/20240115/3", "1705284000", time.Hour); err != nil {
		t.Fatal(err)
	}

	statuses, err := svc.ListStatus(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// The walk stops at the missing /20240115/2; token 3 is not listed.
	if len(statuses) != 1 {
		t.Errorf("expected the scan to stop at the first gap, got %d statuses", len(statuses))
	}
}
