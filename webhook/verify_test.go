package webhook

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/WessleyAI/wessley-support-rag/store/kv"
)

type memLockStore struct {
	mu    sync.Mutex
	locks map[string]bool
}

func newMemLockStore() *memLockStore { return &memLockStore{locks: map[string]bool{}} }

func (m *memLockStore) Get(context.Context, string) (string, bool, error)        { return "", false, nil }
func (m *memLockStore) Set(context.Context, string, string, time.Duration) error { return nil }
func (m *memLockStore) Del(context.Context, string) error                        { return nil }
func (m *memLockStore) Incr(context.Context, string) (int64, error)              { return 0, nil }
func (m *memLockStore) LPush(context.Context, string, string) error              { return nil }
func (m *memLockStore) BRPop(context.Context, string, time.Duration) (string, bool, error) {
	return "", false, nil
}

func (m *memLockStore) Lock(_ context.Context, name string, _ time.Duration) (kv.Unlock, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[name] {
		return nil, false, nil
	}
	m.locks[name] = true
	return func(context.Context) error { return nil }, true, nil
}

func freshTimestamp() string {
	return fmt.Sprintf("%d", time.Now().Unix())
}

func TestVerifyInbound_AcceptsFirstDeliveryOfAnEvent(t *testing.T) {
	store := newMemLockStore()
	payload := []byte(`{"type":"document.ingested"}`)
	ts := freshTimestamp()
	sig := Sign("secret", ts, payload)

	ok, err := VerifyInbound(context.Background(), store, "secret", "evt-1", ts, payload, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected first delivery to be accepted")
	}
}

func TestVerifyInbound_RejectsReplayOfSameEventID(t *testing.T) {
	store := newMemLockStore()
	payload := []byte(`{"type":"document.ingested"}`)
	ts := freshTimestamp()
	sig := Sign("secret", ts, payload)

	if _, err := VerifyInbound(context.Background(), store, "secret", "evt-1", ts, payload, sig); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ok, err := VerifyInbound(context.Background(), store, "secret", "evt-1", ts, payload, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected replayed event id to be rejected")
	}
}

func TestVerifyInbound_RejectsBadSignatureBeforeCheckingReplay(t *testing.T) {
	store := newMemLockStore()
	payload := []byte(`{"type":"document.ingested"}`)
	ts := freshTimestamp()

	ok, err := VerifyInbound(context.Background(), store, "secret", "evt-1", ts, payload, "bogus")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected a bad signature to be rejected")
	}
}

func TestVerifyInbound_RejectsTimestampOutsideSkewWindow(t *testing.T) {
	store := newMemLockStore()
	payload := []byte(`{"type":"document.ingested"}`)
	stale := fmt.Sprintf("%d", time.Now().Add(-10*time.Minute).Unix())
	sig := Sign("secret", stale, payload)

	ok, err := VerifyInbound(context.Background(), store, "secret", "evt-1", stale, payload, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected a stale timestamp to be rejected")
	}
}

func TestVerifyInbound_RejectsFutureTimestampOutsideSkewWindow(t *testing.T) {
	store := newMemLockStore()
	payload := []byte(`{"type":"document.ingested"}`)
	future := fmt.Sprintf("%d", time.Now().Add(10*time.Minute).Unix())
	sig := Sign("secret", future, payload)

	ok, err := VerifyInbound(context.Background(), store, "secret", "evt-1", future, payload, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected a future timestamp to be rejected")
	}
}

func TestVerifyInbound_RejectsUnparseableTimestamp(t *testing.T) {
	store := newMemLockStore()
	payload := []byte(`{"type":"document.ingested"}`)
	sig := Sign("secret", "not-a-timestamp", payload)

	ok, err := VerifyInbound(context.Background(), store, "secret", "evt-1", "not-a-timestamp", payload, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected an unparseable timestamp to be rejected")
	}
}
