package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/WessleyAI/wessley-support-rag/pkg/resilience"
)

type fakeStore struct {
	err error
}

func (f *fakeStore) EnsureCollection(context.Context, int) error { return f.err }
func (f *fakeStore) Upsert(context.Context, []Record) error      { return f.err }
func (f *fakeStore) DeleteByPairID(context.Context, string) error { return f.err }
func (f *fakeStore) Search(context.Context, []float32, int) ([]Result, error) {
	return []Result{{PairID: "p1"}}, f.err
}
func (f *fakeStore) SearchFiltered(context.Context, []float32, int, map[string]string) ([]Result, error) {
	return nil, f.err
}
func (f *fakeStore) Close() error { return nil }

func TestResilient_OpensAfterRepeatedSearchFailures(t *testing.T) {
	inner := &fakeStore{err: errors.New("qdrant unreachable")}
	r := NewResilient(inner, resilience.BreakerOpts{FailThreshold: 1, Timeout: 1000000000})

	if _, err := r.Search(context.Background(), nil, 5); err == nil {
		t.Fatal("expected first failure to propagate")
	}
	if _, err := r.Search(context.Background(), nil, 5); !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected breaker to be open, got %v", err)
	}
}

func TestResilient_PassesThroughSuccessfulSearch(t *testing.T) {
	inner := &fakeStore{}
	r := NewResilient(inner, resilience.BreakerOpts{})

	results, err := r.Search(context.Background(), nil, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected results to pass through, got %v", results)
	}
}
