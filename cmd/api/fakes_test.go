package main

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
	"github.com/WessleyAI/wessley-support-rag/modelclient"
	"github.com/WessleyAI/wessley-support-rag/store/kv"
	"github.com/WessleyAI/wessley-support-rag/store/relational"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeKVStore is an in-memory kv.Store good enough to back session.Manager
// and ingest/staging.Store in tests, without a real Redis instance.
type fakeKVStore struct {
	mu       sync.Mutex
	data     map[string]string
	queue    []string
	locks    map[string]bool
	counters map[string]int64
}

func newFakeKVStore() *fakeKVStore {
	return &fakeKVStore{data: map[string]string{}, locks: map[string]bool{}, counters: map[string]int64{}}
}

func (f *fakeKVStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKVStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

func (f *fakeKVStore) Del(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	return nil
}

func (f *fakeKVStore) Incr(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeKVStore) LPush(_ context.Context, _ string, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, value)
	return nil
}

func (f *fakeKVStore) BRPop(_ context.Context, _ string, _ time.Duration) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return "", false, nil
	}
	v := f.queue[0]
	f.queue = f.queue[1:]
	return v, true, nil
}

func (f *fakeKVStore) Lock(_ context.Context, name string, _ time.Duration) (kv.Unlock, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.locks[name] {
		return nil, false, nil
	}
	f.locks[name] = true
	return func(context.Context) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.locks, name)
		return nil
	}, true, nil
}

// fakeRelStore is an in-memory relational.Store for handler tests.
type fakeRelStore struct {
	mu            sync.Mutex
	pairs         map[string]domain.QAPair
	documents     map[string]domain.Document
	queryRecords  []domain.QueryRecord
	subscriptions []relational.Subscription
	deliveries    map[string]relational.Delivery
}

func newFakeRelStore() *fakeRelStore {
	return &fakeRelStore{
		pairs:      map[string]domain.QAPair{},
		documents:  map[string]domain.Document{},
		deliveries: map[string]relational.Delivery{},
	}
}

func (f *fakeRelStore) UpsertPair(_ context.Context, p domain.QAPair) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pairs[p.ID] = p
	return nil
}

func (f *fakeRelStore) DeletePair(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pairs, id)
	return nil
}

func (f *fakeRelStore) GetPair(_ context.Context, id string) (domain.QAPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pairs[id], nil
}

func (f *fakeRelStore) ListPairsByCategory(_ context.Context, category string) ([]domain.QAPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.QAPair
	for _, p := range f.pairs {
		if p.Metadata.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRelStore) ListAllPairs(_ context.Context) ([]domain.QAPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.QAPair
	for _, p := range f.pairs {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRelStore) UpsertDocument(_ context.Context, d domain.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.documents[d.ID] = d
	return nil
}

func (f *fakeRelStore) InsertQueryRecord(_ context.Context, r domain.QueryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryRecords = append(f.queryRecords, r)
	return nil
}

func (f *fakeRelStore) CreateSubscription(_ context.Context, s relational.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscriptions = append(f.subscriptions, s)
	return nil
}

func (f *fakeRelStore) ListSubscriptions(_ context.Context, eventType string) ([]relational.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []relational.Subscription
	for _, s := range f.subscriptions {
		if eventType == "" || s.EventType == eventType {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRelStore) InsertDelivery(_ context.Context, d relational.Delivery) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deliveries[d.ID] = d
	return nil
}

func (f *fakeRelStore) UpdateDelivery(_ context.Context, d relational.Delivery) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deliveries[d.ID] = d
	return nil
}

func (f *fakeRelStore) ListPendingDeliveries(_ context.Context, _ int) ([]relational.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []relational.Delivery
	for _, d := range f.deliveries {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeRelStore) Close() error { return nil }

// fakeModelClient satisfies both modelclient.EmbedClient and
// modelclient.ChatClient with deterministic, cheap responses.
type fakeModelClient struct{}

func (fakeModelClient) Embed(_ context.Context, text string) ([]float32, error) {
	return []float32{float64ToFloat32(len(text))}, nil
}

func (fakeModelClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, _ := fakeModelClient{}.Embed(ctx, t)
		out[i] = v
	}
	return out, nil
}

func float64ToFloat32(n int) float32 { return float32(n) }

func (fakeModelClient) Chat(_ context.Context, _ modelclient.ChatRequest) (modelclient.ChatResponse, error) {
	return modelclient.ChatResponse{Text: "a canned answer"}, nil
}
