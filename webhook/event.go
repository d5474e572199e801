// Package webhook delivers committed-pair and query-pipeline events to
// registered subscriber URLs, with HMAC-signed payloads, bounded-concurrency
// dispatch, and retry-with-backoff up to a dead-letter transition.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/WessleyAI/wessley-support-rag/store/kv"
)

// outboundQueueKey backs the dispatcher's work queue via the shared
// key/value store's LPush/BRPop pair.
const outboundQueueKey = "webhook:outbound"

// Event is a fact published by the ingestion or query pipeline for webhook
// fan-out, independent of any one subscriber.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Envelope is the exact JSON body sent to a subscriber, wrapping the raw
// event payload with delivery metadata a receiver needs to deduplicate and
// order deliveries.
type Envelope struct {
	EventID         string          `json:"event_id"`
	Kind            string          `json:"kind"`
	Timestamp       int64           `json:"timestamp"`
	DeliveryAttempt int             `json:"delivery_attempt"`
	Data            json.RawMessage `json:"data"`
}

// Enqueue pushes an event onto the dispatcher's outbound queue.
func Enqueue(ctx context.Context, store kv.Store, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("webhook: encode event %s: %w", ev.ID, err)
	}
	return store.LPush(ctx, outboundQueueKey, string(data))
}
