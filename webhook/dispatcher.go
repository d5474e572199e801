package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/WessleyAI/wessley-support-rag/pkg/fn"
	"github.com/WessleyAI/wessley-support-rag/pkg/metrics"
	"github.com/WessleyAI/wessley-support-rag/store/kv"
	"github.com/WessleyAI/wessley-support-rag/store/relational"
)

const (
	popTimeout    = 5 * time.Second
	sweepInterval = 30 * time.Second
	httpAttempts  = 2

	// defaultOutboundRate and defaultOutboundBurst cap the dispatcher's total
	// outbound request rate across every subscription, independent of the
	// per-delivery backoff schedule.
	defaultOutboundRate  = 50
	defaultOutboundBurst = 100

	breakerFailureRatio = 0.6
	breakerMinRequests  = 10
)

// Dispatcher pulls events off the outbound queue, fans them out to every
// active subscription for the event's type, and drives each delivery
// through its retry schedule. The HTTP send path sits behind its own
// circuit breaker, kept separate from pkg/resilience.Breaker because a
// flaky subscriber endpoint is a different failure domain than a degraded
// store.
type Dispatcher struct {
	kv         kv.Store
	relational relational.Store
	client     *http.Client
	workers    int
	logger     *slog.Logger
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	metrics    *metrics.Registry
}

// SetMetrics attaches a metrics.Registry so subsequent deliveries report
// their outcome as webhook_deliveries_total. Optional; a Dispatcher with no
// registry attached skips metrics entirely.
func (d *Dispatcher) SetMetrics(reg *metrics.Registry) {
	d.metrics = reg
}

// NewDispatcher builds a Dispatcher with workers bounding concurrent
// deliveries via an errgroup limit.
func NewDispatcher(store kv.Store, rel relational.Store, client *http.Client, workers int, logger *slog.Logger) *Dispatcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if workers <= 0 {
		workers = 8
	}
	if logger == nil {
		logger = slog.Default()
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "webhook-send",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= breakerMinRequests && float64(counts.TotalFailures)/float64(counts.Requests) >= breakerFailureRatio
		},
	})
	return &Dispatcher{
		kv:         store,
		relational: rel,
		client:     client,
		workers:    workers,
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Limit(defaultOutboundRate), defaultOutboundBurst),
		breaker:    breaker,
	}
}

// Run pulls events one at a time until ctx is cancelled, fanning each out
// to a bounded pool of concurrent deliveries before pulling the next.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		raw, ok, err := d.kv.BRPop(ctx, outboundQueueKey, popTimeout)
		if err != nil {
			return fmt.Errorf("webhook: pop outbound queue: %w", err)
		}
		if !ok {
			continue
		}

		var ev Event
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			d.logger.Error("webhook: dropping malformed event", "error", err)
			continue
		}
		if err := d.fanOut(ctx, ev); err != nil {
			d.logger.Error("webhook: fan-out failed", "event_id", ev.ID, "error", err)
		}
	}
}

// fanOut delivers ev to every active subscription for its type, bounded to
// d.workers concurrent deliveries.
func (d *Dispatcher) fanOut(ctx context.Context, ev Event) error {
	subs, err := d.relational.ListSubscriptions(ctx, ev.Type)
	if err != nil {
		return fmt.Errorf("list subscriptions for %s: %w", ev.Type, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for _, sub := range subs {
		if !sub.Active {
			continue
		}
		g.Go(func() error {
			d.deliverNew(gctx, sub, ev)
			return nil
		})
	}
	return g.Wait()
}

// deliverNew records a fresh pending delivery and attempts it immediately.
func (d *Dispatcher) deliverNew(ctx context.Context, sub relational.Subscription, ev Event) {
	delivery := relational.Delivery{
		ID:             uuid.NewString(),
		SubscriptionID: sub.ID,
		EventID:        ev.ID,
		EventType:      ev.Type,
		Payload:        ev.Payload,
		Status:         relational.DeliveryPending,
	}
	if err := d.relational.InsertDelivery(ctx, delivery); err != nil {
		d.logger.Error("webhook: insert delivery failed", "subscription_id", sub.ID, "error", err)
		return
	}
	d.attempt(ctx, sub, delivery)
}

// Sweep re-attempts every delivery whose backoff window has elapsed. Called
// on a fixed interval by the worker's main loop, independent of Run's event
// pop.
func (d *Dispatcher) Sweep(ctx context.Context) error {
	pending, err := d.relational.ListPendingDeliveries(ctx, 500)
	if err != nil {
		return fmt.Errorf("webhook: list pending deliveries: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	now := time.Now().Unix()
	for _, delivery := range pending {
		if delivery.Status != relational.DeliveryRetrying || delivery.NextAttemptAt > now {
			continue
		}
		sub, err := d.subscriptionByID(ctx, delivery.SubscriptionID, delivery.EventType)
		if err != nil {
			d.logger.Warn("webhook: dropping delivery for missing subscription", "delivery_id", delivery.ID, "error", err)
			continue
		}
		g.Go(func() error {
			d.attempt(gctx, sub, delivery)
			return nil
		})
	}
	return g.Wait()
}

func (d *Dispatcher) subscriptionByID(ctx context.Context, id, eventType string) (relational.Subscription, error) {
	subs, err := d.relational.ListSubscriptions(ctx, eventType)
	if err != nil {
		return relational.Subscription{}, err
	}
	for _, s := range subs {
		if s.ID == id {
			return s, nil
		}
	}
	return relational.Subscription{}, fmt.Errorf("subscription %s not found", id)
}

// attempt sends one HTTP delivery and transitions the delivery's status
// based on the outcome, persisting the result.
func (d *Dispatcher) attempt(ctx context.Context, sub relational.Subscription, delivery relational.Delivery) {
	delivery.Attempts++

	status, sendErr := d.send(ctx, sub, delivery)
	switch {
	case sendErr == nil && status >= 200 && status < 300:
		delivery.Status = relational.DeliverySucceeded
		delivery.LastError = ""
	case sendErr == nil && !isRetryableStatus(status) || delivery.Attempts >= maxAttempts:
		delivery.Status = relational.DeliveryDead
		delivery.LastError = fmt.Sprintf("status %d: %v", status, sendErr)
	default:
		delivery.Status = relational.DeliveryRetrying
		delivery.NextAttemptAt = time.Now().Add(backoffFor(delivery.Attempts)).Unix()
		delivery.LastError = fmt.Sprintf("status %d: %v", status, sendErr)
	}

	if err := d.relational.UpdateDelivery(ctx, delivery); err != nil {
		d.logger.Error("webhook: persist delivery outcome failed", "delivery_id", delivery.ID, "error", err)
	}
	if d.metrics != nil {
		d.metrics.DeliveryTotal.WithLabelValues(string(delivery.Status)).Inc()
	}
}

// send builds the signed envelope for delivery and performs the HTTP POST,
// retrying transient network-level failures (not HTTP status codes, which
// the caller's backoff schedule handles) a couple of times before giving
// up.
func (d *Dispatcher) send(ctx context.Context, sub relational.Subscription, delivery relational.Delivery) (int, error) {
	envelope := Envelope{
		EventID:         delivery.EventID,
		Kind:            delivery.EventType,
		Timestamp:       time.Now().Unix(),
		DeliveryAttempt: delivery.Attempts,
		Data:            delivery.Payload,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return 0, fmt.Errorf("webhook: encode envelope for delivery %s: %w", delivery.ID, err)
	}
	timestamp := fmt.Sprintf("%d", envelope.Timestamp)
	signature := Sign(sub.Secret, timestamp, body)

	result := fn.Retry(ctx, fn.RetryOpts{MaxAttempts: httpAttempts, InitialWait: 200 * time.Millisecond, MaxWait: time.Second, Jitter: true},
		func(ctx context.Context) fn.Result[*http.Response] {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.URL, bytes.NewReader(body))
			if err != nil {
				return fn.Err[*http.Response](err)
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set(EventIDHeader, envelope.EventID)
			req.Header.Set(EventKindHeader, envelope.Kind)
			req.Header.Set(WebhookIDHeader, delivery.ID)
			req.Header.Set(DeliveryAttemptHeader, fmt.Sprintf("%d", envelope.DeliveryAttempt))
			req.Header.Set(TimestampHeader, timestamp)
			req.Header.Set(SignatureHeader, signature)

			if err := d.limiter.Wait(ctx); err != nil {
				return fn.Err[*http.Response](err)
			}
			raw, err := d.breaker.Execute(func() (interface{}, error) {
				return d.client.Do(req)
			})
			if err != nil {
				return fn.Err[*http.Response](err)
			}
			return fn.Ok(raw.(*http.Response))
		})

	resp, err := result.Unwrap()
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
