// Package relational defines the relational-store capability interface for
// QAPairs, Documents, QueryRecords, webhook subscriptions and deliveries,
// backed by Postgres via pgx/sqlx.
package relational

import (
	"context"

	"github.com/WessleyAI/wessley-support-rag/engine/domain"
)

// Store is the capability interface the ingestion commit step, query
// pipeline telemetry sink, and webhook subsystem depend on.
type Store interface {
	// Pairs
	UpsertPair(ctx context.Context, p domain.QAPair) error
	DeletePair(ctx context.Context, id string) error
	GetPair(ctx context.Context, id string) (domain.QAPair, error)
	ListPairsByCategory(ctx context.Context, category string) ([]domain.QAPair, error)
	ListAllPairs(ctx context.Context) ([]domain.QAPair, error)

	// Documents
	UpsertDocument(ctx context.Context, d domain.Document) error

	// Query telemetry
	InsertQueryRecord(ctx context.Context, r domain.QueryRecord) error

	// Webhook subsystem
	CreateSubscription(ctx context.Context, s Subscription) error
	ListSubscriptions(ctx context.Context, eventType string) ([]Subscription, error)
	InsertDelivery(ctx context.Context, d Delivery) error
	UpdateDelivery(ctx context.Context, d Delivery) error
	ListPendingDeliveries(ctx context.Context, limit int) ([]Delivery, error)

	Close() error
}

// Subscription is a webhook subscriber's registration.
type Subscription struct {
	ID        string
	URL       string
	Secret    string
	EventType string
	Active    bool
}

// DeliveryStatus is the lifecycle of one webhook delivery attempt chain.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliverySucceeded DeliveryStatus = "succeeded"
	DeliveryRetrying  DeliveryStatus = "retrying"
	DeliveryDead      DeliveryStatus = "dead"
)

// Delivery is one webhook event delivered to one subscription.
type Delivery struct {
	ID             string
	SubscriptionID string
	EventID        string
	EventType      string
	Payload        []byte
	Status         DeliveryStatus
	Attempts       int
	NextAttemptAt  int64 // unix seconds
	LastError      string
}
