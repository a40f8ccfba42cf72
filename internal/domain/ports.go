package domain

import "context"

type PortalRepository interface {
	// Read paths
	GetProperty(ctx context.Context, id string) (Property, error)
	GetRequest(ctx context.Context, id string) (UpsellRequest, error)

	// Write paths
	InsertRequest(ctx context.Context, r UpsellRequest) (string, error)
	// ApproveRequest flips pending->approved and credits the property
	// (earnings + type counter) in one transaction. The status flip is a
	// conditional update; losing it returns ErrAlreadyHandled.
	ApproveRequest(ctx context.Context, requestID string, earned float64, t UpsellType) error
	// DeclineRequest flips pending->declined under the same conditional
	// update semantics. No property mutation.
	DeclineRequest(ctx context.Context, requestID string) error
	InsertCheckoutAck(ctx context.Context, a CheckoutAck) (string, error)

	// Notification dispatch
	ListUnnotified(ctx context.Context, limit int) ([]UpsellRequest, error)
	MarkNotified(ctx context.Context, requestID string) error
}

type PaymentProcessor interface {
	// CreateHold opens a manual-capture authorization; funds are held
	// until captured or canceled.
	CreateHold(ctx context.Context, amount int64, currency string, metadata map[string]string) (Hold, error)
	GetHold(ctx context.Context, holdID string) (Hold, error)
	Capture(ctx context.Context, holdID string) (Hold, error)
	Cancel(ctx context.Context, holdID string) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}
