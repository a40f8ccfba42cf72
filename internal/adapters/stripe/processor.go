// internal/adapters/stripe/processor.go
package stripe

import (
	"context"
	"time"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"guest_portal/internal/adapters/observability"
	"guest_portal/internal/domain"
)

// Processor is a thin wrapper around stripe-go PaymentIntents in
// manual-capture mode: authorize on create, charge only on capture,
// release on cancel. No retries here; processor failures are terminal
// for the invocation and surfaced to the caller.
type Processor struct{}

func New(key string) *Processor {
	stripe.Key = key
	return &Processor{}
}

func (p *Processor) CreateHold(ctx context.Context, amount int64, currency string, metadata map[string]string) (domain.Hold, error) {
	params := &stripe.PaymentIntentParams{
		Params:        stripe.Params{Context: ctx},
		Amount:        stripe.Int64(amount),
		Currency:      stripe.String(currency),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	start := time.Now()
	pi, err := paymentintent.New(params)
	observe("create", err, start)
	if err != nil {
		return domain.Hold{}, err
	}
	return toHold(pi), nil
}

func (p *Processor) GetHold(ctx context.Context, holdID string) (domain.Hold, error) {
	params := &stripe.PaymentIntentParams{Params: stripe.Params{Context: ctx}}
	start := time.Now()
	pi, err := paymentintent.Get(holdID, params)
	observe("get", err, start)
	if err != nil {
		return domain.Hold{}, err
	}
	return toHold(pi), nil
}

func (p *Processor) Capture(ctx context.Context, holdID string) (domain.Hold, error) {
	params := &stripe.PaymentIntentCaptureParams{Params: stripe.Params{Context: ctx}}
	start := time.Now()
	pi, err := paymentintent.Capture(holdID, params)
	observe("capture", err, start)
	if err != nil {
		return domain.Hold{}, err
	}
	return toHold(pi), nil
}

func (p *Processor) Cancel(ctx context.Context, holdID string) error {
	params := &stripe.PaymentIntentCancelParams{Params: stripe.Params{Context: ctx}}
	start := time.Now()
	_, err := paymentintent.Cancel(holdID, params)
	observe("cancel", err, start)
	return err
}

func toHold(pi *stripe.PaymentIntent) domain.Hold {
	return domain.Hold{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Status:       mapStatus(pi.Status),
	}
}

// Stripe has more intent states than the ledger cares about; anything
// that isn't authorized/captured/canceled comes through verbatim so the
// services reject it as non-success.
func mapStatus(s stripe.PaymentIntentStatus) domain.HoldStatus {
	switch s {
	case stripe.PaymentIntentStatusRequiresCapture:
		return domain.HoldAuthorized
	case stripe.PaymentIntentStatusSucceeded:
		return domain.HoldCaptured
	case stripe.PaymentIntentStatusCanceled:
		return domain.HoldCanceled
	}
	return domain.HoldStatus(s)
}

func observe(endpoint string, err error, start time.Time) {
	status := 200
	if err != nil {
		status = 0
		if se, ok := err.(*stripe.Error); ok {
			status = se.HTTPStatusCode
		}
	}
	observability.ObserveExternal("stripe", endpoint, status, time.Since(start))
}
