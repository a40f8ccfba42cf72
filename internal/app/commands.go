package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"guest_portal/internal/domain"
)

type UpsellService struct {
	repo     domain.PortalRepository
	pay      domain.PaymentProcessor
	cache    domain.Cache
	currency string
}

func NewUpsellService(r domain.PortalRepository, p domain.PaymentProcessor, cache domain.Cache, currency string) *UpsellService {
	return &UpsellService{repo: r, pay: p, cache: cache, currency: currency}
}

// CreateHold opens a manual-capture authorization for the property's
// price of the given upsell type. The returned client secret lets the
// guest's browser confirm card details directly with the processor; no
// funds move until the host approves.
func (s *UpsellService) CreateHold(ctx context.Context, propertyID string, t domain.UpsellType) (string, error) {
	p, err := s.repo.GetProperty(ctx, propertyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if !t.Enabled(p) {
		return "", domain.ErrUpsellUnavailable
	}

	hold, err := s.pay.CreateHold(ctx, t.MinorUnits(p), s.currency, map[string]string{
		"property_id": p.ID,
		"type":        string(t),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProcessor, err)
	}
	return hold.ClientSecret, nil
}

// RecordRequest writes the pending ledger row once the guest's browser
// has confirmed the authorization. The hold is re-read from the
// processor, which is authoritative for amount and state.
func (s *UpsellService) RecordRequest(ctx context.Context, nr domain.NewRequest) (string, error) {
	if _, err := s.repo.GetProperty(ctx, nr.PropertyID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	hold, err := s.pay.GetHold(ctx, nr.HoldID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProcessor, err)
	}
	if hold.Status != domain.HoldAuthorized {
		return "", fmt.Errorf("%w: hold %s is %s, want %s",
			domain.ErrProcessor, nr.HoldID, hold.Status, domain.HoldAuthorized)
	}

	holdID := hold.ID
	id, err := s.repo.InsertRequest(ctx, domain.UpsellRequest{
		PropertyID: nr.PropertyID,
		Type:       nr.Type,
		GuestName:  nr.GuestName,
		GuestEmail: nr.GuestEmail,
		Note:       nr.Note,
		Status:     domain.StatusPending,
		HoldID:     &holdID,
		Amount:     hold.Amount,
	})
	if err != nil {
		// The authorization stays open on the processor side with no row
		// tracking it; log the hold id so an operator can cancel it.
		log.Warn().Str("hold_id", holdID).Err(err).Msg("request insert failed, hold left authorized")
		return "", fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return id, nil
}

// Approve captures the held funds and, only after a confirmed capture,
// flips the request to approved and credits the property's earnings and
// type counter. The status flip is a conditional update in the store, so
// a duplicate approve loses the race and reports ErrAlreadyHandled.
func (s *UpsellService) Approve(ctx context.Context, requestID string) (int64, error) {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if req.Status != domain.StatusPending {
		return 0, domain.ErrAlreadyHandled
	}
	if req.HoldID == nil {
		return 0, domain.ErrMissingHold
	}

	// Capture happens before any ledger write: a failed charge must
	// never produce an approved record.
	hold, err := s.pay.Capture(ctx, *req.HoldID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrCaptureFailed, err)
	}
	if hold.Status != domain.HoldCaptured {
		return 0, fmt.Errorf("%w: hold status %s", domain.ErrCaptureFailed, hold.Status)
	}

	earned := float64(hold.Amount) / 100
	if err := s.repo.ApproveRequest(ctx, req.ID, earned, req.Type); err != nil {
		if errors.Is(err, domain.ErrAlreadyHandled) || errors.Is(err, domain.ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	s.invalidateProperty(ctx, req.PropertyID)
	return hold.Amount, nil
}

// Decline releases the hold (funds return to the guest's card) and flips
// the request to declined. No earnings or counter mutation.
func (s *UpsellService) Decline(ctx context.Context, requestID string) error {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if req.Status != domain.StatusPending {
		return domain.ErrAlreadyHandled
	}

	if req.HoldID != nil {
		if err := s.pay.Cancel(ctx, *req.HoldID); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrProcessor, err)
		}
	}

	if err := s.repo.DeclineRequest(ctx, req.ID); err != nil {
		if errors.Is(err, domain.ErrAlreadyHandled) || errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (s *UpsellService) invalidateProperty(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, propertyCacheKey(id))
}

type CheckoutService struct {
	repo domain.PortalRepository
}

func NewCheckoutService(r domain.PortalRepository) *CheckoutService {
	return &CheckoutService{repo: r}
}

func (s *CheckoutService) Acknowledge(ctx context.Context, propertyID, guestName string) (string, error) {
	if _, err := s.repo.GetProperty(ctx, propertyID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	id, err := s.repo.InsertCheckoutAck(ctx, domain.CheckoutAck{
		PropertyID:     propertyID,
		GuestName:      guestName,
		AcknowledgedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return id, nil
}
