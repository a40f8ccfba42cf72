package app

import (
	"context"
	"fmt"

	"guest_portal/internal/domain"
)

// NotifyService alerts hosts about new pending upsell requests. It runs
// out-of-band (cmd/notifier): request creation never waits on a push.
type NotifyService struct {
	repo domain.PortalRepository
	push domain.PushSender
}

func NewNotifyService(r domain.PortalRepository, p domain.PushSender) *NotifyService {
	return &NotifyService{repo: r, push: p}
}

// Pending lists pending requests whose host has not been notified yet.
func (s *NotifyService) Pending(ctx context.Context, limit int) ([]domain.UpsellRequest, error) {
	return s.repo.ListUnnotified(ctx, limit)
}

// Notify pushes one request to the host's device and marks the row
// notified. A host without a registered token is marked notified anyway
// so the dispatcher doesn't pick the row up forever.
func (s *NotifyService) Notify(ctx context.Context, r domain.UpsellRequest) error {
	p, err := s.repo.GetProperty(ctx, r.PropertyID)
	if err != nil {
		return err
	}
	if p.HostPushToken == nil || *p.HostPushToken == "" {
		return s.repo.MarkNotified(ctx, r.ID)
	}

	title := fmt.Sprintf("New Request · %s", p.Nickname)
	body := fmt.Sprintf("%s requested %s · $%.2f", r.GuestName, r.Type.Label(), float64(r.Amount)/100)
	data := map[string]string{
		"requestId":  r.ID,
		"propertyId": r.PropertyID,
		"type":       string(r.Type),
		"guestName":  r.GuestName,
	}
	if err := s.push.Send(ctx, *p.HostPushToken, title, body, data); err != nil {
		return err
	}
	return s.repo.MarkNotified(ctx, r.ID)
}
