package app_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guest_portal/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	props     map[string]*domain.Property
	reqs      map[string]*domain.UpsellRequest
	acks      []domain.CheckoutAck
	nextID    int
	insertErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		props: map[string]*domain.Property{},
		reqs:  map[string]*domain.UpsellRequest{},
	}
}

func (f *fakeRepo) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	p, ok := f.props[id]
	if !ok {
		return domain.Property{}, domain.ErrNotFound
	}
	return *p, nil
}

func (f *fakeRepo) GetRequest(ctx context.Context, id string) (domain.UpsellRequest, error) {
	r, ok := f.reqs[id]
	if !ok {
		return domain.UpsellRequest{}, domain.ErrNotFound
	}
	return *r, nil
}

func (f *fakeRepo) InsertRequest(ctx context.Context, r domain.UpsellRequest) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.nextID++
	r.ID = fmt.Sprintf("req_%d", f.nextID)
	r.CreatedAt = time.Now()
	f.reqs[r.ID] = &r
	return r.ID, nil
}

func (f *fakeRepo) ApproveRequest(ctx context.Context, requestID string, earned float64, t domain.UpsellType) error {
	r, ok := f.reqs[requestID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.Status != domain.StatusPending {
		return domain.ErrAlreadyHandled
	}
	r.Status = domain.StatusApproved
	p := f.props[r.PropertyID]
	p.TotalEarned += earned
	if t == domain.UpsellLateCheckout {
		p.CheckoutCount++
	} else {
		p.EarlyCheckinCount++
	}
	return nil
}

func (f *fakeRepo) DeclineRequest(ctx context.Context, requestID string) error {
	r, ok := f.reqs[requestID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.Status != domain.StatusPending {
		return domain.ErrAlreadyHandled
	}
	r.Status = domain.StatusDeclined
	return nil
}

func (f *fakeRepo) InsertCheckoutAck(ctx context.Context, a domain.CheckoutAck) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.nextID++
	a.ID = fmt.Sprintf("ack_%d", f.nextID)
	f.acks = append(f.acks, a)
	return a.ID, nil
}

func (f *fakeRepo) ListUnnotified(ctx context.Context, limit int) ([]domain.UpsellRequest, error) {
	var out []domain.UpsellRequest
	for _, r := range f.reqs {
		if r.Status == domain.StatusPending && r.NotifiedAt == nil {
			out = append(out, *r)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeRepo) MarkNotified(ctx context.Context, requestID string) error {
	r, ok := f.reqs[requestID]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now()
	r.NotifiedAt = &now
	return nil
}

type fakePay struct {
	holds         map[string]*domain.Hold
	nextID        int
	lastAmount    int64
	lastMetadata  map[string]string
	captures      int
	cancels       int
	captureErr    error
	captureStatus domain.HoldStatus // forces a non-success capture result
}

func newFakePay() *fakePay {
	return &fakePay{holds: map[string]*domain.Hold{}}
}

func (p *fakePay) CreateHold(ctx context.Context, amount int64, currency string, metadata map[string]string) (domain.Hold, error) {
	p.nextID++
	p.lastAmount = amount
	p.lastMetadata = metadata
	h := &domain.Hold{
		ID:           fmt.Sprintf("pi_%d", p.nextID),
		ClientSecret: fmt.Sprintf("pi_%d_secret", p.nextID),
		Amount:       amount,
		Status:       domain.HoldAuthorized,
	}
	p.holds[h.ID] = h
	return *h, nil
}

func (p *fakePay) GetHold(ctx context.Context, holdID string) (domain.Hold, error) {
	h, ok := p.holds[holdID]
	if !ok {
		return domain.Hold{}, errors.New("no such hold")
	}
	return *h, nil
}

func (p *fakePay) Capture(ctx context.Context, holdID string) (domain.Hold, error) {
	p.captures++
	if p.captureErr != nil {
		return domain.Hold{}, p.captureErr
	}
	h, ok := p.holds[holdID]
	if !ok {
		return domain.Hold{}, errors.New("no such hold")
	}
	if p.captureStatus != "" {
		return domain.Hold{ID: h.ID, Amount: h.Amount, Status: p.captureStatus}, nil
	}
	h.Status = domain.HoldCaptured
	return *h, nil
}

func (p *fakePay) Cancel(ctx context.Context, holdID string) error {
	p.cancels++
	h, ok := p.holds[holdID]
	if !ok {
		return errors.New("no such hold")
	}
	h.Status = domain.HoldCanceled
	return nil
}

type fakeCache struct {
	store map[string]any
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if d, ok2 := dst.(*domain.PropertyView); ok2 {
		*d = v.(domain.PropertyView)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

type fakePush struct {
	sent    int
	lastTo  string
	lastMsg string
	err     error
}

func (p *fakePush) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.sent++
	p.lastTo = token
	p.lastMsg = body
	return nil
}

// ---- helpers ----

func ptr[T any](v T) *T { return &v }

func seedProperty(repo *fakeRepo) *domain.Property {
	p := &domain.Property{
		ID:                  "prop-1",
		HostID:              "host-1",
		Nickname:            "The Loft",
		LateCheckoutEnabled: true,
		LateCheckoutPrice:   25.00,
		EarlyCheckinEnabled: true,
		EarlyCheckinPrice:   19.99,
		HostPushToken:       ptr("ExponentPushToken[abc]"),
	}
	repo.props[p.ID] = p
	return p
}
