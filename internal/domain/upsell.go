package domain

import (
	"fmt"
	"math"
	"time"
)

type UpsellType string

const (
	UpsellLateCheckout UpsellType = "late_checkout"
	UpsellEarlyCheckin UpsellType = "early_checkin"
)

func ParseUpsellType(s string) (UpsellType, error) {
	switch UpsellType(s) {
	case UpsellLateCheckout, UpsellEarlyCheckin:
		return UpsellType(s), nil
	}
	return "", fmt.Errorf("unknown upsell type %q", s)
}

// Each upsell type maps to its own enabled flag, price field and
// fulfillment counter on the property; keep that mapping here so the
// services never branch on the type themselves.

func (t UpsellType) Enabled(p Property) bool {
	if t == UpsellLateCheckout {
		return p.LateCheckoutEnabled
	}
	return p.EarlyCheckinEnabled
}

func (t UpsellType) Price(p Property) float64 {
	if t == UpsellLateCheckout {
		return p.LateCheckoutPrice
	}
	return p.EarlyCheckinPrice
}

func (t UpsellType) Label() string {
	if t == UpsellLateCheckout {
		return "Late Checkout"
	}
	return "Early Check-in"
}

// MinorUnits converts the property's decimal price for this type into
// integer minor currency units, rounded to the nearest unit.
func (t UpsellType) MinorUnits(p Property) int64 {
	return int64(math.Round(t.Price(p) * 100))
}

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusDeclined RequestStatus = "declined"
)

// UpsellRequest leaves pending exactly once, via approve or decline.
type UpsellRequest struct {
	ID         string
	PropertyID string
	Type       UpsellType
	GuestName  string
	GuestEmail string
	Note       *string
	Status     RequestStatus
	HoldID     *string // processor-side payment intent id
	Amount     int64   // minor currency units, as authorized
	CreatedAt  time.Time
	NotifiedAt *time.Time
}

// NewRequest carries guest input for recording a request; the hold is
// re-read from the processor before the row is written.
type NewRequest struct {
	PropertyID string
	Type       UpsellType
	GuestName  string
	GuestEmail string
	Note       *string
	HoldID     string
}

type HoldStatus string

const (
	HoldAuthorized HoldStatus = "requires_capture"
	HoldCaptured   HoldStatus = "succeeded"
	HoldCanceled   HoldStatus = "canceled"
)

// Hold is the processor's view of an authorization. The processor is
// authoritative for both amount and status.
type Hold struct {
	ID           string
	ClientSecret string
	Amount       int64 // minor units
	Status       HoldStatus
}
