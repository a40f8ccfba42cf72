package domain

import "errors"

// Every operation reports failures as one of these tagged conditions;
// handlers map them to distinct HTTP responses.
var (
	ErrNotFound          = errors.New("not found")
	ErrUpsellUnavailable = errors.New("upsell not available")
	ErrAlreadyHandled    = errors.New("request already handled")
	ErrMissingHold       = errors.New("no payment hold on request")
	ErrCaptureFailed     = errors.New("capture failed")
	ErrProcessor         = errors.New("payment processor error")
	ErrPersistence       = errors.New("persistence failed")
)
