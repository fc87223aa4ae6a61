package domain

import "errors"

var (
	ErrFlowNotFound       = errors.New("booking flow not found or has expired")
	ErrNoShowingSelected  = errors.New("no showing has been selected")
	ErrSeatsNotLoaded     = errors.New("seat map has not been loaded for this showing")
	ErrEmptySelection     = errors.New("select at least one seat before proceeding to payment")
	ErrShowingUnresolved  = errors.New("showing is missing its server-issued schedule id")
	ErrStaleGeneration    = errors.New("seat data belongs to a previously selected showing")
	ErrCheckoutInProgress = errors.New("a checkout is already in progress for this flow")
	ErrInvoiceNotFound    = errors.New("invoice not found for this session")
)
