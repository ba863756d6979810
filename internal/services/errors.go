// Package services defines the business logic of the inbound SMS pipeline.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into gateway-facing responses or HTTP status codes should be performed at the
// handler layer.
package services

import "errors"

var (
	// ErrMissingSender is returned when a delivery carries no sender MSISDN.
	// No state is mutated when it is returned.
	ErrMissingSender = errors.New("missing sender")

	// ErrAnswerFailed wraps failures of the answer generator (error or timeout).
	ErrAnswerFailed = errors.New("answer generation failed")

	// ErrSendFailed wraps failures of the outbound sender. Parts sent before
	// the failure have already been delivered.
	ErrSendFailed = errors.New("outbound send failed")

	// ErrEmptyAnswer is returned by an answer generator that produced no text.
	ErrEmptyAnswer = errors.New("answer is empty")

	// ErrInvalidDirection is returned when an event log filter names an
	// unknown direction.
	ErrInvalidDirection = errors.New("invalid direction")
)
