// Package handlers defines HTTP-layer error codes used by the operator API.
//
// Webhook endpoints answer with the gateway's {ok, reason} envelope instead;
// these codes apply to every other route (including 404/405 fallbacks).
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "bad_request",
//	  "message": "direction must be one of MO, MT, DUP, BLOCK"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeListFailed = "list_failed"
)

// Gateway-facing reasons carried in Ack.Reason.
const (
	ReasonMissingSender    = "missing sender"
	ReasonProcessingFailed = "processing failed"
)
