// Package handlers provides the Gin handlers for the SMS gateway webhooks
// and the operator read API.
//
// Handlers are transport-thin: they decode the payload, call an application
// service and translate the result into the response contract of the caller
// (the gateway's {ok, reason} envelope for webhooks, ErrorResponse for the
// operator API).
package handlers

import (
	"context"
	"time"

	"github.com/tbourn/go-sms-backend/internal/domain"
	"github.com/tbourn/go-sms-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// InboundProcessor runs one inbound delivery through the pipeline.
//
// Implementations must be safe for concurrent use.
type InboundProcessor interface {
	Handle(ctx context.Context, in services.Inbound) (*services.Result, error)
}

// EventReader exposes paginated reads of the audit event log.
type EventReader interface {
	// ListPage returns a page of events, newest first, and the total count.
	ListPage(ctx context.Context, direction domain.Direction, page, pageSize int) ([]domain.Event, int64, error)
	// Stats returns the event count and latest timestamp, used for ETags.
	Stats(ctx context.Context, direction domain.Direction) (int64, *time.Time, error)
}

// Handlers groups HTTP handlers and their service dependencies.
type Handlers struct {
	inbound InboundProcessor
	events  EventReader
}

// New constructs a Handlers bound to the given services.
func New(inbound InboundProcessor, events EventReader) *Handlers {
	return &Handlers{inbound: inbound, events: events}
}
