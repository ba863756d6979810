// Package handlers provides HTTP handler implementations.
//
// This file defines the two response shapes used by the service:
//
//   - Ack, the envelope SMS gateways expect from webhooks:
//     {"ok": true} or {"ok": false, "reason": "missing sender"}
//   - ErrorResponse, the structured error envelope of the operator API:
//     {"request_id": "...", "code": "not_found", "message": "route not found"}
//
// Both writers log 5xx responses with the request-scoped logger.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-sms-backend/internal/http/middleware"
)

// Ack is the webhook response envelope.
type Ack struct {
	OK     bool   `json:"ok" example:"true"`
	Reason string `json:"reason,omitempty" example:"missing sender"`
}

// ErrorResponse is the standard error envelope returned by operator endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"resource not found"`
}

// fail aborts the request with a structured error and logs server-side errors.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail(), used by router fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ack writes a webhook envelope. An empty reason means success.
func ack(c *gin.Context, status int, reason string) {
	if reason == "" {
		c.JSON(status, Ack{OK: true})
		return
	}
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("reason", reason).
			Msg("webhook error")
	}
	c.AbortWithStatusJSON(status, Ack{OK: false, Reason: reason})
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
