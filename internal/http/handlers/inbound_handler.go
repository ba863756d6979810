// Webhook HTTP handlers.
//
// This file exposes the endpoints called by the SMS gateway:
//   - POST /sms/inbound       (mobile-originated message)
//   - POST /sms/dlr           (delivery report, acknowledged only)
//   - POST /billing/callback  (billing notification, acknowledged only)
//
// Gateways differ in how they post: JSON, urlencoded form or multipart form,
// with or without an accurate Content-Type. The inbound handler accepts all of
// them and several field spellings.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-sms-backend/internal/http/middleware"
	"github.com/tbourn/go-sms-backend/internal/services"
	"github.com/tbourn/go-sms-backend/internal/sysutil"
)

// multipartMemory bounds the in-memory part of a multipart parse; the body
// itself is already capped by the router.
const multipartMemory = 32 << 10

// Reasons for payloads that never reach the pipeline.
const (
	reasonPayloadTooLarge = "payload too large"
	reasonUnreadable      = "unreadable payload"
)

// InboundRequest documents the accepted inbound fields. Aliases are listed in
// priority order; the first non-blank one wins.
type InboundRequest struct {
	// Sender MSISDN. Aliases: msisdn, sender.
	From string `json:"from" example:"27821234567"`
	// Message body. Alias: message.
	Text string `json:"text" example:"what does the premium plan cost?"`
	// Provider message id. Aliases: id, msgid. Numbers are accepted.
	MessageID string `json:"messageId" example:"ATXid_7f1c2"`
}

// fields is a flattened inbound payload: one string value per key.
type fields map[string]string

//
// Handlers
//

// Inbound godoc
// @ID          smsInbound
// @Summary     Receive an inbound SMS
// @Description Runs one gateway delivery through dedup, compliance, rate limiting and answering.
// @Description Accepts JSON, urlencoded or multipart bodies. Duplicates are acknowledged and dropped.
// @Tags        Webhooks
// @Accept      json
// @Accept      x-www-form-urlencoded
// @Accept      mpfd
// @Produce     json
//
// @Param       body  body  handlers.InboundRequest  true  "Inbound delivery"
//
// @Success     200  {object}  handlers.Ack  "Processed (or dropped as duplicate)"
// @Failure     400  {object}  handlers.Ack  "Missing sender"
// @Failure     413  {object}  handlers.Ack  "Payload too large"
// @Failure     500  {object}  handlers.Ack  "Processing failed"
// @Router      /sms/inbound [post]
func (h *Handlers) Inbound(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ack(c, http.StatusRequestEntityTooLarge, reasonPayloadTooLarge)
			return
		}
		ack(c, http.StatusBadRequest, reasonUnreadable)
		return
	}

	f := decodeInbound(c, raw)
	in := services.Inbound{
		Sender:    sysutil.FirstNonEmpty(f["from"], f["msisdn"], f["sender"]),
		Text:      sysutil.FirstNonEmpty(f["text"], f["message"]),
		MessageID: sysutil.FirstNonEmpty(f["messageId"], f["id"], f["msgid"]),
	}

	res, err := h.inbound.Handle(c.Request.Context(), in)
	switch {
	case errors.Is(err, services.ErrMissingSender):
		ack(c, http.StatusBadRequest, ReasonMissingSender)
		return
	case err != nil:
		_ = c.Error(err)
		ack(c, http.StatusInternalServerError, ReasonProcessingFailed)
		return
	}

	middleware.LoggerFrom(c).Debug().
		Str("outcome", string(res.Outcome)).
		Int("parts_sent", res.PartsSent).
		Bool("welcomed", res.Welcomed).
		Msg("inbound handled")
	ack(c, http.StatusOK, "")
}

// DeliveryReport godoc
// @ID          smsDeliveryReport
// @Summary     Receive a delivery report
// @Description Acknowledges gateway delivery receipts. Reports are not stored.
// @Tags        Webhooks
// @Accept      json
// @Produce     json
// @Success     200  {object}  handlers.Ack
// @Router      /sms/dlr [post]
func (h *Handlers) DeliveryReport(c *gin.Context) { acknowledgeOnly(c, "delivery report") }

// BillingCallback godoc
// @ID          billingCallback
// @Summary     Receive a billing callback
// @Description Acknowledges billing notifications. Callbacks are not stored.
// @Tags        Webhooks
// @Accept      json
// @Produce     json
// @Success     200  {object}  handlers.Ack
// @Router      /billing/callback [post]
func (h *Handlers) BillingCallback(c *gin.Context) { acknowledgeOnly(c, "billing callback") }

// Health godoc
// @ID          health
// @Summary     Liveness probe
// @Tags        Health
// @Produce     json
// @Success     200  {object}  handlers.Ack
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) { ack(c, http.StatusOK, "") }

func acknowledgeOnly(c *gin.Context, kind string) {
	n, _ := io.Copy(io.Discard, c.Request.Body)
	middleware.LoggerFrom(c).Debug().Int64("bytes", n).Msg(kind + " received")
	ack(c, http.StatusOK, "")
}

//
// Decoding
//

// decodeInbound flattens raw according to the request Content-Type. A body
// that cannot be decoded yields no fields, which the pipeline then rejects
// as a missing sender.
func decodeInbound(c *gin.Context, raw []byte) fields {
	switch c.ContentType() {
	case gin.MIMEJSON:
		f, _ := jsonFields(raw)
		return f
	case gin.MIMEPOSTForm:
		return formFields(raw)
	case gin.MIMEMultipartPOSTForm:
		return multipartFields(c, raw)
	default:
		if f, err := jsonFields(raw); err == nil {
			return f
		}
		return formFields(raw)
	}
}

// jsonFields decodes a JSON object, stringifying scalar values. Numbers keep
// their literal form so large numeric message ids survive.
func jsonFields(raw []byte) (fields, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return fields{}, err
	}
	f := make(fields, len(m))
	for k, v := range m {
		switch x := v.(type) {
		case string:
			f[k] = x
		case json.Number:
			f[k] = x.String()
		case bool:
			f[k] = strconv.FormatBool(x)
		}
	}
	return f, nil
}

// formFields keeps every well-formed pair even when some pair is malformed.
func formFields(raw []byte) fields {
	vals, _ := url.ParseQuery(string(raw))
	return firstValues(vals)
}

func multipartFields(c *gin.Context, raw []byte) fields {
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		return fields{}
	}
	return firstValues(c.Request.MultipartForm.Value)
}

func firstValues(vals map[string][]string) fields {
	f := make(fields, len(vals))
	for k, vs := range vals {
		if len(vs) > 0 {
			f[k] = vs[0]
		}
	}
	return f
}
