package handlers

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-sms-backend/internal/services"
)

// ---------- test plumbing ----------

type stubInbound struct {
	got    []services.Inbound
	result *services.Result
	err    error
}

func (s *stubInbound) Handle(_ context.Context, in services.Inbound) (*services.Result, error) {
	s.got = append(s.got, in)
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &services.Result{Outcome: services.OutcomeAnswered}, nil
}

func newWebhookRouter(p InboundProcessor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(p, nil)
	r.POST("/sms/inbound", h.Inbound)
	r.POST("/sms/dlr", h.DeliveryReport)
	r.POST("/billing/callback", h.BillingCallback)
	r.GET("/health", h.Health)
	return r
}

func post(r http.Handler, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ---------- tests ----------

func TestInbound_PayloadShapes(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		body        string
		want        services.Inbound
	}{
		{
			name:        "json canonical",
			contentType: "application/json",
			body:        `{"from":"27821234567","text":"hi","messageId":"m-1"}`,
			want:        services.Inbound{Sender: "27821234567", Text: "hi", MessageID: "m-1"},
		},
		{
			name:        "json aliases and numeric id",
			contentType: "application/json; charset=utf-8",
			body:        `{"msisdn":"27821234567","message":"price?","id":12345678901234567890}`,
			want:        services.Inbound{Sender: "27821234567", Text: "price?", MessageID: "12345678901234567890"},
		},
		{
			name:        "json blank from falls through to sender",
			contentType: "application/json",
			body:        `{"from":"  ","sender":"2782","msgid":"x"}`,
			want:        services.Inbound{Sender: "2782", MessageID: "x"},
		},
		{
			name:        "urlencoded",
			contentType: "application/x-www-form-urlencoded",
			body:        "from=%2B27821234567&text=help+me&msgid=abc",
			want:        services.Inbound{Sender: "+27821234567", Text: "help me", MessageID: "abc"},
		},
		{
			name:        "no content type, json body",
			contentType: "",
			body:        `{"sender":"2782","text":"yo"}`,
			want:        services.Inbound{Sender: "2782", Text: "yo"},
		},
		{
			name:        "wrong content type, form body",
			contentType: "text/plain",
			body:        "msisdn=2782&message=STOP",
			want:        services.Inbound{Sender: "2782", Text: "STOP"},
		},
		{
			name:        "malformed json yields nothing",
			contentType: "application/json",
			body:        `{"from":`,
			want:        services.Inbound{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := &stubInbound{}
			r := newWebhookRouter(p)
			w := post(r, "/sms/inbound", tc.contentType, tc.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			if len(p.got) != 1 {
				t.Fatalf("pipeline calls=%d", len(p.got))
			}
			if p.got[0] != tc.want {
				t.Fatalf("inbound=%+v want %+v", p.got[0], tc.want)
			}
		})
	}
}

func TestInbound_Multipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("from", "27821234567")
	_ = mw.WriteField("text", "hello")
	_ = mw.WriteField("messageId", "mp-1")
	_ = mw.Close()

	p := &stubInbound{}
	r := newWebhookRouter(p)
	w := post(r, "/sms/inbound", mw.FormDataContentType(), buf.String())
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	want := services.Inbound{Sender: "27821234567", Text: "hello", MessageID: "mp-1"}
	if len(p.got) != 1 || p.got[0] != want {
		t.Fatalf("got %+v", p.got)
	}
}

func TestInbound_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"ok", nil, http.StatusOK, `{"ok":true}`},
		{"missing sender", services.ErrMissingSender, http.StatusBadRequest, `{"ok":false,"reason":"missing sender"}`},
		{"send failed", errors.Join(services.ErrSendFailed, errors.New("gateway 502")), http.StatusInternalServerError, `{"ok":false,"reason":"processing failed"}`},
		{"storage", errors.New("database is locked"), http.StatusInternalServerError, `{"ok":false,"reason":"processing failed"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newWebhookRouter(&stubInbound{err: tc.err})
			w := post(r, "/sms/inbound", "application/json", `{"from":"2782","text":"q"}`)
			if w.Code != tc.status {
				t.Fatalf("status=%d want %d", w.Code, tc.status)
			}
			if got := strings.TrimSpace(w.Body.String()); got != tc.body {
				t.Fatalf("body=%s want %s", got, tc.body)
			}
		})
	}
}

func TestInbound_BodyTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	p := &stubInbound{}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 16)
		c.Next()
	})
	r.POST("/sms/inbound", New(p, nil).Inbound)

	w := post(r, "/sms/inbound", "application/json", `{"from":"27821234567","text":"way past sixteen bytes"}`)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status=%d", w.Code)
	}
	if len(p.got) != 0 {
		t.Fatalf("pipeline must not run on oversized body")
	}
}

func TestStubsAndHealth(t *testing.T) {
	r := newWebhookRouter(&stubInbound{})
	for _, path := range []string{"/sms/dlr", "/billing/callback"} {
		w := post(r, path, "application/json", `{"anything":["goes"]}`)
		if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"ok":true}` {
			t.Fatalf("%s -> %d %s", path, w.Code, w.Body.String())
		}
	}
	w := post(r, "/sms/dlr", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("empty dlr -> %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"ok":true}` {
		t.Fatalf("health -> %d %s", w.Code, w.Body.String())
	}
}
