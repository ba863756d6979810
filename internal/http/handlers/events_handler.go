// Event log HTTP handlers.
//
// This file exposes the operator read API over the audit log:
//   - GET /events  (paginated, newest first, optional direction filter, ETag)
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-sms-backend/internal/domain"
	"github.com/tbourn/go-sms-backend/internal/services"
	"github.com/tbourn/go-sms-backend/internal/utils"
)

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListEventsResponse contains a page of events and pagination metadata.
type ListEventsResponse struct {
	Events     []domain.Event `json:"events"`
	Pagination Pagination     `json:"pagination"`
}

// clampPagination parses page/page_size from query parameters, applies
// defaults and caps, and returns the validated (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 50
		maxPageSize     = 200
	)
	page = max(utils.AtoiDefault(c.Query("page"), defaultPage), 1)
	pageSize = utils.Clamp(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}

// ListEvents godoc
// @ID          listEvents
// @Summary     List audit events
// @Description Returns a page of the event log, newest first. Subscribers appear only as hashes.
// @Description Mounted under API_BASE_PATH (default /api/v1).
// @Tags        Events
// @Produce     json
//
// @Param       direction  query  string  false "Direction filter"  Enums(MO, MT, DUP, BLOCK)
// @Param       page       query  int     false "Page number"       minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"    minimum(1) maximum(200) default(50)
//
// @Success     200  {object} handlers.ListEventsResponse
// @Success     304  "Not modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /api/v1/events [get]
func (h *Handlers) ListEvents(c *gin.Context) {
	ctx := c.Request.Context()

	direction, err := services.ParseDirection(c.Query("direction"))
	if errors.Is(err, services.ErrInvalidDirection) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "direction must be one of MO, MT, DUP, BLOCK")
		return
	}

	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if count, maxTS, err := h.events.Stats(ctx, direction); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		etag := fmt.Sprintf(`W/"events:%s:%d:%d:%d:%d"`, direction, count, ts, page, pageSize)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.events.ListPage(ctx, direction, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if items == nil {
		items = []domain.Event{}
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListEventsResponse{
		Events: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}
