package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/shirry/webserver/api/v1"
	"github.com/shirry/webserver/internal/services"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// maxOffset bounds (page-1)*pageSize.
	maxOffset = math.MaxInt32
)

// ListRequests returns the request log with filtering and pagination
// (GET /requests)
func (h *Handler) ListRequests(c *gin.Context, params v1.ListRequestsParams) {
	if h.requestSrv == nil {
		c.JSON(http.StatusServiceUnavailable, v1.Error{Error: "request log is disabled"})
		return
	}

	// Parse pagination
	page := 1
	if params.Page != nil && *params.Page > 0 {
		page = *params.Page
	}
	pageSize := defaultPageSize
	if params.PageSize != nil && *params.PageSize > 0 {
		pageSize = *params.PageSize
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}

	if page-1 > maxOffset/pageSize {
		c.JSON(http.StatusBadRequest, v1.Error{Error: "page out of range"})
		return
	}

	svcParams := services.RequestListParams{
		Statuses: params.Status,
		Paths:    params.Path,
		Modes:    v1.ParseModes(params.Mode),
		Limit:    uint64(pageSize),
		Offset:   uint64((page - 1) * pageSize),
	}

	result, err := h.requestSrv.List(c.Request.Context(), svcParams)
	if err != nil {
		zap.S().Named("request_handler").Errorw("failed to list requests", "error", err)
		c.JSON(http.StatusInternalServerError, v1.Error{Error: "failed to list requests"})
		return
	}

	pageCount := (result.Total + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}

	apiRequests := make([]v1.Request, 0, len(result.Requests))
	for _, r := range result.Requests {
		apiRequests = append(apiRequests, v1.NewRequestFromModel(r))
	}

	c.JSON(http.StatusOK, v1.RequestListResponse{
		Page:      page,
		PageCount: pageCount,
		Total:     result.Total,
		Requests:  apiRequests,
	})
}
