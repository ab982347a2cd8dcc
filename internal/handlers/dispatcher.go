package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/shirry/webserver/api/v1"
)

// GetDispatcher returns the dispatcher mode and counters
// (GET /dispatcher)
func (h *Handler) GetDispatcher(c *gin.Context) {
	c.JSON(http.StatusOK, v1.NewDispatcherStatusFromModel(h.dispatcherSrv.Status()))
}
