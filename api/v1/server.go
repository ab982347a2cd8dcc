package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServerInterface is implemented by the admin API handlers.
type ServerInterface interface {
	// (GET /dispatcher)
	GetDispatcher(c *gin.Context)
	// (GET /requests)
	ListRequests(c *gin.Context, params ListRequestsParams)
}

type serverInterfaceWrapper struct {
	handler ServerInterface
}

func (w *serverInterfaceWrapper) GetDispatcher(c *gin.Context) {
	w.handler.GetDispatcher(c)
}

func (w *serverInterfaceWrapper) ListRequests(c *gin.Context) {
	var params ListRequestsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, Error{Error: "invalid query parameters: " + err.Error()})
		return
	}
	w.handler.ListRequests(c, params)
}

// RegisterHandlers mounts the API routes on router.
func RegisterHandlers(router gin.IRouter, si ServerInterface) {
	wrapper := &serverInterfaceWrapper{handler: si}

	router.GET("/dispatcher", wrapper.GetDispatcher)
	router.GET("/requests", wrapper.ListRequests)
}
