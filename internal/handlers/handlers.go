package handlers

import (
	v1 "github.com/shirry/webserver/api/v1"
	"github.com/shirry/webserver/internal/services"
)

type Handler struct {
	dispatcherSrv *services.DispatcherService
	requestSrv    *services.RequestService
}

func New(dispatcherSrv *services.DispatcherService, requestSrv *services.RequestService) *Handler {
	return &Handler{
		dispatcherSrv: dispatcherSrv,
		requestSrv:    requestSrv,
	}
}

var _ v1.ServerInterface = (*Handler)(nil)
