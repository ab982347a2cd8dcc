package services

import (
	"context"

	"github.com/shirry/webserver/internal/models"
	"github.com/shirry/webserver/internal/store"
)

type RequestService struct {
	store *store.Store
}

func NewRequestService(st *store.Store) *RequestService {
	return &RequestService{store: st}
}

type RequestListParams struct {
	Statuses []int
	Paths    []string
	Modes    []models.DispatchMode
	Limit    uint64
	Offset   uint64
}

type RequestListResult struct {
	Requests []models.RequestRecord
	Total    int
}

func (s *RequestService) List(ctx context.Context, params RequestListParams) (*RequestListResult, error) {
	requests, err := s.store.Requests().List(ctx, s.buildListOptions(params)...)
	if err != nil {
		return nil, err
	}

	// Get total count without pagination
	total, err := s.store.Requests().Count(ctx, s.buildListOptions(RequestListParams{
		Statuses: params.Statuses,
		Paths:    params.Paths,
		Modes:    params.Modes,
	})...)
	if err != nil {
		return nil, err
	}

	return &RequestListResult{
		Requests: requests,
		Total:    total,
	}, nil
}

func (s *RequestService) buildListOptions(params RequestListParams) []store.ListOption {
	var opts []store.ListOption

	if len(params.Statuses) > 0 {
		opts = append(opts, store.ByStatus(params.Statuses...))
	}
	if len(params.Paths) > 0 {
		opts = append(opts, store.ByPath(params.Paths...))
	}
	if len(params.Modes) > 0 {
		opts = append(opts, store.ByMode(params.Modes...))
	}
	if params.Limit > 0 {
		opts = append(opts, store.WithLimit(params.Limit))
	}
	if params.Offset > 0 {
		opts = append(opts, store.WithOffset(params.Offset))
	}

	return opts
}
