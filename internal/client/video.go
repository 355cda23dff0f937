package client

import (
	"context"
	"fmt"
	"net/http"

	"alcyxob/vidfeed/internal/domain"
)

// VideoService exposes the typed operations of the video directory API.
type VideoService interface {
	List(ctx context.Context) ([]domain.VideoRecord, error)
	Detail(ctx context.Context, id int64) (*domain.VideoDetail, error)
	Delete(ctx context.Context, id int64) error
}

type videoService struct {
	api *Client
}

// NewVideoService creates a directory client on top of the transport.
func NewVideoService(api *Client) VideoService {
	return &videoService{api: api}
}

func (s *videoService) List(ctx context.Context) ([]domain.VideoRecord, error) {
	var videos []domain.VideoRecord
	if err := s.api.getJSON(ctx, "/api/videos", &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (s *videoService) Detail(ctx context.Context, id int64) (*domain.VideoDetail, error) {
	var detail domain.VideoDetail
	if err := s.api.getJSON(ctx, fmt.Sprintf("/api/videos/%d", id), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *videoService) Delete(ctx context.Context, id int64) error {
	_, err := s.api.do(ctx, http.MethodDelete, fmt.Sprintf("/api/videos/%d", id), nil, "")
	return err
}
