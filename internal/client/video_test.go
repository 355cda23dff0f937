package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/vidfeed/internal/domain"
)

// newFakeAPI builds a routed fake of the video API.
func newFakeAPI(t *testing.T) (*gin.Engine, VideoService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return router, NewVideoService(NewClient(srv.URL, zerolog.Nop()))
}

func TestVideoServiceList(t *testing.T) {
	router, videos := newFakeAPI(t)
	router.GET("/api/videos", func(c *gin.Context) {
		c.JSON(http.StatusOK, []domain.VideoRecord{
			{ID: 1, Title: "first", Status: domain.VideoReady, SizeBytes: 2048, CreatedAt: 1700000000},
			{ID: 2, Title: "second", Status: domain.VideoUploading},
		})
	})

	got, err := videos.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, domain.VideoReady, got[0].Status)
	assert.Equal(t, "second", got[1].Title)
}

func TestVideoServiceDetail(t *testing.T) {
	router, videos := newFakeAPI(t)
	router.GET("/api/videos/:id", func(c *gin.Context) {
		if c.Param("id") != "5" {
			c.JSON(http.StatusNotFound, domain.ErrorEnvelope{
				Error: &domain.APIError{Code: domain.ErrCodeVideoNotFound, Message: "video not found"},
			})
			return
		}
		c.JSON(http.StatusOK, domain.VideoDetail{
			VideoRecord: domain.VideoRecord{ID: 5, Title: "demo", Status: domain.VideoReady},
			ManifestURL: "http://example.test/media/5/index.m3u8",
		})
	})

	detail, err := videos.Detail(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/media/5/index.m3u8", detail.ManifestURL)
	assert.True(t, detail.Playable())

	_, err = videos.Detail(context.Background(), 6)
	apiErr := apiErrorFrom(t, err)
	assert.Equal(t, domain.ErrCodeVideoNotFound, apiErr.Code)
}

func TestVideoServiceDelete(t *testing.T) {
	router, videos := newFakeAPI(t)
	router.DELETE("/api/videos/:id", func(c *gin.Context) {
		if c.Param("id") == "3" {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusInternalServerError, domain.ErrorEnvelope{
			Error: &domain.APIError{Code: domain.ErrCodeStorageIO, Message: "delete failed"},
		})
	})

	require.NoError(t, videos.Delete(context.Background(), 3))

	err := videos.Delete(context.Background(), 4)
	apiErr := apiErrorFrom(t, err)
	assert.Equal(t, domain.ErrCodeStorageIO, apiErr.Code)
	assert.Equal(t, "delete failed", apiErr.Message)
}
