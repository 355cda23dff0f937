package main

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"alcyxob/vidfeed/internal/domain"
)

// stubManifest is the playlist served for every READY video. Good enough
// for clients that validate the manifest; there is no real media behind it.
const stubManifest = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:4
#EXT-X-MEDIA-SEQUENCE:0
#EXTINF:4.0,
segment0.ts
#EXT-X-ENDLIST
`

type videoHandler struct {
	store    *memoryStore
	maxBytes int64
	logger   zerolog.Logger
}

func newVideoHandler(store *memoryStore, maxBytes int64, logger zerolog.Logger) *videoHandler {
	return &videoHandler{store: store, maxBytes: maxBytes, logger: logger}
}

func (h *videoHandler) register(r *gin.Engine) {
	r.GET("/api/videos", h.listVideos)
	r.GET("/api/videos/:id", h.getVideo)
	r.DELETE("/api/videos/:id", h.deleteVideo)
	r.POST("/api/videos", h.uploadVideo)
	r.GET("/media/:key/index.m3u8", h.getManifest)
}

func (h *videoHandler) listVideos(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.list())
}

func (h *videoHandler) getVideo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abortWithAPIError(c, http.StatusNotFound, domain.ErrCodeVideoNotFound, "video not found")
		return
	}
	detail, ok := h.store.get(id)
	if !ok {
		abortWithAPIError(c, http.StatusNotFound, domain.ErrCodeVideoNotFound, "video not found")
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *videoHandler) deleteVideo(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || !h.store.delete(id) {
		abortWithAPIError(c, http.StatusNotFound, domain.ErrCodeVideoNotFound, "video not found")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *videoHandler) uploadVideo(c *gin.Context) {
	title := c.PostForm("title")
	if title == "" {
		abortWithAPIError(c, http.StatusBadRequest, domain.ErrCodeValidation, "title is required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithAPIError(c, http.StatusBadRequest, domain.ErrCodeValidation, "file is required")
		return
	}
	if !domain.IsMP4(fileHeader.Header.Get("Content-Type")) {
		abortWithAPIError(c, http.StatusBadRequest, domain.ErrCodeInvalidMediaType, "only MP4 uploads are accepted")
		return
	}
	if h.maxBytes > 0 && fileHeader.Size > h.maxBytes {
		abortWithAPIError(c, http.StatusRequestEntityTooLarge, domain.ErrCodeUploadTooLarge, "file exceeds the upload size limit")
		return
	}

	// Drain the part to count the actual bytes; nothing is stored.
	part, err := fileHeader.Open()
	if err != nil {
		abortWithAPIError(c, http.StatusInternalServerError, domain.ErrCodeStorageIO, "failed to read upload")
		return
	}
	defer part.Close()
	size, err := io.Copy(io.Discard, part)
	if err != nil {
		abortWithAPIError(c, http.StatusInternalServerError, domain.ErrCodeStorageIO, "failed to read upload")
		return
	}

	video := h.store.add(title, size)
	h.logger.Info().Int64("videoId", video.ID).Str("title", title).Int64("size", size).Msg("upload accepted")
	c.JSON(http.StatusCreated, video)
}

func (h *videoHandler) getManifest(c *gin.Context) {
	if !h.store.manifestReady(c.Param("key")) {
		abortWithAPIError(c, http.StatusNotFound, domain.ErrCodeHLSNotReady, "manifest not available")
		return
	}
	c.Data(http.StatusOK, "application/vnd.apple.mpegurl", []byte(stubManifest))
}

func abortWithAPIError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, domain.ErrorEnvelope{
		Error: &domain.APIError{Code: code, Message: message},
	})
}

// requestLogger is a minimal zerolog access-log middleware.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}
