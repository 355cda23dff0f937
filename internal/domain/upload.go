package domain

import (
	"errors"
	"mime"
	"strings"
)

// UploadStatus is the client-side lifecycle state of an upload attempt.
type UploadStatus string

const (
	UploadStatusUploading UploadStatus = "uploading"
	// UploadStatusSuccess is transient: a successful attempt is removed from
	// the collection, so at rest only uploading and failed are observable.
	UploadStatusSuccess UploadStatus = "success"
	UploadStatusFailed  UploadStatus = "failed"
)

// MaxUploadSizeBytes is the advisory client-side size cap (5 GiB). It
// mirrors server-side validation and is not a substitute for it.
const MaxUploadSizeBytes int64 = 5 << 30

// UploadAttempt is one user-initiated upload still tracked client-side.
// ID is locally generated and unrelated to the server's video id. Attempts
// are owned exclusively by the upload manager's collection.
type UploadAttempt struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Progress int          `json:"progress"` // 0..100
	Status   UploadStatus `json:"status"`
	Error    string       `json:"error,omitempty"` // set only when Status is failed
}

// --- Upload Guard Errors ---
var (
	ErrEmptyTitle   = errors.New("title must not be empty")
	ErrNotMP4       = errors.New("file must be an MP4 video")
	ErrFileTooLarge = errors.New("file exceeds the upload size limit")
)

// ValidateUpload applies the client-side guards checked before any request
// is sent: non-empty title, MP4 media type, size within maxBytes (the
// default cap when maxBytes <= 0).
func ValidateUpload(title, contentType string, sizeBytes, maxBytes int64) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if !IsMP4(contentType) {
		return ErrNotMP4
	}
	if maxBytes <= 0 {
		maxBytes = MaxUploadSizeBytes
	}
	if sizeBytes > maxBytes {
		return ErrFileTooLarge
	}
	return nil
}

// IsMP4 reports whether the media type indicates an MP4 container.
func IsMP4(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt == "video/mp4"
}
