package domain

import "errors"

// Machine-readable error codes shared with the video API. The server emits
// the same identifiers, so the client surfaces them verbatim.
const (
	ErrCodeVideoNotFound    = "VIDEO_NOT_FOUND"
	ErrCodeNetwork          = "NETWORK_ERROR"
	ErrCodeInvalidMediaType = "INVALID_MEDIA_TYPE"
	ErrCodeUploadTooLarge   = "UPLOAD_TOO_LARGE"
	ErrCodeStorageIO        = "STORAGE_IO_ERROR"
	ErrCodeHLSNotReady      = "HLS_NOT_READY"
	ErrCodeInvalidResponse  = "INVALID_RESPONSE"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeUnknown          = "UNKNOWN"
)

// APIError is the single error shape that leaves the transport boundary.
// Code is a stable identifier, Message is the user-facing text.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

// ErrorEnvelope is the wire shape used by the API for failures:
// {"error": {"code": "...", "message": "..."}}.
type ErrorEnvelope struct {
	Error *APIError `json:"error"`
}

// AsAPIError reports whether err carries an *APIError anywhere in its chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr != nil {
		return apiErr, true
	}
	return nil, false
}

// ErrorMessage extracts the user-facing message from err, substituting
// fallback when the error is not a well-formed APIError or has no message.
func ErrorMessage(err error, fallback string) string {
	if apiErr, ok := AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
