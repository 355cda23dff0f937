package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"alcyxob/vidfeed/internal/domain"
)

// Client issues requests against the video API and normalizes every outcome
// into either response bytes or a *domain.APIError. Nothing above this
// boundary ever observes a raw transport error.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates an API client for the given base URL.
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No client-side timeout: a hung request leaves its caller pending
		// indefinitely. Cancellation, when wanted, comes through ctx.
		httpClient: &http.Client{},
		logger:     logger.With().Str("component", "api_client").Logger(),
	}
}

// do performs exactly one request, no retries. A 204 resolves to nil bytes.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, networkError(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(err)
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		text := strings.TrimSpace(string(data))
		if text == "" {
			text = "non-JSON response"
		}
		return nil, &domain.APIError{Code: domain.ErrCodeInvalidResponse, Message: text}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeErrorEnvelope(data)
		c.logger.Debug().Int("status", resp.StatusCode).Str("path", path).
			Str("code", apiErr.Code).Msg("api error")
		return nil, apiErr
	}

	return data, nil
}

// getJSON issues a GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		// A parse failure on a success body is a transport-layer exception.
		return networkError(err)
	}
	return nil
}

// decodeErrorEnvelope surfaces a well-formed {"error": {...}} body as-is,
// substituting the generic UNKNOWN failure otherwise.
func decodeErrorEnvelope(data []byte) *domain.APIError {
	var env domain.ErrorEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Error != nil && env.Error.Code != "" {
		return env.Error
	}
	return &domain.APIError{Code: domain.ErrCodeUnknown, Message: "request failed"}
}

func networkError(err error) *domain.APIError {
	msg := "network request failed"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &domain.APIError{Code: domain.ErrCodeNetwork, Message: msg}
}

func isJSON(contentType string) bool {
	return strings.Contains(contentType, "application/json")
}
