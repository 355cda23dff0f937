package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/rs/zerolog"

	"alcyxob/vidfeed/internal/domain"
)

// ProgressFunc receives the transfer percentage (0..100) while the request
// body is being sent. It is never called after the upload resolves.
type ProgressFunc func(percent int)

// UploadFile describes the file handed to Upload. Size <= 0 means the total
// is unknown, which suppresses progress reporting.
type UploadFile struct {
	Name        string
	Size        int64
	ContentType string
	Reader      io.Reader
}

// UploadService performs the single-request multipart upload. It is built
// separately from Client because it needs byte-level progress events.
type UploadService interface {
	Upload(ctx context.Context, file UploadFile, title string, onProgress ProgressFunc) (*domain.VideoRecord, error)
}

type uploadService struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewUploadService creates the upload transport for the given API base URL.
func NewUploadService(baseURL string, logger zerolog.Logger) UploadService {
	return &uploadService{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Same contract as the plain transport: no timeout, one attempt.
		httpClient: &http.Client{},
		logger:     logger.With().Str("component", "upload_client").Logger(),
	}
}

// Upload POSTs the file and title as multipart form data. Exactly one
// network attempt; no chunking, no resume.
//
// A 201 with an unparseable body fails with INVALID_RESPONSE rather than
// UNKNOWN: the server already committed the upload but the client cannot
// confirm it, and callers must be able to tell that ambiguity apart from an
// ordinary rejection. Reconciling it (e.g. a follow-up query by title) is a
// known gap, deliberately not attempted here.
func (s *uploadService) Upload(ctx context.Context, file UploadFile, title string, onProgress ProgressFunc) (*domain.VideoRecord, error) {
	src := file.Reader
	if file.Size > 0 && onProgress != nil {
		src = &progressReader{r: file.Reader, total: file.Size, report: onProgress, last: -1}
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		hdr := textproto.MIMEHeader{}
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
		if file.ContentType != "" {
			hdr.Set("Content-Type", file.ContentType)
		}
		part, err := mw.CreatePart(hdr)
		if err == nil {
			_, err = io.Copy(part, src)
		}
		if c, ok := file.Reader.(io.Closer); ok {
			c.Close()
		}
		if err == nil {
			err = mw.WriteField("title", title)
		}
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/videos", pr)
	if err != nil {
		return nil, &domain.APIError{Code: domain.ErrCodeNetwork, Message: "network request failed"}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error().Err(err).Str("title", title).Msg("upload request failed")
		return nil, &domain.APIError{Code: domain.ErrCodeNetwork, Message: "network request failed"}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.APIError{Code: domain.ErrCodeNetwork, Message: "network request failed"}
	}

	if resp.StatusCode == http.StatusCreated {
		var video domain.VideoRecord
		if err := json.Unmarshal(data, &video); err != nil {
			return nil, &domain.APIError{Code: domain.ErrCodeInvalidResponse, Message: "invalid response format"}
		}
		s.logger.Info().Int64("videoId", video.ID).Str("title", title).Msg("upload accepted")
		return &video, nil
	}

	var env domain.ErrorEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Error != nil && env.Error.Code != "" {
		return nil, env.Error
	}
	msg := http.StatusText(resp.StatusCode)
	if msg == "" {
		msg = "upload failed"
	}
	return nil, &domain.APIError{Code: domain.ErrCodeUnknown, Message: msg}
}

// progressReader counts file bytes as the transport consumes them and
// reports whole-percent changes. Byte counts only grow, so the reported
// percentage is non-decreasing.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	report ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		pct := int(math.Round(float64(p.read) / float64(p.total) * 100))
		if pct > 100 {
			pct = 100
		}
		if pct != p.last {
			p.last = pct
			p.report(pct)
		}
	}
	return n, err
}
