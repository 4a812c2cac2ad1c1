package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/logger"
)

const (
	apiKeyHeader    = "X-API-Key"
	requestIDHeader = "X-Request-ID"
	userAgent       = "shotctl"
)

// Config holds configuration for the remote screenshot API.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Retries int // applied to idempotent reads only
}

// Client talks to the screenshot service over HTTP.
type Client struct {
	writes *resty.Client
	reads  *resty.Client
	files  *resty.Client // result downloads, sent without the API key
}

// New creates a new API client.
// Parameters:
//   - cfg: API configuration; the key is required.
//
// Returns:
//   - *Client: initialized client.
//   - error: domain.ErrNoAPIKey when no key is configured.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, domain.ErrNoAPIKey
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.allscreenshots.com"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	build := func() *resty.Client {
		c := resty.New()
		c.SetBaseURL(baseURL)
		c.SetHeader(apiKeyHeader, cfg.APIKey)
		c.SetHeader("User-Agent", userAgent)
		// Set timeout to prevent hanging requests
		c.SetTimeout(timeout)
		return c
	}

	reads := build()
	if cfg.Retries > 0 {
		reads.SetRetryCount(cfg.Retries).
			SetRetryWaitTime(500 * time.Millisecond).
			SetRetryMaxWaitTime(5 * time.Second).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return r != nil && r.StatusCode() >= http.StatusInternalServerError
			})
	}

	files := resty.New().
		SetHeader("User-Agent", userAgent).
		SetTimeout(timeout)

	return &Client{writes: build(), reads: reads, files: files}, nil
}

// newRequest prepares a request carrying ctx and a fresh request ID.
func newRequest(ctx context.Context, c *resty.Client) (*resty.Request, string) {
	id := uuid.NewString()
	return c.R().SetContext(ctx).SetHeader(requestIDHeader, id), id
}

// do executes req and returns the raw body of a 2xx response.
func do(ctx context.Context, req *resty.Request, requestID, method, path string) ([]byte, error) {
	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		logger.With(logger.Fields{logger.FieldRequestID: requestID}).
			WithDuration(start).
			Debug(ctx, "%s %s failed: %v", method, path, err)
		return nil, newNetworkError(err, requestID)
	}

	logger.With(logger.Fields{logger.FieldRequestID: requestID}).
		WithDuration(start).
		WithStatus(resp.Status()).
		Debug(ctx, "%s %s", method, path)

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, newStatusError(resp.StatusCode(), resp.Body(), requestID)
	}
	return resp.Body(), nil
}

// call executes a request built by prepare and decodes the JSON answer into
// out when out is not nil.
func call(ctx context.Context, c *resty.Client, method, path string, prepare func(*resty.Request), out interface{}) error {
	r, id := newRequest(ctx, c)
	if prepare != nil {
		prepare(r)
	}
	body, err := do(ctx, r, id, method, path)
	if err != nil || out == nil {
		return err
	}
	return decode(body, out, id)
}

func decode(body []byte, out interface{}, requestID string) error {
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{
			Code:      CodeAPI,
			Message:   fmt.Sprintf("unexpected response body: %v", err),
			RequestID: requestID,
			Err:       err,
		}
	}
	return nil
}

// Screenshot captures a page synchronously and returns the image bytes.
func (c *Client) Screenshot(ctx context.Context, req domain.CaptureRequest) ([]byte, error) {
	r, id := newRequest(ctx, c.writes)
	return do(ctx, r.SetBody(req), id, http.MethodPost, "/v1/screenshots")
}

// CreateJob submits an asynchronous capture.
func (c *Client) CreateJob(ctx context.Context, req domain.CaptureRequest) (*domain.Job, error) {
	r, id := newRequest(ctx, c.writes)
	body, err := do(ctx, r.SetBody(req), id, http.MethodPost, "/v1/screenshots/async")
	if err != nil {
		return nil, err
	}
	var job domain.Job
	if err := decode(body, &job, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJob fetches the current state of a job.
func (c *Client) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	r, id := newRequest(ctx, c.reads)
	body, err := do(ctx, r.SetPathParam("id", jobID), id, http.MethodGet, "/v1/screenshots/jobs/{id}")
	if err != nil {
		return nil, err
	}
	var job domain.Job
	if err := decode(body, &job, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// CancelJob asks the service to cancel a job and returns its resulting state.
func (c *Client) CancelJob(ctx context.Context, jobID string) (*domain.Job, error) {
	r, id := newRequest(ctx, c.writes)
	body, err := do(ctx, r.SetPathParam("id", jobID), id, http.MethodPost, "/v1/screenshots/jobs/{id}/cancel")
	if err != nil {
		return nil, err
	}
	var job domain.Job
	if err := decode(body, &job, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// ListJobs returns recent jobs. The service may answer with a bare array or
// an object wrapping it under "jobs".
func (c *Client) ListJobs(ctx context.Context) ([]domain.Job, error) {
	r, id := newRequest(ctx, c.reads)
	body, err := do(ctx, r, id, http.MethodGet, "/v1/screenshots/jobs")
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var jobs []domain.Job
		if err := decode(body, &jobs, id); err != nil {
			return nil, err
		}
		return jobs, nil
	}
	var wrapped struct {
		Jobs []domain.Job `json:"jobs"`
	}
	if err := decode(body, &wrapped, id); err != nil {
		return nil, err
	}
	return wrapped.Jobs, nil
}

// GetJobResult downloads the image produced by a completed job.
func (c *Client) GetJobResult(ctx context.Context, jobID string) ([]byte, error) {
	r, id := newRequest(ctx, c.reads)
	return do(ctx, r.SetPathParam("id", jobID), id, http.MethodGet, "/v1/screenshots/jobs/{id}/result")
}

// CreateBulkJob submits many URLs as one bulk job.
func (c *Client) CreateBulkJob(ctx context.Context, req domain.BulkRequest) (*domain.BulkJob, error) {
	r, id := newRequest(ctx, c.writes)
	body, err := do(ctx, r.SetBody(req), id, http.MethodPost, "/v1/screenshots/bulk")
	if err != nil {
		return nil, err
	}
	var job domain.BulkJob
	if err := decode(body, &job, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetBulkJob fetches the aggregate state of a bulk job, including its items.
func (c *Client) GetBulkJob(ctx context.Context, bulkID string) (*domain.BulkJob, error) {
	r, id := newRequest(ctx, c.reads)
	body, err := do(ctx, r.SetPathParam("id", bulkID), id, http.MethodGet, "/v1/screenshots/bulk/{id}")
	if err != nil {
		return nil, err
	}
	var job domain.BulkJob
	if err := decode(body, &job, id); err != nil {
		return nil, err
	}
	return &job, nil
}
