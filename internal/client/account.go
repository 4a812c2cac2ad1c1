package client

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/logger"
)

// Compose renders several pages into one stored image.
func (c *Client) Compose(ctx context.Context, req domain.ComposeRequest) (*domain.ComposeResult, error) {
	var res domain.ComposeResult
	err := call(ctx, c.writes, http.MethodPost, "/v1/screenshots/compose", func(r *resty.Request) { r.SetBody(req) }, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Download fetches a stored result by its absolute URL.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	resp, err := c.files.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, newNetworkError(err, "")
	}
	logger.With(logger.Fields{"url": url}).
		WithDuration(start).
		WithStatus(resp.Status()).
		Debug(ctx, "GET result")
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, newStatusError(resp.StatusCode(), resp.Body(), "")
	}
	return resp.Body(), nil
}

// GetUsage returns the account activity report.
func (c *Client) GetUsage(ctx context.Context) (*domain.Usage, error) {
	var u domain.Usage
	if err := call(ctx, c.reads, http.MethodGet, "/v1/usage", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetQuota returns the short quota view.
func (c *Client) GetQuota(ctx context.Context) (*domain.QuotaStatus, error) {
	var q domain.QuotaStatus
	if err := call(ctx, c.reads, http.MethodGet, "/v1/usage/quota", nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}
