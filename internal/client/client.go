// Package client talks to a running patient record service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"patient-records/internal/models"
	"patient-records/internal/service"

	"github.com/hashicorp/go-retryablehttp"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Detail)
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a client that retries connection failures and, for GET and
// DELETE only, 5xx responses.
func New(baseURL string) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 100 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.Logger = nil
	retryClient.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	// Hand the final response back instead of a generic "giving up" error,
	// so the service's detail message reaches the caller.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.CheckRetry = retryIdempotent

	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: retryClient.StandardClient(),
	}
}

// retryIdempotent never repeats a create or edit the server has answered.
func retryIdempotent(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if resp != nil && resp.Request != nil {
		switch resp.Request.Method {
		case http.MethodGet, http.MethodDelete:
		default:
			return false, nil
		}
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// List returns the full collection keyed by patient ID.
func (c *Client) List(ctx context.Context) (models.Collection, error) {
	var out models.Collection
	err := c.do(ctx, http.MethodGet, "/view", nil, &out)
	return out, err
}

func (c *Client) Get(ctx context.Context, id string) (models.Record, error) {
	var out models.Record
	err := c.do(ctx, http.MethodGet, "/patient/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) Sort(ctx context.Context, sortBy, order string) ([]models.Record, error) {
	q := url.Values{}
	q.Set("sort_by", sortBy)
	if order != "" {
		q.Set("order", order)
	}
	var out []models.Record
	err := c.do(ctx, http.MethodGet, "/sort?"+q.Encode(), nil, &out)
	return out, err
}

func (c *Client) Create(ctx context.Context, p models.Patient) error {
	return c.do(ctx, http.MethodPost, "/create", p, nil)
}

func (c *Client) Update(ctx context.Context, id string, patch models.PatientUpdate) error {
	return c.do(ctx, http.MethodPut, "/edit/"+url.PathEscape(id), patch, nil)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/delete/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Stats(ctx context.Context) (service.Summary, error) {
	var out service.Summary
	err := c.do(ctx, http.MethodGet, "/stats", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, response any) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Detail: detailOf(bodyBytes)}
	}

	if response != nil {
		if err := json.Unmarshal(bodyBytes, response); err != nil {
			return fmt.Errorf("failed to parse response JSON: %w", err)
		}
	}
	return nil
}

// detailOf extracts the "detail" member of an error body. Validation
// errors carry a list, which is flattened to "field: message" pairs.
func detailOf(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var msg string
	if err := json.Unmarshal(envelope.Detail, &msg); err == nil {
		return msg
	}

	var fields []models.FieldError
	if err := json.Unmarshal(envelope.Detail, &fields); err == nil {
		parts := make([]string, 0, len(fields))
		for _, fe := range fields {
			parts = append(parts, fe.Field+": "+fe.Message)
		}
		return strings.Join(parts, "; ")
	}
	return string(envelope.Detail)
}
