// Package client talks to a running apportion server's JSON API.
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

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Apportion/internal/budget"
	"github.com/MikeSquared-Agency/Apportion/internal/chart"
	"github.com/MikeSquared-Agency/Apportion/internal/session"
	"github.com/MikeSquared-Agency/Apportion/internal/store"
)

const sessionHeader = "X-Session-ID"

// StatusError is returned for any response with status >= 400.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("apportion %s %s: %d %s", e.Method, e.Path, e.Code, e.Body)
}

// Chart is the body of GET /api/v1/chart.
type Chart struct {
	Weighted bool          `json:"weighted"`
	Slices   []chart.Slice `json:"slices"`
}

type Client interface {
	CreateSession(ctx context.Context) (*store.Session, error)
	Categories(ctx context.Context, id uuid.UUID) ([]budget.Category, error)
	UpdateRank(ctx context.Context, id uuid.UUID, name string, rank int) ([]budget.Category, error)
	Calculate(ctx context.Context, id uuid.UUID) ([]budget.Category, error)
	Chart(ctx context.Context, id uuid.UUID) (*Chart, error)
	Compute(ctx context.Context, matrix [][]float64) (*session.ComputeResult, error)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) doReq(ctx context.Context, method, path string, id uuid.UUID, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id != uuid.Nil {
		req.Header.Set(sessionHeader, id.String())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (c *HTTPClient) CreateSession(ctx context.Context) (*store.Session, error) {
	var sess store.Session
	if err := c.doReq(ctx, "POST", "/api/v1/sessions", uuid.Nil, nil, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (c *HTTPClient) Categories(ctx context.Context, id uuid.UUID) ([]budget.Category, error) {
	var cats []budget.Category
	if err := c.doReq(ctx, "GET", "/api/v1/categories", id, nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *HTTPClient) UpdateRank(ctx context.Context, id uuid.UUID, name string, rank int) ([]budget.Category, error) {
	var cats []budget.Category
	path := "/api/v1/categories/" + url.PathEscape(name)
	if err := c.doReq(ctx, "PATCH", path, id, map[string]int{"rank": rank}, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *HTTPClient) Calculate(ctx context.Context, id uuid.UUID) ([]budget.Category, error) {
	var cats []budget.Category
	if err := c.doReq(ctx, "POST", "/api/v1/weights/calculate", id, nil, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *HTTPClient) Chart(ctx context.Context, id uuid.UUID) (*Chart, error) {
	var ch Chart
	if err := c.doReq(ctx, "GET", "/api/v1/chart", id, nil, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (c *HTTPClient) Compute(ctx context.Context, matrix [][]float64) (*session.ComputeResult, error) {
	var res session.ComputeResult
	if err := c.doReq(ctx, "POST", "/api/v1/weights/compute", uuid.Nil, map[string][][]float64{"matrix": matrix}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
