// Package kintone is a small REST client for the business database apps
// that mirror the production board.
package kintone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Leganyst/production-board/internal/config"
)

// pageSize is the largest page records.json returns.
const pageSize = 500

var ErrNotConfigured = errors.New("kintone is not configured")

// App selects which credentials a call uses.
type App int

const (
	AppSchedule App = iota
	// AppMemo holds sticky notes and shapes when a separate app is configured.
	AppMemo
)

// APIError is the error body returned by the REST API.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("kintone returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("kintone returned status %d (%s): %s", e.Status, e.Code, e.Message)
}

type Client struct {
	baseURL string
	cfg     config.KintoneConfig
	client  *http.Client
}

func NewClient(cfg config.KintoneConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: fmt.Sprintf("https://%s.cybozu.com/k/v1", cfg.Subdomain),
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
	}
}

// WithBaseURL points the client at another endpoint, e.g. a test server.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

func (c *Client) credentials(app App) (int, string) {
	if app == AppMemo {
		return c.cfg.MemoCredentials()
	}
	return c.cfg.AppID, c.cfg.APIToken
}

type recordsResponse struct {
	Records []Record `json:"records"`
}

// GetRecords returns every record matching query, paging by record id.
func (c *Client) GetRecords(ctx context.Context, app App, query string) ([]Record, error) {
	appID, _ := c.credentials(app)
	var (
		all  []Record
		last uint
	)
	for {
		cond := fmt.Sprintf("$id > %d", last)
		if query != "" {
			cond = fmt.Sprintf("(%s) and %s", query, cond)
		}
		params := url.Values{}
		params.Set("app", strconv.Itoa(appID))
		params.Set("query", fmt.Sprintf("%s order by $id asc limit %d", cond, pageSize))

		var resp recordsResponse
		if err := c.do(ctx, app, http.MethodGet, "/records.json?"+params.Encode(), nil, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Records...)
		if len(resp.Records) < pageSize {
			return all, nil
		}
		id, ok := resp.Records[len(resp.Records)-1].ID()
		if !ok || id <= last {
			return all, nil
		}
		last = id
	}
}

// AddRecord creates a record and returns its id.
func (c *Client) AddRecord(ctx context.Context, app App, rec Record) (uint, error) {
	appID, _ := c.credentials(app)
	body := map[string]any{"app": appID, "record": rec}

	var resp struct {
		ID       string `json:"id"`
		Revision string `json:"revision"`
	}
	if err := c.do(ctx, app, http.MethodPost, "/record.json", body, &resp); err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(resp.ID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse created record id %q: %w", resp.ID, err)
	}
	return uint(id), nil
}

// UpdateRecord overwrites the given fields of record id.
func (c *Client) UpdateRecord(ctx context.Context, app App, id uint, rec Record) error {
	appID, _ := c.credentials(app)
	body := map[string]any{"app": appID, "id": id, "record": rec}
	return c.do(ctx, app, http.MethodPut, "/record.json", body, nil)
}

// DeleteRecord removes record id.
func (c *Client) DeleteRecord(ctx context.Context, app App, id uint) error {
	appID, _ := c.credentials(app)
	body := map[string]any{"app": appID, "ids": []uint{id}}
	return c.do(ctx, app, http.MethodDelete, "/records.json", body, nil)
}

func (c *Client) do(ctx context.Context, app App, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	_, token := c.credentials(app)
	req.Header.Set("X-Cybozu-API-Token", token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("kintone %s %s: %w", method, strings.SplitN(path, "?", 2)[0], err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = string(raw)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
