package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"formulary/internal/catalog"
	applog "formulary/internal/log"
	"formulary/internal/metrics"
)

// Config describes how the catalog client should be initialised.
type Config struct {
	BaseURL string
	// Timeout bounds each request. Zero leaves requests unbounded.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the remote catalog service over HTTP and JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a Client. An empty BaseURL is allowed; every read then
// fails with ErrBaseURLMissing.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: httpClient,
	}
}

// Configured reports whether a base address is set.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

// BaseURL returns the normalised service address.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// Get issues one GET for path and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, out any, status StatusMessage) error {
	if !c.Configured() {
		return ErrBaseURLMissing
	}
	if status == nil {
		status = ListStatus
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	applog.Debug(ctx, "catalog request", "method", req.Method, "url", req.URL.String())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode, Message: status(resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// LinkFormulas associates formulaIDs with the application. Duplicate ids are
// dropped; existence of either side is left to the service.
func (c *Client) LinkFormulas(ctx context.Context, applicationID int, formulaIDs []int) (err error) {
	defer func() { metrics.ObserveLink(err == nil) }()

	if applicationID <= 0 {
		return MissingInput("Application ID is missing.")
	}
	if !c.Configured() {
		return ErrBaseURLMissing
	}

	body, err := json.Marshal(catalog.LinkRequest{FormulaIDs: UniqueIDs(formulaIDs)})
	if err != nil {
		return err
	}

	url := c.baseURL + "/api/applications/" + strconv.Itoa(applicationID) + "/link-formulas"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	applog.Debug(ctx, "catalog link request", "applicationID", applicationID, "formulas", len(formulaIDs))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Code:    resp.StatusCode,
			Message: fmt.Sprintf("Linking formulas failed (HTTP %d)", resp.StatusCode),
		}
	}
	return nil
}

// UniqueIDs drops repeated ids, keeping the order of first appearance.
func UniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
