// Package rowstore is the HTTP client for the hosted row-store provider.
// The provider is treated as opaque: JSON rows in named collections, with
// built-in auth sessions, per-field equality filters and limit/offset
// pagination. It offers no multi-row transactions; repositories layered on
// top own their retry and reconciliation policies, so this client does not
// retry on its own.
package rowstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"wishlink/internal/infra"
	"wishlink/internal/pkg/config"
)

// Logical collection names; the configured prefix is applied on every call.
const (
	CollectionWishlists    = "wishlists"
	CollectionItems        = "wishlist_items"
	CollectionTransactions = "transactions"
	CollectionUsers        = "users"
)

type Client struct {
	baseURL    string
	apiKey     string
	prefix     string
	httpClient *http.Client
}

func New(cfg config.ProviderConfig) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		prefix:  cfg.CollectionPrefix,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
	}
}

// Query describes a list request: per-field equality filters plus
// limit/offset pagination.
type Query struct {
	Filters map[string]string
	OrderBy string
	Limit   int
	Offset  int
}

func (q Query) values() url.Values {
	v := url.Values{}
	for field, value := range q.Filters {
		v.Set(field, value)
	}
	if q.OrderBy != "" {
		v.Set("order", q.OrderBy)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v
}

type listEnvelope struct {
	Rows json.RawMessage `json:"rows"`
}

// Get fetches a single row by id. A provider 404 surfaces as KindNotFound.
func (c *Client) Get(ctx context.Context, collection, id string, out any) error {
	return c.do(ctx, http.MethodGet, c.rowPath(collection, id), nil, nil, out)
}

// List fetches rows matching the query into out (a pointer to a slice).
func (c *Client) List(ctx context.Context, collection string, q Query, out any) error {
	var envelope listEnvelope
	if err := c.do(ctx, http.MethodGet, c.collectionPath(collection), q.values(), nil, &envelope); err != nil {
		return err
	}
	if envelope.Rows == nil {
		envelope.Rows = json.RawMessage("[]")
	}
	if err := json.Unmarshal(envelope.Rows, out); err != nil {
		return infra.WrapRepoErr(infra.KindProviderFailure, "malformed list response", err)
	}
	return nil
}

// Upsert writes a full row under the given id, creating or replacing it.
func (c *Client) Upsert(ctx context.Context, collection, id string, row any) error {
	return c.do(ctx, http.MethodPut, c.rowPath(collection, id), nil, row, nil)
}

// Update patches fields of an existing row. Absent rows are KindNotFound.
func (c *Client) Update(ctx context.Context, collection, id string, patch any) error {
	return c.do(ctx, http.MethodPatch, c.rowPath(collection, id), nil, patch, nil)
}

// Delete removes a row. Absent rows are KindNotFound; callers that want
// idempotent deletes suppress that kind.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	return c.do(ctx, http.MethodDelete, c.rowPath(collection, id), nil, nil, nil)
}

func (c *Client) collectionPath(collection string) string {
	return "/v1/collections/" + url.PathEscape(c.prefix+collection) + "/rows"
}

func (c *Client) rowPath(collection, id string) string {
	return c.collectionPath(collection) + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return infra.WrapRepoErr(infra.KindProviderFailure, "encode request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return infra.WrapRepoErr(infra.KindProviderFailure, "create request", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return infra.WrapRepoErr(infra.KindProviderFailure, "provider request failed", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return infra.WrapRepoErr(infra.KindProviderFailure, "decode response body", err)
		}
	}
	return nil
}

func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := fmt.Sprintf("provider returned %d: %s", resp.StatusCode, string(snippet))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return infra.WrapRepoErr(infra.KindNotFound, msg, nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return infra.WrapRepoErr(infra.KindUnauthorized, msg, nil)
	case resp.StatusCode == http.StatusConflict:
		return infra.WrapRepoErr(infra.KindConflict, msg, nil)
	default:
		return infra.WrapRepoErr(infra.KindProviderFailure, msg, nil)
	}
}
