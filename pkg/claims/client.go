package claims

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/routes-report/pkg/errors"
	"github.com/angelmondragon/routes-report/pkg/logger"
)

const (
	// DefaultPageSize is the number of claims requested per page.
	DefaultPageSize = 1000

	defaultLanguage             = "en"
	timestampLayout             = "2006-01-02T15:04:05Z07:00"
	responseBodyReadLimit int64 = 1024
)

var (
	errURLRequired        = errors.New("claims api url is required")
	errCredentialRequired = errors.New("claims api credential is required")
)

// Client pages through the claims search endpoint.
type Client struct {
	httpClient *http.Client
	url        string
	pageSize   int
	language   string
	observer   PageObserver
	logg       *logger.Logger
}

// PageStats describes one fetched page.
type PageStats struct {
	Page      int
	Claims    int
	Malformed int
	HasMore   bool
}

// PageObserver is notified after each page is decoded.
type PageObserver func(PageStats)

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithPageSize overrides the page size sent as limit.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithTimeout bounds each page request. Zero keeps the transport default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout, Transport: c.httpClient.Transport}
		}
	}
}

// WithLanguage sets the Accept-Language header.
func WithLanguage(lang string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(lang); trimmed != "" {
			c.language = trimmed
		}
	}
}

func WithPageObserver(observer PageObserver) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logg = logg
	}
}

// NewClient builds a claims client for the search endpoint URL.
func NewClient(url string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return nil, errURLRequired
	}

	client := &Client{
		url:        trimmed,
		httpClient: &http.Client{},
		pageSize:   DefaultPageSize,
		language:   defaultLanguage,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Window is an inclusive range of calendar days on claim creation time.
// From and To carry the client's location; only their dates are used.
type Window struct {
	From time.Time
	To   time.Time
}

// CreatedFrom renders the start of the first day with the zone offset.
func (w Window) CreatedFrom() string {
	y, m, d := w.From.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, w.From.Location()).Format(timestampLayout)
}

// CreatedTo renders the last second of the last day with the zone offset.
func (w Window) CreatedTo() string {
	y, m, d := w.To.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, w.To.Location()).Format(timestampLayout)
}

type searchRequest struct {
	CreatedFrom string `json:"created_from,omitempty"`
	CreatedTo   string `json:"created_to,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Cursor      string `json:"cursor,omitempty"`
}

type searchResponse struct {
	Claims *[]json.RawMessage `json:"claims"`
	Cursor FlexString         `json:"cursor"`
}

// FetchClaims returns every claim created inside the window, in server order.
// Any page failure aborts the fetch; claims that fail to decode are skipped.
func (c *Client) FetchClaims(ctx context.Context, credential string, window Window) ([]Claim, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "claims client not configured")
	}
	if strings.TrimSpace(credential) == "" {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, errCredentialRequired, "claims credential missing")
	}
	if window.To.Before(window.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "claims window ends before it starts")
	}

	req := searchRequest{
		CreatedFrom: window.CreatedFrom(),
		CreatedTo:   window.CreatedTo(),
		Limit:       c.pageSize,
	}

	var all []Claim
	for page := 1; ; page++ {
		resp, err := c.search(ctx, credential, req)
		if err != nil {
			return nil, err
		}

		malformed := 0
		for i, raw := range *resp.Claims {
			var claim Claim
			if err := json.Unmarshal(raw, &claim); err != nil {
				malformed++
				c.warnMalformed(ctx, page, i, err)
				continue
			}
			all = append(all, claim)
		}

		hasMore := !resp.Cursor.Empty()
		if c.observer != nil {
			c.observer(PageStats{
				Page:      page,
				Claims:    len(*resp.Claims) - malformed,
				Malformed: malformed,
				HasMore:   hasMore,
			})
		}
		if !hasMore {
			return all, nil
		}
		// the server keeps the filter context behind the cursor
		req = searchRequest{Cursor: resp.Cursor.String()}
	}
}

func (c *Client) search(ctx context.Context, credential string, body searchRequest) (*searchResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal claims request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build claims request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept-Language", c.language)
	httpReq.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute claims request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "claims request failed")
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode claims response")
	}
	if decoded.Claims == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "claims response missing claims field")
	}
	return &decoded, nil
}

func (c *Client) warnMalformed(ctx context.Context, page, index int, err error) {
	if c.logg == nil {
		return
	}
	ctx = c.logg.WithFields(ctx, map[string]any{
		"page":  page,
		"index": index,
		"error": err.Error(),
	})
	c.logg.Warn(ctx, "claims.malformed_claim_skipped")
}
