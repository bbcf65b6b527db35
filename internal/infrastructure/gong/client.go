package gong

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/felixgeelhaar/gong-mcp/internal/domain/account"
	domain "github.com/felixgeelhaar/gong-mcp/internal/domain/call"
)

const maxErrorBody = 4 << 10

// Client wraps the Gong v2 REST API.
// This is an infrastructure concern; the domain has no knowledge of HTTP.
type Client struct {
	creds      *account.Credentials
	httpClient *http.Client
	userAgent  string
}

func NewClient(creds *account.Credentials, httpClient *http.Client, userAgent string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		creds:      creds,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// ListUsers fetches one page of users. Avatars are never requested.
func (c *Client) ListUsers(ctx context.Context, cursor string) (*UsersResponse, error) {
	params := url.Values{}
	params.Set("includeAvatars", "false")
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	var resp UsersResponse
	if err := c.do(ctx, http.MethodGet, "/v2/users", params, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetTranscripts(ctx context.Context, req TranscriptsRequest) (*TranscriptsResponse, error) {
	var resp TranscriptsResponse
	if err := c.do(ctx, http.MethodPost, "/v2/calls/transcript", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListCallsExtensive(ctx context.Context, req ExtensiveCallsRequest) (*ExtensiveCallsResponse, error) {
	var resp ExtensiveCallsResponse
	if err := c.do(ctx, http.MethodPost, "/v2/calls/extensive", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, target any) error {
	u := c.creds.BaseURL() + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.SetBasicAuth(c.creds.AccessKey(), c.creds.AccessKeySecret())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			// url.Error repeats the full request URL; keep only the cause.
			err = urlErr.Err
		}
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// A 404 keeps its body: callers tell an empty search from a wrong
	// path by it. The APIError still matches domain.ErrNotFound.
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return domain.ErrAccessDenied
	case resp.StatusCode >= 400:
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &domain.APIError{StatusCode: resp.StatusCode}

	var payload ErrorResponse
	if json.Unmarshal(body, &payload) == nil && (len(payload.Errors) > 0 || payload.RequestID != "") {
		apiErr.RequestID = payload.RequestID
		apiErr.Message = strings.Join(payload.Errors, "; ")
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
