package rev

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Version of the SDK, sent with every request
const Version = "1.0.0"

// API hosts
const (
	// ProductionHost is used by default
	ProductionHost = "www.rev.com"
	// SandboxHost executes operations against the sandbox environment
	SandboxHost = "api-sandbox.rev.com"
)

const (
	basePath  = "/api/v1"
	userAgent = "RevOfficialGoSDK/" + Version
)

// Client talks to the order API. It holds only immutable configuration,
// one instance may be shared by concurrent callers
type Client struct {
	httpclient *http.Client
	baseURL    string
	authHeader string
}

// NewClient creates a client for the given host using the client and user API keys.
// Empty host selects production
func NewClient(clientAPIKey, userAPIKey, host string) (*Client, error) {
	if host == "" {
		host = ProductionHost
	}
	return NewClientWithURL(clientAPIKey, userAPIKey, "https://"+host+basePath)
}

// NewClientWithURL creates a client for a full base URL,
// e.g. a locally running API emulator
func NewClientWithURL(clientAPIKey, userAPIKey, url string) (*Client, error) {
	if clientAPIKey == "" {
		return nil, fmt.Errorf("no clientAPIKey")
	}
	if userAPIKey == "" {
		return nil, fmt.Errorf("no userAPIKey")
	}
	if !strings.HasPrefix(url, "http") {
		return nil, fmt.Errorf("no http(s) in url")
	}
	res := &Client{}
	res.httpclient = newHTTPClient()
	res.baseURL = strings.TrimSuffix(url, "/")
	res.authHeader = fmt.Sprintf("Rev %s:%s", clientAPIKey, userAPIKey)
	return res, nil
}

func (c *Client) invoke(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("can't call '%s': %w", req.URL.String(), err)
	}
	return resp, nil
}

// getJSON makes a GET call and decodes a 200 response into v
func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.invoke(req)
	if err != nil {
		return err
	}
	defer drainClose(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return mapError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("can't unmarshal response: %w", err)
	}
	return nil
}

// postExpect makes a POST call and checks the status against accepted codes,
// returning the response for header extraction. Callers own the body
func (c *Client) postExpect(ctx context.Context, path string, headers map[string]string, body io.Reader,
	contentLength int64, accepted ...int) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentLength > 0 {
		req.ContentLength = contentLength
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.invoke(req)
	if err != nil {
		return nil, err
	}
	for _, code := range accepted {
		if resp.StatusCode == code {
			return resp, nil
		}
	}
	defer drainClose(resp.Body)
	return nil, mapError(resp)
}

func drainClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 10000))
	_ = body.Close()
}

func isTextual(mimeType string) bool {
	return strings.HasPrefix(mimeType, "text/")
}

func newHTTPClient() *http.Client {
	return &http.Client{Transport: newTransport()}
}

func newTransport() http.RoundTripper {
	// default roundripper is not well suited for our case
	// it has just 2 idle connections per host, so try to tune a bit
	res := http.DefaultTransport.(*http.Transport).Clone()
	res.MaxConnsPerHost = 100
	res.MaxIdleConns = 50
	res.MaxIdleConnsPerHost = 50
	res.IdleConnTimeout = 90 * time.Second
	return res
}
