// Package client executes single HTTP requests for the flow engine. It wraps
// resty with the URL resolution, body serialization, timeout handling, and
// error classification the engine needs. Cookies persist across requests made
// through one Client, spanning a flow invocation.
package client

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Request describes one HTTP request to execute.
type Request struct {
	Method  string
	URL     string
	BaseURL string
	Headers map[string]string
	Body    any // string sent raw, mapping/sequence sent as JSON, nil omitted
	Timeout time.Duration
}

// Response is the observed outcome of a completed request. A non-2xx status
// is still a Response, not an error.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Elapsed    time.Duration
}

// Client executes requests with a shared cookie jar.
type Client struct {
	rc *resty.Client
}

// New returns a Client with a fresh cookie jar.
func New() *Client {
	jar, _ := cookiejar.New(nil)
	rc := resty.New().SetCookieJar(jar)
	return &Client{rc: rc}
}

// ResolveURL joins a step URL to the base URL. Absolute URLs pass through
// untouched; otherwise base and path join with exactly one slash.
func ResolveURL(baseURL, url string) string {
	if strings.HasPrefix(url, "http") {
		return url
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(url, "/")
}

// Do executes the request and returns the observed response. Transport
// failures return a *RequestError carrying the classified kind.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	url := ResolveURL(req.BaseURL, req.URL)

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	r := c.rc.R().SetContext(ctx).SetHeaders(req.Headers)
	r = setBody(r, req.Body)

	start := time.Now()
	resp, err := r.Execute(req.Method, url)
	elapsed := time.Since(start)
	if err != nil {
		return nil, &RequestError{Kind: Classify(err), URL: url, Err: err}
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Headers:    resp.Header(),
		Body:       resp.Body(),
		Elapsed:    elapsed,
	}, nil
}

func setBody(r *resty.Request, body any) *resty.Request {
	switch b := body.(type) {
	case nil:
		return r
	case string:
		return r.SetBody(b)
	case map[string]any, []any:
		return r.SetHeader("Content-Type", "application/json").SetBody(b)
	default:
		return r.SetBody(b)
	}
}
