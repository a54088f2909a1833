package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseBytes caps how much of an upstream body is buffered.
const maxResponseBytes = 32 << 20

// Client performs single generateContent and models calls against one base
// address at a time. It never retries; fallback across addresses is the
// caller's decision.
type Client struct {
	// httpClient is the HTTP client with connection pooling
	httpClient *http.Client
}

// NewClient creates a Client. A nil httpClient gets a pooled transport with
// no overall timeout; callers bound each call through the context.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
		}
	}
	return &Client{httpClient: httpClient}
}

// GenerateURL builds {base}/models/{model}:generateContent?key={key}.
func GenerateURL(base, model, key string) string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(base, "/"), url.PathEscape(model), url.QueryEscape(key))
}

// GenerateContent posts req to base for model and returns the raw response
// body on a 2xx status. Failures are *StatusError, *TransportError or
// *RequestError.
func (c *Client) GenerateContent(ctx context.Context, base, model, key string, req *GenerateRequest) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &RequestError{Op: "marshal request", Cause: err}
	}
	return c.do(ctx, http.MethodPost, GenerateURL(base, model, key), body)
}

// ListModels returns every model visible to key at base, following
// pagination.
func (c *Client) ListModels(ctx context.Context, base, key string) ([]Model, error) {
	var models []Model
	pageToken := ""
	for {
		target := fmt.Sprintf("%s/models?key=%s&pageSize=1000", strings.TrimRight(base, "/"), url.QueryEscape(key))
		if pageToken != "" {
			target += "&pageToken=" + url.QueryEscape(pageToken)
		}

		raw, err := c.do(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}

		var page listModelsResponse
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, &RequestError{Op: "decode models response", Cause: err}
		}
		models = append(models, page.Models...)

		if page.NextPageToken == "" {
			return models, nil
		}
		pageToken = page.NextPageToken
	}
}

func (c *Client) do(ctx context.Context, method, target string, body []byte) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, &RequestError{Op: "create request", Cause: redactErr(err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	redacted := RedactURL(target)
	slog.DebugContext(ctx, "sending request to upstream",
		"method", method,
		"url", redacted,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: redacted, Cause: redactErr(err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{URL: redacted, Cause: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}

	return nil, &StatusError{
		StatusCode: resp.StatusCode,
		Message:    errorMessage(raw),
		Body:       raw,
	}
}

// errorMessage pulls error.message out of an upstream failure body.
func errorMessage(raw []byte) string {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil {
		return ""
	}
	return eb.Error.Message
}

// RedactURL replaces the key query parameter so a URL can be logged.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "[unparseable url]"
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// redactErr strips the request URL out of *url.Error values, which embed it
// verbatim in their message.
func redactErr(err error) error {
	if ue, ok := err.(*url.Error); ok {
		return &url.Error{Op: ue.Op, URL: RedactURL(ue.URL), Err: ue.Err}
	}
	return err
}
