// Package providerhttp implements the Provider Endpoint Invoker (C3):
// render an endpoint descriptor against a context via internal/template,
// perform the HTTP call with retry/backoff, and classify the response.
package providerhttp

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

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	dberrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/template"
	"github.com/smplat/fulfillment/internal/types"
)

const (
	defaultTimeout        = 8 * time.Second
	defaultBalanceTimeout = 10 * time.Second
	previewLimit          = 512
)

// RetryConfig configures the backoff applied around a single endpoint
// call, mirroring internal/client/http's RetryConfig shape.
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxElapsedTime  time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
		MaxElapsedTime:  30 * time.Second,
	}
}

// Invoker performs HTTP calls against provider endpoint descriptors.
type Invoker struct {
	httpClient *http.Client
	retry      RetryConfig
}

type Option func(*Invoker)

func WithHTTPClient(c *http.Client) Option {
	return func(i *Invoker) { i.httpClient = c }
}

func WithRetryConfig(cfg RetryConfig) Option {
	return func(i *Invoker) { i.retry = cfg }
}

func New(opts ...Option) *Invoker {
	inv := &Invoker{
		httpClient: &http.Client{},
		retry:      DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Result is the outcome of a single endpoint invocation.
type Result struct {
	StatusCode       int
	JSON             map[string]any
	TextPreview      string
	ProviderOrderID  string
}

// Invoke renders endpoint against ctx, performs the call, and classifies
// the response per spec.md §4.2. kind selects the default timeout
// ("balance" gets the longer default; everything else gets the shorter
// one) when the descriptor doesn't set timeoutSeconds itself.
func (i *Invoker) Invoke(ctx context.Context, endpoint types.Endpoint, renderCtx map[string]any, kind string) (*Result, error) {
	method := strings.ToUpper(endpoint.Method)
	if method == "" {
		method = http.MethodPost
	}

	renderedURL, err := renderString(endpoint.URL, renderCtx)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{}
	if endpoint.Headers != nil {
		node := template.Parse(toAny(endpoint.Headers))
		rendered, err := template.Render(node, renderCtx)
		if err != nil {
			return nil, err
		}
		if m, ok := rendered.(map[string]any); ok {
			for k, v := range m {
				headers[k] = fmt.Sprintf("%v", v)
			}
		}
	}

	var bodyReader io.Reader
	var isJSONBody bool
	if endpoint.Payload != nil {
		node := template.Parse(endpoint.Payload)
		rendered, err := template.Render(node, renderCtx)
		if err != nil {
			return nil, err
		}
		switch rendered.(type) {
		case map[string]any, []any:
			b, merr := json.Marshal(rendered)
			if merr != nil {
				return nil, dberrors.Wrap(merr, "marshal rendered payload")
			}
			bodyReader = bytes.NewReader(b)
			isJSONBody = true
		case nil:
			// no body
		default:
			bodyReader = strings.NewReader(fmt.Sprintf("%v", rendered))
		}
	}

	timeout := defaultTimeoutFor(kind)
	if endpoint.TimeoutSeconds != nil {
		timeout = time.Duration(*endpoint.TimeoutSeconds) * time.Second
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, method, renderedURL, bodyReader)
	if err != nil {
		return nil, dberrors.Wrap(err, "build provider request")
	}
	if isJSONBody {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	var resp *http.Response
	operation := func() error {
		var doErr error
		resp, doErr = i.httpClient.Do(req)
		if doErr != nil {
			return doErr
		}
		if isRetryableStatus(resp.StatusCode) {
			drainAndClose(resp)
			return fmt.Errorf("retryable status %d", resp.StatusCode)
		}
		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = i.retry.InitialInterval
	expBackoff.MaxInterval = i.retry.MaxInterval
	expBackoff.Multiplier = i.retry.Multiplier
	expBackoff.MaxElapsedTime = i.retry.MaxElapsedTime

	retryErr := backoff.Retry(operation, backoff.WithMaxRetries(expBackoff, uint64(i.retry.MaxRetries)))
	if retryErr != nil && resp == nil {
		logger.Error("provider endpoint call failed", zap.String("url", renderedURL), zap.Error(retryErr))
		return nil, dberrors.Transient("provider endpoint unreachable", retryErr)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	result := &Result{StatusCode: resp.StatusCode}
	var parsed map[string]any
	if json.Unmarshal(bodyBytes, &parsed) == nil {
		result.JSON = parsed
	} else {
		result.TextPreview = truncate(string(bodyBytes), previewLimit)
	}

	if !statusSucceeded(resp.StatusCode, endpoint) {
		preview := result.TextPreview
		if preview == "" {
			preview = truncate(string(bodyBytes), previewLimit)
		}
		logger.Warn("provider endpoint returned failure status",
			zap.String("url", renderedURL), zap.Int("status", resp.StatusCode))
		return result, dberrors.ProviderEndpoint(resp.StatusCode, preview)
	}

	if path := endpoint.ProviderOrderIDPath(); path != "" && result.JSON != nil {
		if id, ok := extractPath(result.JSON, path); ok {
			result.ProviderOrderID = fmt.Sprintf("%v", id)
		}
	}

	return result, nil
}

func defaultTimeoutFor(kind string) time.Duration {
	if kind == "balance" {
		return defaultBalanceTimeout
	}
	return defaultTimeout
}

func statusSucceeded(status int, endpoint types.Endpoint) bool {
	if len(endpoint.SuccessStatuses) > 0 {
		for _, s := range endpoint.SuccessStatuses {
			if s == status {
				return true
			}
		}
		return false
	}
	min, max := successRangeFromResponse(endpoint)
	if min != 0 || max != 0 {
		return status >= min && status <= max
	}
	return status >= 200 && status < 300
}

// successRangeFromResponse reads optional successStatusMin/Max from the
// endpoint's response map, since these aren't promoted to typed fields
// (they're rarely set, per spec.md §4.2).
func successRangeFromResponse(endpoint types.Endpoint) (int, int) {
	if endpoint.Response == nil {
		return 0, 0
	}
	min, _ := toInt(endpoint.Response["success_status_min"])
	max, _ := toInt(endpoint.Response["success_status_max"])
	return min, max
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	default:
		return 0, false
	}
}

func isRetryableStatus(status int) bool {
	switch status {
	case 408, 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func drainAndClose(resp *http.Response) {
	if resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

func renderString(raw string, ctx map[string]any) (string, error) {
	node := template.Parse(raw)
	rendered, err := template.Render(node, ctx)
	if err != nil {
		return "", err
	}
	s, ok := rendered.(string)
	if !ok {
		return fmt.Sprintf("%v", rendered), nil
	}
	return s, nil
}

func toAny(headers map[string]any) map[string]any {
	return headers
}

// extractPath walks a dotted path into a decoded JSON map/list tree.
func extractPath(root map[string]any, path string) (any, bool) {
	var current any = root
	for _, seg := range strings.Split(path, ".") {
		switch v := current.(type) {
		case map[string]any:
			next, ok := v[seg]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, false
			}
			current = v[idx]
		default:
			return nil, false
		}
	}
	return current, true
}
