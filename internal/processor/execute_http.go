package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	dberrors "github.com/smplat/fulfillment/internal/errors"
	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/template"
	"github.com/smplat/fulfillment/internal/types"
)

const previewLimit = 512

// executeHTTP implements §4.6.1: render the execution descriptor through
// C2 against the task's frozen context plus a live env snapshot, perform
// the call under the same success/failure policy C3 uses, and report a
// uniform result envelope.
func (l *Loop) executeHTTP(ctx context.Context, task *types.FulfillmentTask, exec *types.Execution) (map[string]any, error) {
	if exec.Kind != "" && exec.Kind != "http" {
		return nil, errUnsupportedExecutionKind
	}

	renderCtx := map[string]any{}
	if task.Payload != nil {
		for k, v := range task.Payload.Context {
			renderCtx[k] = v
		}
	}
	if product := l.lookupTaskProduct(ctx, task); product != nil {
		renderCtx["product"] = map[string]any{
			"id":       product.ID.String(),
			"slug":     product.Slug,
			"title":    product.Title,
			"category": product.Category,
			"currency": product.Currency,
		}
	}
	renderCtx["task"] = map[string]any{
		"id":          task.ID.String(),
		"type":        string(task.TaskType),
		"status":      string(task.Status),
		"retry_count": task.RetryCount,
		"max_retries": task.MaxRetries,
	}
	renderCtx["env"] = resolveEnv(exec.EnvironmentKeys)

	method := strings.ToUpper(exec.Method)
	if method == "" {
		method = http.MethodPost
	}

	renderedURL, err := renderString(exec.URL, renderCtx)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{}
	if exec.Headers != nil {
		rendered, err := template.Render(template.Parse(toAny(exec.Headers)), renderCtx)
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
	if exec.Body != nil {
		rendered, err := template.Render(template.Parse(exec.Body), renderCtx)
		if err != nil {
			return nil, err
		}
		switch rendered.(type) {
		case map[string]any, []any:
			b, merr := json.Marshal(rendered)
			if merr != nil {
				return nil, dberrors.Wrap(merr, "marshal rendered task body")
			}
			bodyReader = bytes.NewReader(b)
			isJSONBody = true
		case nil:
		default:
			bodyReader = strings.NewReader(fmt.Sprintf("%v", rendered))
		}
	}

	timeout := defaultHTTPTimeout
	if exec.TimeoutSeconds != nil {
		timeout = time.Duration(*exec.TimeoutSeconds) * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, method, renderedURL, bodyReader)
	if err != nil {
		return nil, dberrors.Wrap(err, "build task execution request")
	}
	if isJSONBody {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	started := time.Now()
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, dberrors.Transient("task http execution unreachable", err)
	}
	defer resp.Body.Close()
	durationMS := time.Since(started).Milliseconds()

	bodyBytes, _ := io.ReadAll(resp.Body)
	var parsed any
	var textPreview string
	if json.Unmarshal(bodyBytes, &parsed) != nil {
		textPreview = truncate(string(bodyBytes), previewLimit)
	}

	result := map[string]any{
		"status":         "http_request_completed",
		"status_code":    resp.StatusCode,
		"duration_ms":    durationMS,
		"execution_kind": "http",
	}
	if parsed != nil {
		result["response"] = parsed
	} else {
		result["response"] = textPreview
	}

	if !execStatusSucceeded(resp.StatusCode, exec) {
		return result, dberrors.ProviderEndpoint(resp.StatusCode, textPreview)
	}
	return result, nil
}

// lookupTaskProduct re-fetches the order item and, if it references one,
// the product it was created from — mirroring _build_execution_context's
// own re-fetch rather than trusting anything baked into the task's
// frozen context snapshot, since catalog data can change after the task
// was materialized. Logs and proceeds without a product on any lookup
// failure: a missing/renamed product shouldn't block execution of tasks
// that don't reference {{ product.* }}.
func (l *Loop) lookupTaskProduct(ctx context.Context, task *types.FulfillmentTask) *types.Product {
	item, err := l.queries.GetOrderItem(ctx, task.OrderItemID)
	if err != nil || item == nil || item.ProductID == nil {
		return nil
	}
	product, err := l.queries.GetProduct(ctx, *item.ProductID)
	if err != nil {
		logger.Warn("failed to re-fetch product for task execution context",
			zap.String("task_id", task.ID.String()), zap.Error(err))
		return nil
	}
	return product
}

func execStatusSucceeded(status int, exec *types.Execution) bool {
	if len(exec.SuccessStatuses) > 0 {
		for _, s := range exec.SuccessStatuses {
			if s == status {
				return true
			}
		}
		return false
	}
	if exec.SuccessStatusMin != nil || exec.SuccessStatusMax != nil {
		min, max := 200, 299
		if exec.SuccessStatusMin != nil {
			min = *exec.SuccessStatusMin
		}
		if exec.SuccessStatusMax != nil {
			max = *exec.SuccessStatusMax
		}
		return status >= min && status <= max
	}
	return status >= 200 && status < 300
}

// resolveEnv implements §4.6.2: restrict to environmentKeys when given,
// else expose the full process environment. Keys without a set value
// resolve to nil rather than being omitted.
func resolveEnv(keys []string) map[string]any {
	out := map[string]any{}
	if len(keys) > 0 {
		for _, k := range keys {
			if v, ok := os.LookupEnv(k); ok {
				out[k] = v
			} else {
				out[k] = nil
			}
		}
		return out
	}
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			out[parts[0]] = parts[1]
		}
	}
	return out
}

func renderString(raw string, ctx map[string]any) (string, error) {
	rendered, err := template.Render(template.Parse(raw), ctx)
	if err != nil {
		return "", err
	}
	if s, ok := rendered.(string); ok {
		return s, nil
	}
	return fmt.Sprintf("%v", rendered), nil
}

func toAny(headers map[string]any) map[string]any { return headers }

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
