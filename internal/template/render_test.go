package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smplat/fulfillment/internal/logger"
	"github.com/smplat/fulfillment/internal/template"
)

func init() {
	logger.InitLogger("test")
}

func TestRender_SingleTokenPreservesType(t *testing.T) {
	ctx := map[string]any{
		"order": map[string]any{
			"id":    42,
			"total": 12.5,
			"items": []any{"a", "b"},
		},
	}

	node := template.Parse("{{ order.id }}")
	out, err := template.Render(node, ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, out)

	node = template.Parse("{{ order.items }}")
	out, err = template.Render(node, ctx)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, out)
}

func TestRender_EmbeddedTokensStringify(t *testing.T) {
	ctx := map[string]any{
		"order": map[string]any{"order_number": "SM000042"},
		"item":  map[string]any{"id": "item-1", "quantity": 3},
	}
	node := template.Parse("https://api.test/{{ order.order_number }}/items/{{ item.id }}?qty={{ item.quantity }}")
	out, err := template.Render(node, ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://api.test/SM000042/items/item-1?qty=3", out)
}

func TestRender_MissingKeyRaisesTemplateError(t *testing.T) {
	node := template.Parse("{{ order.missing }}")
	_, err := template.Render(node, map[string]any{"order": map[string]any{}})
	require.Error(t, err)
}

func TestRender_PipeIsRejected(t *testing.T) {
	node := template.Parse("{{ order.id | upper }}")
	_, err := template.Render(node, map[string]any{"order": map[string]any{"id": "x"}})
	require.Error(t, err)
}

func TestRender_IdempotentOnPlainString(t *testing.T) {
	ctx := map[string]any{"item": map[string]any{"id": "abc"}}
	node := template.Parse("prefix-{{ item.id }}-suffix")

	first, err := template.Render(node, ctx)
	require.NoError(t, err)

	// Re-parsing and re-rendering the already-rendered plain string
	// (no further tokens) must be a no-op, per spec.md §8's round-trip
	// property.
	second, err := template.Render(template.Parse(first), ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRender_SingleTokenCoercion(t *testing.T) {
	ctx := map[string]any{"flag": "true", "count": "7", "nothing": "null"}

	out, err := template.Render(template.Parse("{{ flag }}"), ctx)
	require.NoError(t, err)
	assert.Equal(t, true, out)

	out, err = template.Render(template.Parse("{{ count }}"), ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), out)

	out, err = template.Render(template.Parse("{{ nothing }}"), ctx)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestRender_MapAndListPassThroughStructurally(t *testing.T) {
	raw := map[string]any{
		"headers": map[string]any{"X-Order-Number": "{{ order.order_number }}"},
		"body":    map[string]any{"itemId": "{{ item.id }}", "quantity": "{{ item.quantity }}"},
	}
	ctx := map[string]any{
		"order": map[string]any{"order_number": "SM000099"},
		"item":  map[string]any{"id": "item-2", "quantity": 2},
	}

	node := template.Parse(raw)
	out, err := template.Render(node, ctx)
	require.NoError(t, err)

	rendered := out.(map[string]any)
	headers := rendered["headers"].(map[string]any)
	assert.Equal(t, "SM000099", headers["X-Order-Number"])

	body := rendered["body"].(map[string]any)
	assert.Equal(t, "item-2", body["itemId"])
	assert.Equal(t, 2, body["quantity"])
}
