package template

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	dberrors "github.com/smplat/fulfillment/internal/errors"
)

// Render evaluates every token in node against ctx and returns a value of
// the same shape: maps/lists recurse, leaves resolve to either a
// type-preserving single value (single-token leaves) or a stringified
// substitution (multi-part leaves), and plain scalars pass through
// unchanged.
func Render(node Node, ctx map[string]any) (any, error) {
	switch node.Kind {
	case KindMap:
		out := make(map[string]any, len(node.Map))
		for k, v := range node.Map {
			rendered, err := Render(v, ctx)
			if err != nil {
				return nil, err
			}
			out[k] = rendered
		}
		return out, nil
	case KindList:
		out := make([]any, len(node.List))
		for i, v := range node.List {
			rendered, err := Render(v, ctx)
			if err != nil {
				return nil, err
			}
			out[i] = rendered
		}
		return out, nil
	case KindLeaf:
		return renderLeaf(node.Leaf, ctx)
	default:
		return node.Scalar, nil
	}
}

func renderLeaf(leaf *Leaf, ctx map[string]any) (any, error) {
	if leaf.IsSingleToken {
		val, err := resolveExpr(leaf.SingleToken, ctx)
		if err != nil {
			return nil, err
		}
		return coerceSingleToken(val), nil
	}

	var sb strings.Builder
	for _, part := range leaf.Parts {
		if !part.IsToken {
			sb.WriteString(part.Literal)
			continue
		}
		val, err := resolveExpr(part.Expr, ctx)
		if err != nil {
			return nil, err
		}
		sb.WriteString(stringify(val))
	}
	return sb.String(), nil
}

// coerceSingleToken implements the extra coercion for a single-token
// leaf whose resolved value came back as a raw string: null/none become
// nil, true/false become bool, otherwise try int then float, else keep
// the string. Non-string resolved values (already-typed context values)
// pass through untouched.
func coerceSingleToken(val any) any {
	s, ok := val.(string)
	if !ok {
		return val
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "null", "none":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func stringify(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// resolveExpr walks a dotted path against ctx. `|` anywhere in the
// expression is rejected outright. Each segment resolves against a map
// key, a numeric list index, or (as an ordered fallback for struct-typed
// context values) an exported field/json-tag match.
func resolveExpr(expr string, ctx map[string]any) (any, error) {
	if strings.Contains(expr, "|") {
		return nil, dberrors.Template(expr, "pipe operator is not supported")
	}
	segments := strings.Split(expr, ".")

	var current any = ctx
	for i, seg := range segments {
		next, ok := resolveSegment(current, seg)
		if !ok {
			return nil, dberrors.MissingContextKey(expr)
		}
		current = next
		_ = i
	}
	return current, nil
}

func resolveSegment(current any, segment string) (any, bool) {
	switch v := current.(type) {
	case map[string]any:
		val, ok := v[segment]
		return val, ok
	case []any:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= len(v) {
			return nil, false
		}
		return v[idx], true
	case nil:
		return nil, false
	default:
		return resolveStructField(current, segment)
	}
}

// resolveStructField is the "object attribute" fallback for a
// non-map/list context value: match an exported field by its json tag
// first, then by case-insensitive field name.
func resolveStructField(current any, segment string) (any, bool) {
	rv := reflect.ValueOf(current)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("json")
		tagName := strings.Split(tag, ",")[0]
		if tagName == segment || strings.EqualFold(field.Name, segment) {
			return rv.Field(i).Interface(), true
		}
	}
	return nil, false
}
