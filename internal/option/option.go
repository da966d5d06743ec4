// Package option models chart options as JSON-like trees.
//
// An Option is a map of string keys to scalars, lists ([]any and typed
// slices) and nested maps. The same shape is used for raw per-chart configs,
// the derived configs committed to an engine, and the global base option.
package option

import (
	"maps"
	"slices"
)

// Option is a chart option tree.
type Option map[string]any

// Well-known keys.
const (
	KeySeries  = "series"
	KeyDynamic = "dynamic"
	KeyColor   = "color"
	KeyTooltip = "tooltip"
	KeyTitle   = "title"
	KeyXAxis   = "xAxis"
	KeyData    = "data"
	KeyName    = "name"
	KeyType    = "type"
	KeyStack   = "stack"
)

// AsMap returns v as an Option when v is a map node.
func AsMap(v any) (Option, bool) {
	switch m := v.(type) {
	case Option:
		return m, m != nil
	case map[string]any:
		return Option(m), m != nil
	case map[any]any:
		out := make(Option, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// Clone returns a deep copy of o. Maps and lists are copied; scalars are
// shared.
func Clone(o Option) Option {
	if o == nil {
		return nil
	}
	out := make(Option, len(o))
	for k, v := range o {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	if m, ok := AsMap(v); ok {
		return Clone(m)
	}
	switch l := v.(type) {
	case []any:
		out := make([]any, len(l))
		for i, item := range l {
			out[i] = cloneValue(item)
		}
		return out
	case []Option:
		out := make([]Option, len(l))
		for i, item := range l {
			out[i] = Clone(item)
		}
		return out
	case []map[string]any:
		out := make([]Option, len(l))
		for i, item := range l {
			out[i] = Clone(item)
		}
		return out
	case []string:
		return slices.Clone(l)
	case []float64:
		return slices.Clone(l)
	case []int:
		return slices.Clone(l)
	default:
		return v
	}
}

// Merge deep-merges src into dst and returns dst. Nested maps are merged key
// by key; lists and scalars from src replace whatever dst held. Values taken
// from src are cloned so later edits to src do not leak into dst.
// A nil dst is allocated.
func Merge(dst, src Option) Option {
	if dst == nil {
		dst = make(Option, len(src))
	}
	for k, sv := range src {
		srcMap, srcIsMap := AsMap(sv)
		if !srcIsMap {
			dst[k] = cloneValue(sv)
			continue
		}
		dstMap, dstIsMap := AsMap(dst[k])
		if !dstIsMap {
			dst[k] = Clone(srcMap)
			continue
		}
		// map[any]any nodes are converted by AsMap; store the converted node.
		dst[k] = Merge(dstMap, srcMap)
	}
	return dst
}

// Without returns a deep copy of o minus the given keys.
func (o Option) Without(keys ...string) Option {
	out := Clone(o)
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Map returns the nested map at key, or nil.
func (o Option) Map(key string) Option {
	m, _ := AsMap(o[key])
	return m
}

// String returns the string at key, or "".
func (o Option) String(key string) string {
	s, _ := o[key].(string)
	return s
}

// Bool reports whether the value at key is truthy.
func (o Option) Bool(key string) bool {
	return Truthy(o[key])
}

// Series returns the series list. Items that are not maps are skipped.
func (o Option) Series() []Option {
	return List(o[KeySeries])
}

// HasSeries reports whether o carries a non-empty series list.
// Only map items count, so a list of bare values such as [1, 2] reports
// false and the chart stays under its loading mask. dataset.Parse rejects
// such lists before they reach an update.
func (o Option) HasSeries() bool {
	if o == nil {
		return false
	}
	return len(o.Series()) > 0
}

// Keys returns the keys of o in sorted order.
func (o Option) Keys() []string {
	return slices.Sorted(maps.Keys(o))
}

// List returns v as a list of maps when v is a list node.
func List(v any) []Option {
	switch l := v.(type) {
	case []Option:
		return l
	case []map[string]any:
		out := make([]Option, 0, len(l))
		for _, item := range l {
			out = append(out, Option(item))
		}
		return out
	case []any:
		out := make([]Option, 0, len(l))
		for _, item := range l {
			if m, ok := AsMap(item); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

// Strings returns v as a list of strings. Non-string items are skipped.
func Strings(v any) []string {
	switch l := v.(type) {
	case []string:
		return l
	case []any:
		out := make([]string, 0, len(l))
		for _, item := range l {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Floats returns v as a list of numbers. Items that are not numeric become 0
// so that positions stay aligned with their categories.
func Floats(v any) []float64 {
	switch l := v.(type) {
	case []float64:
		return l
	case []int:
		out := make([]float64, len(l))
		for i, n := range l {
			out[i] = float64(n)
		}
		return out
	case []any:
		out := make([]float64, len(l))
		for i, item := range l {
			out[i], _ = Number(item)
		}
		return out
	default:
		return nil
	}
}

// Number converts a numeric scalar to float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint:
		return float64(n), true
	default:
		return 0, false
	}
}

// Truthy follows loose truthiness: false, zero numbers, "" and nil are false.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	default:
		if n, ok := Number(v); ok {
			return n != 0
		}
		return true
	}
}
