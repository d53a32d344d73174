package template

import (
	"bytes"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/de-tools/ewaste-reports/pkg/models/domain"
	"github.com/de-tools/ewaste-reports/pkg/services/format"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/cases"
)

// DefaultIcon is shown for categories without a dedicated glyph
const DefaultIcon = "📄"

var icons = map[string]string{
	"overview":      "📊",
	"performance":   "📈",
	"environmental": "🌱",
	"operations":    "⚙️",
	"financial":     "💰",
	"social":        "🤝",
	"compliance":    "✅",
	"security":      "🔒",
	"strategy":      "🎯",
	"recycling":     "♻️",
	"carbon":        "🌍",
	"pickup":        "🚚",
	"processing":    "🏭",
}

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Helpers returns the fixed helper registry bound to f.
func Helpers(f *format.Formatter) htmltemplate.FuncMap {
	tag := f.Locale()
	return htmltemplate.FuncMap{
		"formatDate": func(t time.Time, layout ...string) string {
			l := "short"
			if len(layout) > 0 {
				l = layout[0]
			}
			return f.Date(t, l)
		},
		"formatDateRange": f.DateRange,
		"formatCurrency": func(v any, code string) string {
			return f.Currency(number(v), code)
		},
		"formatNumber": func(v any, decimals ...int) string {
			return f.Number(number(v), optional(decimals, 0))
		},
		"formatPercent": func(v any, decimals ...int) string {
			return f.Percent(number(v), optional(decimals, 0))
		},
		"formatWeight": func(v any) string {
			return f.Weight(number(v))
		},
		"formatValue": func(v, kind any, currency string) string {
			return FormatValue(f, number(v), domain.ValueKind(fmt.Sprint(kind)), currency)
		},

		"eq":  equal,
		"ne":  func(a, b any) bool { return !equal(a, b) },
		"gt":  func(a, b any) bool { return compare(a, b) > 0 },
		"gte": func(a, b any) bool { return compare(a, b) >= 0 },
		"lt":  func(a, b any) bool { return compare(a, b) < 0 },
		"lte": func(a, b any) bool { return compare(a, b) <= 0 },

		"add":        func(a, b any) float64 { return number(a) + number(b) },
		"subtract":   func(a, b any) float64 { return number(a) - number(b) },
		"multiply":   func(a, b any) float64 { return number(a) * number(b) },
		"divide":     divide,
		"percentage": func(part, total any) float64 { return divide(part, total) * 100 },

		"first": first,
		"last":  last,
		"count": count,

		"truncate": truncate,
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
		"title":    func(s string) string { return cases.Title(tag).String(s) },

		"progressWidth": ProgressWidth,
		"changeClass":   ChangeClass,
		"icon":          Icon,
		"markdown":      markdown,
		"safe":          func(s string) htmltemplate.HTML { return htmltemplate.HTML(s) },
		"dict":          dict,
	}
}

// FormatValue formats a metric according to its kind.
func FormatValue(f *format.Formatter, v float64, kind domain.ValueKind, currency string) string {
	switch kind {
	case domain.ValueWeight:
		return f.Weight(v)
	case domain.ValuePercent:
		return f.Percent(v, 0)
	case domain.ValueCurrency:
		return f.Currency(v, currency)
	default:
		return f.Number(v, 0)
	}
}

// ProgressWidth is clamp(round(value/max*100), 0, 100).
func ProgressWidth(value, max any) int {
	m := number(max)
	if m == 0 {
		return 0
	}
	w := math.Round(number(value) / m * 100)
	if math.IsNaN(w) {
		return 0
	}
	return int(math.Max(0, math.Min(100, w)))
}

// ChangeClass maps the sign of a change to a css class.
func ChangeClass(change any) string {
	switch v := number(change); {
	case v > 0:
		return "positive"
	case v < 0:
		return "negative"
	default:
		return "neutral"
	}
}

func Icon(category any) string {
	if glyph, ok := icons[strings.ToLower(fmt.Sprint(category))]; ok {
		return glyph
	}
	return DefaultIcon
}

func markdown(src string) (htmltemplate.HTML, error) {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return htmltemplate.HTML(buf.String()), nil
}

func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict expects key/value pairs")
	}
	out := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		out[key] = pairs[i+1]
	}
	return out, nil
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}

func divide(a, b any) float64 {
	d := number(b)
	if d == 0 {
		return 0
	}
	return number(a) / d
}

func first(list any) any {
	v := reflect.ValueOf(list)
	if !isList(v) || v.Len() == 0 {
		return nil
	}
	return v.Index(0).Interface()
}

func last(list any) any {
	v := reflect.ValueOf(list)
	if !isList(v) || v.Len() == 0 {
		return nil
	}
	return v.Index(v.Len() - 1).Interface()
}

func count(list any) int {
	v := reflect.ValueOf(list)
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
		return v.Len()
	default:
		return 0
	}
}

func isList(v reflect.Value) bool {
	return v.Kind() == reflect.Slice || v.Kind() == reflect.Array
}

func equal(a, b any) bool {
	x, okA := toNumber(a)
	y, okB := toNumber(b)
	if okA && okB {
		return x == y
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func compare(a, b any) int {
	x, okA := toNumber(a)
	y, okB := toNumber(b)
	if !okA || !okB {
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
	switch {
	case x > y:
		return 1
	case x < y:
		return -1
	default:
		return 0
	}
}

func number(v any) float64 {
	f, _ := toNumber(v)
	return f
}

func optional(values []int, fallback int) int {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}

// toNumber accepts any numeric kind, decimals and numeric strings.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case decimal.Decimal:
		return n.InexactFloat64(), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
