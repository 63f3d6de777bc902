package present

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Placeholder is rendered wherever a value does not exist. It can never be
// mistaken for zero or for an empty string.
const Placeholder = "—"

// IsPlaceholder reports whether s is the no-value token
func IsPlaceholder(s string) bool {
	return s == Placeholder
}

// FormatFloat renders v with the shortest exact decimal form
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return Placeholder
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatValue renders v as stable, human-readable text. Maps become one
// "key: value" line per entry in sorted key order; slices become one line
// per element. A nested container renders as a "key:" line followed by
// its own lines indented two spaces. nil, NaN and empty containers render
// as Placeholder.
func FormatValue(v interface{}) string {
	lines := formatLines(reflect.ValueOf(v))
	if len(lines) == 0 {
		return Placeholder
	}
	return strings.Join(lines, "\n")
}

func formatLines(rv reflect.Value) []string {
	if !rv.IsValid() {
		return []string{Placeholder}
	}
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return []string{Placeholder}
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Len() == 0 {
			return nil
		}
		var out []string
		for _, key := range sortedMapKeys(rv) {
			label := scalarText(key)
			child := rv.MapIndex(key)
			if isContainer(child) {
				out = append(out, label+":")
				for _, line := range formatLines(child) {
					out = append(out, "  "+line)
				}
				continue
			}
			out = append(out, label+": "+scalarText(child))
		}
		return out
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		var out []string
		for i := 0; i < rv.Len(); i++ {
			out = append(out, formatLines(rv.Index(i))...)
		}
		return out
	}
	return []string{scalarText(rv)}
}

func isContainer(rv reflect.Value) bool {
	for rv.IsValid() && (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return true
	}
	return false
}

func scalarText(rv reflect.Value) string {
	for rv.IsValid() && (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return Placeholder
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return Placeholder
	}
	if rv.CanInterface() {
		switch x := rv.Interface().(type) {
		case time.Time:
			return formatTime(x)
		case fmt.Stringer:
			return x.String()
		}
	}
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return FormatFloat(rv.Float())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.String:
		return rv.String()
	}
	return fmt.Sprint(rv.Interface())
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}

// sortedMapKeys orders numeric keys by value and everything else by text
func sortedMapKeys(rv reflect.Value) []reflect.Value {
	keys := rv.MapKeys()
	less := func(a, b reflect.Value) bool { return scalarText(a) < scalarText(b) }
	switch rv.Type().Key().Kind() {
	case reflect.Float32, reflect.Float64:
		less = func(a, b reflect.Value) bool { return a.Float() < b.Float() }
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		less = func(a, b reflect.Value) bool { return a.Int() < b.Int() }
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		less = func(a, b reflect.Value) bool { return a.Uint() < b.Uint() }
	}
	sort.SliceStable(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	return keys
}
