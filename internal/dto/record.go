package dto

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Placeholder is rendered for fields that are missing or null in a row.
const Placeholder = "-"

// Record is one row of an API collection, kept as the raw decoded JSON object.
// The backend is inconsistent about field casing across endpoints (PascalCase
// on most, snake_case on a few), so lookups fall back from the given name to
// its snake_case form. That shim is part of the client contract and must stay.
type Record map[string]any

// Lookup returns the first value present under any of the given keys, trying
// each key verbatim and then in snake_case.
func (r Record) Lookup(keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := r[key]; ok && v != nil {
			return v, true
		}
		if v, ok := r[SnakeCase(key)]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Text renders the field as display text, with the placeholder dash for
// missing or null values. Booleans render as Yes/No.
func (r Record) Text(keys ...string) string {
	v, ok := r.Lookup(keys...)
	if !ok {
		return Placeholder
	}

	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return Placeholder
		}
		return t
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Int returns the field as an integer, if present and numeric.
func (r Record) Int(keys ...string) (int64, bool) {
	v, ok := r.Lookup(keys...)
	if !ok {
		return 0, false
	}

	switch t := v.(type) {
	case float64:
		return int64(t), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Bool returns the field as a boolean. Numeric 0/1 values count, since the
// backend serializes bit columns both ways.
func (r Record) Bool(keys ...string) (bool, bool) {
	v, ok := r.Lookup(keys...)
	if !ok {
		return false, false
	}

	switch t := v.(type) {
	case bool:
		return t, true
	case float64:
		return t != 0, true
	default:
		return false, false
	}
}

// SnakeCase converts a PascalCase or camelCase field name to snake_case.
// Runs of capitals stay together, so "StudentID" becomes "student_id" and
// "Student_PK_ID" becomes "student_pk_id".
func SnakeCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)

	runes := []rune(name)
	for i, r := range runes {
		if r == '_' {
			b.WriteRune('_')
			continue
		}
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			prevUnderscore := i > 0 && runes[i-1] == '_'
			if i > 0 && !prevUnderscore && (prevLower || (nextLower && !prevLower && unicode.IsUpper(runes[i-1]))) {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}
