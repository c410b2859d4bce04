// Package record provides read-only, path-based access to decoded message
// trees.
//
// A Record is the generic form produced by the XML decoder: element names map
// to a string (text-only element), a nested Record, a []any of repeated
// elements, or nil (empty element). Attribute keys carry the AttrPrefix
// marker. An element with attributes or children and character data keeps the
// text under TextKey.
package record

import (
	"strconv"
	"strings"

	"github.com/hpungsan/fpwatch/internal/errors"
)

const (
	// AttrPrefix marks attribute keys.
	AttrPrefix = "@"

	// TextKey holds character data of an element that also has attributes or children.
	TextKey = "#text"
)

// Record is one decoded element.
type Record map[string]any

// Attr returns the key used for the named attribute.
func Attr(name string) string {
	return AttrPrefix + name
}

// IsAttr reports whether key names an attribute.
func IsAttr(key string) bool {
	return strings.HasPrefix(key, AttrPrefix)
}

// Lookup walks path and returns the value found there. A missing key or a nil
// value is reported as absent. When a sequence is met before the end of the
// path the walk continues into its first element.
func (r Record) Lookup(path ...string) (any, bool) {
	var cur any = r
	for _, key := range path {
		node, ok := asRecord(cur)
		if !ok {
			return nil, false
		}
		v, ok := node[key]
		if !ok || v == nil {
			return nil, false
		}
		cur = v
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// Has reports whether path is present.
func (r Record) Has(path ...string) bool {
	_, ok := r.Lookup(path...)
	return ok
}

// Child returns the structured element at path.
func (r Record) Child(path ...string) (Record, bool) {
	v, ok := r.Lookup(path...)
	if !ok {
		return nil, false
	}
	return asRecord(v)
}

// Text returns the scalar text at path. A structured element only counts as
// scalar when it carries character data.
func (r Record) Text(path ...string) (string, bool) {
	v, ok := r.Lookup(path...)
	if !ok {
		return "", false
	}
	return scalar(v)
}

// IsScalar reports whether path is present and holds text rather than structure.
func (r Record) IsScalar(path ...string) bool {
	_, ok := r.Text(path...)
	return ok
}

// Require returns the text at path or a missing-field error naming it.
func (r Record) Require(path ...string) (string, error) {
	s, ok := r.Text(path...)
	if !ok {
		return "", errors.NewMissingField(Path(path...))
	}
	return s, nil
}

// Float parses the text at path. The bool result is false when the path is
// absent; text that is present but not a number is a malformed-record error.
func (r Record) Float(path ...string) (float64, bool, error) {
	s, ok := r.Text(path...)
	if !ok {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, true, errors.NewMalformedRecord(Path(path...), s, err)
	}
	return f, true, nil
}

// RequireFloat is Float with absence reported as a missing-field error.
func (r Record) RequireFloat(path ...string) (float64, error) {
	f, ok, err := r.Float(path...)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.NewMissingField(Path(path...))
	}
	return f, nil
}

// All returns every element at path as records: a single element yields one
// entry, a sequence yields its structured members in order.
func (r Record) All(path ...string) []Record {
	v, ok := r.Lookup(path...)
	if !ok {
		return nil
	}
	if seq, ok := v.([]any); ok {
		out := make([]Record, 0, len(seq))
		for _, item := range seq {
			if rec, ok := asRecord(item); ok {
				out = append(out, rec)
			}
		}
		return out
	}
	if rec, ok := asRecord(v); ok {
		return []Record{rec}
	}
	return nil
}

// Path joins segments into the dotted form used in error messages.
func Path(path ...string) string {
	return strings.Join(path, ".")
}

func asRecord(v any) (Record, bool) {
	switch t := v.(type) {
	case Record:
		return t, true
	case map[string]any:
		return Record(t), true
	case []any:
		if len(t) == 0 {
			return nil, false
		}
		return asRecord(t[0])
	}
	return nil, false
}

func scalar(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []any:
		if len(t) == 0 {
			return "", false
		}
		return scalar(t[0])
	}
	if rec, ok := asRecord(v); ok {
		if s, ok := rec[TextKey].(string); ok {
			return s, true
		}
	}
	return "", false
}
