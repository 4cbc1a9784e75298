package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var codeFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*\n?(.*?)\\s*```$")

// StripCodeFence removes a surrounding markdown code fence, if present.
// Completion services routinely wrap JSON in ```json ... ``` despite
// instructions not to.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFenceRe.FindStringSubmatch(s); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return s
}

// SanitizeJSON re-encodes a JSON document after joining string arrays
// that appear as object field values into comma-separated strings.
// This covers the common case of a model returning {"description":
// ["a", "b"]} where a plain string was asked for. The top-level value
// is left alone so array responses survive intact. Returns the input
// error when the document does not parse at all.
func SanitizeJSON(raw []byte) ([]byte, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	switch v := doc.(type) {
	case map[string]any:
		doc = joinStringArrays(v)
	case []any:
		for i, elem := range v {
			if obj, ok := elem.(map[string]any); ok {
				v[i] = joinStringArrays(obj)
			}
		}
	}
	return json.Marshal(doc)
}

func joinStringArrays(obj map[string]any) map[string]any {
	for key, val := range obj {
		switch v := val.(type) {
		case map[string]any:
			obj[key] = joinStringArrays(v)
		case []any:
			if parts, ok := allStrings(v); ok && containsJoinable(key) {
				obj[key] = strings.Join(parts, ", ")
			}
		}
	}
	return obj
}

// containsJoinable reports whether a field is a candidate for
// array-to-string joining. Keyword-style fields keep their arrays.
func containsJoinable(key string) bool {
	switch strings.ToLower(key) {
	case "keywords", "sourcemessageids", "connections":
		return false
	}
	return true
}

func allStrings(arr []any) ([]string, bool) {
	parts := make([]string, 0, len(arr))
	for _, elem := range arr {
		s, ok := elem.(string)
		if !ok {
			return nil, false
		}
		parts = append(parts, s)
	}
	return parts, true
}
