package flows

import (
	"errors"
	"fmt"
	"sort"

	"github.com/videoflix/videoflix-client/session"
)

// maxErrorDepth bounds the recursive payload walk against pathological
// nesting.
const maxErrorDepth = 8

// ExtractMessages flattens a possibly nested backend error payload (string,
// array, and object values in any combination) into a flat ordered list of
// strings. Object keys are walked in sorted order so the result is
// deterministic.
func ExtractMessages(payload any) []string {
	return extractMessages(payload, 0)
}

func extractMessages(value any, depth int) []string {
	if depth > maxErrorDepth {
		return nil
	}

	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []any:
		var out []string
		for _, item := range v {
			out = append(out, extractMessages(item, depth+1)...)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		var out []string
		for _, key := range keys {
			out = append(out, extractMessages(v[key], depth+1)...)
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

// singleMessage yields the synthesized one-line message of an auth failure
// (detail, then field-specific, then generic). Transport failures fall back
// to the emitter's default.
func singleMessage(err error) []string {
	var authErr *session.AuthError
	if errors.As(err, &authErr) {
		return []string{authErr.Message}
	}
	return nil
}

// errorMessages derives the notification content for a failed backend call:
// the flattened payload when one exists, otherwise the synthesized single
// message, otherwise the emitter's default.
func errorMessages(err error) []string {
	var authErr *session.AuthError
	if errors.As(err, &authErr) {
		if len(authErr.Payload) > 0 {
			if messages := ExtractMessages(authErr.Payload); len(messages) > 0 {
				return messages
			}
		}
		return []string{authErr.Message}
	}
	return nil
}
