package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/routes-report/pkg/errors"
)

const maxQueryValueLen = 256

// QueryString returns the trimmed first value of key.
func QueryString(r *http.Request, key string) string {
	return sanitize(r.URL.Query().Get(key), maxQueryValueLen)
}

// QueryList accepts both repeated keys and comma separated values.
func QueryList(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			if value := sanitize(part, maxQueryValueLen); value != "" {
				out = append(out, value)
			}
		}
	}
	return out
}

// QueryBool parses key as a boolean; absent means false.
func QueryBool(r *http.Request, key string) (bool, error) {
	raw := QueryString(r, key)
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a boolean").
			WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

// sanitize trims input and caps it at maxLen runes.
func sanitize(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 {
		return trimmed
	}
	if runes := []rune(trimmed); len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return trimmed
}
