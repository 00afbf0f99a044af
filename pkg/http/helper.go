package http

import (
	"net/http"
	"strconv"

	"boatsafari/pkg/config"
	apperrors "boatsafari/pkg/errors"
)

// ExtractLimitOffset reads pagination query parameters and clamps them to
// the configured bounds. Missing parameters fall back to defaults; values
// that do not parse as non-negative integers are rejected.
func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit, err := parseQueryInt(query.Get("limit"), "limit")
	if err != nil {
		return 0, 0, err
	}

	offset, err := parseQueryInt(query.Get("offset"), "offset")
	if err != nil {
		return 0, 0, err
	}

	return config.NormalizePaginationLimit(int(limit)), config.NormalizeOffset(offset), nil
}

func parseQueryInt(raw, name string) (int64, error) {
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, apperrors.InvalidInput("invalid " + name + " parameter: " + raw)
	}
	return v, nil
}
