package http

import (
	"net/http"
	"strconv"

	"styledecor/pkg/config"
	apperrors "styledecor/pkg/errors"
)

// ExtractPageLimit reads the page/limit query parameters and normalizes
// them against the configured pagination bounds. Page numbering starts at 1.
func ExtractPageLimit(r *http.Request) (int, int, error) {
	query := r.URL.Query()

	page := 1
	if s := query.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid page parameter: " + s)
		}
		page = v
	}

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	if page < 1 {
		page = 1
	}
	limit = config.NormalizePaginationLimit(limit)

	return page, limit, nil
}

// ExtractFloatFilter reads an optional float query parameter. A missing
// parameter returns a nil pointer so the caller can omit the clause.
func ExtractFloatFilter(r *http.Request, name string) (*float64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid " + name + " parameter: " + s)
	}
	return &v, nil
}

// ExtractBoolFilter reads an optional boolean query parameter. A missing
// parameter returns a nil pointer so the caller can omit the clause.
func ExtractBoolFilter(r *http.Request, name string) (*bool, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid " + name + " parameter: " + s)
	}
	return &v, nil
}
