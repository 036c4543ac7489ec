// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

// Package pagination is the shared page/limit contract of every list endpoint:
// the member directory, the question feed, answer and comment threads, and
// the tag vocabulary.
//
// Clients page with 1-indexed `page` and `limit` query parameters; responses
// carry a [Meta] block alongside the data so clients can render navigation
// without counting.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the page size when the client doesn't ask for one.
	DefaultLimit = 20
	// MaxLimit caps the page size. A feed page larger than this gains
	// nothing and hammers the count query.
	MaxLimit = 100
	// DefaultPage is the first page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and limit from a request's query string.
// Values produced by [FromRequest] are always within bounds.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET value derived from Page and Limit.
func (params Params) Offset() int {
	if params.Page <= 1 {
		return 0
	}
	return (params.Page - 1) * params.Limit
}

// Meta is the pagination block included in API list responses.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
}

// NewMeta builds the response metadata for one page of a listing.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// FromRequest parses "page" and "limit" query parameters.
//
// Out-of-range values never error: a missing or garbage value falls back to
// the default, a negative page snaps to the first page, and an oversized
// limit clamps to [MaxLimit] rather than silently shrinking the page the
// client asked for.
func FromRequest(request *http.Request) Params {
	page := queryInt(request, "page", DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	limit := queryInt(request, "limit", DefaultLimit)
	switch {
	case limit < 1:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit}
}

// queryInt reads one integer query parameter with a fallback.
func queryInt(request *http.Request, key string, fallback int) int {
	raw := request.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return value
}
