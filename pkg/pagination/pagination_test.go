// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest_Clamping(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Page: DefaultPage, Limit: DefaultLimit}},
		{"explicit", "?page=3&limit=50", Params{Page: 3, Limit: 50}},
		{"oversized limit clamps to max", "?limit=5000", Params{Page: DefaultPage, Limit: MaxLimit}},
		{"zero limit falls back", "?limit=0", Params{Page: DefaultPage, Limit: DefaultLimit}},
		{"negative page snaps to first", "?page=-2", Params{Page: DefaultPage, Limit: DefaultLimit}},
		{"garbage values fall back", "?page=abc&limit=xyz", Params{Page: DefaultPage, Limit: DefaultLimit}},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/api/v1/questions"+testCase.query, nil)
			assert.Equal(t, testCase.want, FromRequest(request))
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, Params{Page: 3, Limit: 20}.Offset())
	assert.Equal(t, 0, Params{Page: 0, Limit: 20}.Offset())
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(2, 20, 45)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)

	last := NewMeta(3, 20, 45)
	assert.False(t, last.HasNext)

	empty := NewMeta(1, 20, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
}
