// Copyright (c) 2026 Askora. All rights reserved.
// Author: dev.askora@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPgx5URL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"postgres scheme", "postgres://u:p@db:5432/askora?sslmode=disable", "pgx5://u:p@db:5432/askora?sslmode=disable"},
		{"postgresql scheme", "postgresql://db/askora", "pgx5://db/askora"},
		{"already pgx5", "pgx5://db/askora", "pgx5://db/askora"},
		{"unrelated string", "host=db dbname=askora", "host=db dbname=askora"},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, pgx5URL(testCase.in))
		})
	}
}
