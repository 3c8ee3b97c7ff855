// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"database/sql"

	"github.com/z5labs/speccify"
)

type databaseHealth struct {
	db *sql.DB
}

// DatabaseHealth reports healthy as long as the database responds to pings.
func DatabaseHealth(db *sql.DB) speccify.HealthMonitor {
	return &databaseHealth{
		db: db,
	}
}

func (h *databaseHealth) Healthy(ctx context.Context) (bool, error) {
	err := h.db.PingContext(ctx)
	if err != nil {
		return false, err
	}
	return true, nil
}
