// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"context"
	"database/sql"

	"github.com/z5labs/speccify"
	"github.com/z5labs/speccify/example/petstore/endpoint"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type Config struct {
	speccify.Config `config:",squash"`

	Postgres struct {
		URL string `config:"url"`
	} `config:"postgres"`
}

func Init(ctx context.Context, cfg Config) (*speccify.Api, error) {
	db, err := sql.Open("pgx", cfg.Postgres.URL)
	if err != nil {
		return nil, err
	}

	api := speccify.NewApi(
		cfg.OpenApi.Title,
		cfg.OpenApi.Version,
		speccify.Readiness(endpoint.DatabaseHealth(db)),
		endpoint.Pets(db),
		endpoint.GetPet(db),
	)
	return api, nil
}
