// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/z5labs/speccify"
)

type Pet struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type ListPetsRequest struct {
	Limit *int `json:"limit" default:"50"`
}

type ListPetsResponse struct {
	Pets []Pet `json:"pets"`
}

type listPetsHandler struct {
	log *slog.Logger
	db  *sql.DB
}

func (h *listPetsHandler) Handle(ctx context.Context, req *ListPetsRequest) (*ListPetsResponse, error) {
	rows, err := h.db.QueryContext(
		ctx,
		"SELECT id, name, kind FROM pets ORDER BY id LIMIT $1",
		*req.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resp := &ListPetsResponse{
		Pets: []Pet{},
	}
	for rows.Next() {
		var pet Pet
		err := rows.Scan(&pet.ID, &pet.Name, &pet.Kind)
		if err != nil {
			return nil, err
		}
		resp.Pets = append(resp.Pets, pet)
	}
	return resp, rows.Err()
}

type RegisterPetRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type RegisterPetResponse struct {
	ID int64 `json:"id"`
}

type registerPetHandler struct {
	log *slog.Logger
	db  *sql.DB
}

func (h *registerPetHandler) Handle(ctx context.Context, req *RegisterPetRequest) (*RegisterPetResponse, error) {
	row := h.db.QueryRowContext(
		ctx,
		"INSERT INTO pets (name, kind) VALUES ($1, $2) RETURNING id",
		req.Name,
		req.Kind,
	)

	var id int64
	err := row.Scan(&id)
	if err != nil {
		return nil, err
	}

	h.log.InfoContext(ctx, "registered pet", slog.Int64("pet.id", id))
	return &RegisterPetResponse{
		ID: id,
	}, nil
}

// Pets serves pet listing and registration on a single route.
func Pets(db *sql.DB) speccify.ApiOption {
	list := &listPetsHandler{
		log: speccify.Logger("endpoint"),
		db:  db,
	}
	register := &registerPetHandler{
		log: speccify.Logger("endpoint"),
		db:  db,
	}

	return speccify.NewEndpoint(
		http.MethodGet,
		speccify.BasePath("/pets"),
		speccify.NewOperation(
			speccify.HandleQuery(list),
			speccify.Summary("List pets"),
		),
	).WithMethod(
		http.MethodPost,
		speccify.NewOperation(
			speccify.HandleBody(register),
			speccify.Summary("Register a pet"),
		),
	)
}
