// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package endpoint

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"regexp"

	"github.com/z5labs/speccify"
)

type petNotFoundError struct {
	speccify.ProblemDetail

	PetID string `json:"pet_id"`
}

type getPetHandler struct {
	db *sql.DB
}

func (h *getPetHandler) Produce(ctx context.Context) (*Pet, error) {
	petID := speccify.PathValue(ctx, "petId")

	row := h.db.QueryRowContext(
		ctx,
		"SELECT id, name, kind FROM pets WHERE id = $1",
		petID,
	)

	var pet Pet
	err := row.Scan(&pet.ID, &pet.Name, &pet.Kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, petNotFoundError{
			ProblemDetail: speccify.ProblemDetail{
				Type:   "https://example.com/problems/pet-not-found",
				Title:  "Pet Not Found",
				Status: http.StatusNotFound,
			},
			PetID: petID,
		}
	}
	if err != nil {
		return nil, err
	}
	return &pet, nil
}

// GetPet serves a single pet by its numeric id.
func GetPet(db *sql.DB) speccify.ApiOption {
	h := &getPetHandler{
		db: db,
	}

	return speccify.NewEndpoint(
		http.MethodGet,
		speccify.BasePath("/pets").Param("petId", speccify.Regex(regexp.MustCompile(`^\d+$`))),
		speccify.NewOperation(
			speccify.ProduceJson(h),
			speccify.Summary("Get a pet by id"),
			speccify.Returns(http.StatusNotFound),
			speccify.OnError(speccify.NewProblemDetailsErrorHandler(speccify.ProblemDetailsConfig{
				DefaultType: "https://example.com/problems/",
			})),
		),
	)
}
