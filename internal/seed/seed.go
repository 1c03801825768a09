package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/studbuds/internal/app/models/dto"
	"github.com/yigit/studbuds/internal/app/services"
	"github.com/yigit/studbuds/internal/pkg/apperrors"
)

// DefaultClasses is the starter catalogue created on a fresh database
var DefaultClasses = []dto.CreateClassRequest{
	{Name: "Introduction to Computer Science", Code: "CS101", Description: "Programming fundamentals"},
	{Name: "Data Structures", Code: "CS201", Description: "Lists, trees, graphs and hashing"},
	{Name: "Algorithms", Code: "CS301", Description: "Design and analysis of algorithms"},
	{Name: "Calculus I", Code: "MATH101", Description: "Limits, derivatives and integrals"},
	{Name: "Linear Algebra", Code: "MATH201", Description: "Vectors, matrices and linear maps"},
	{Name: "General Physics", Code: "PHYS101", Description: "Mechanics and thermodynamics"},
}

// CreateDefaultData creates the default classes that don't exist yet.
// Existing codes are skipped; other failures are collected and returned together.
func CreateDefaultData(ctx context.Context, classes services.ClassService, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default classes...")

	var finalErr error
	created := 0
	for _, req := range DefaultClasses {
		_, err := classes.CreateClass(ctx, "", req)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrClassCodeExists):
		default:
			lgr.Error().Err(err).Str("code", req.Code).Msg("Error creating default class")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Int("created", created).Msg("Default classes ensured")
	return finalErr
}
