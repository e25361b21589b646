package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	appModels "github.com/oussamab/maktaba/internal/app/models"
	appRepos "github.com/oussamab/maktaba/internal/app/repositories"
	"github.com/oussamab/maktaba/internal/pkg/apperrors"
)

// defaultCategories are created on first startup so the catalog is
// browsable before a librarian adds custom ones.
var defaultCategories = []string{
	"Science",
	"Literature",
	"History",
	"Technology",
	"Administration",
}

// CreateDefaultData seeds the default categories and a demo student if
// they don't exist. Errors are collected; a partial seed must not stop
// the server from starting.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	categoryRepo := appRepos.NewCategoryRepository(dbPool)
	studentRepo := appRepos.NewStudentRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (categories, demo student)...")
	var finalErr error

	for _, name := range defaultCategories {
		_, err := categoryRepo.GetByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperrors.ErrCategoryNotFound) {
			lgr.Error().Err(err).Str("category", name).Msg("Error checking default category")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		if err := categoryRepo.Create(ctx, &appModels.Category{Name: name}); err != nil {
			lgr.Error().Err(err).Str("category", name).Msg("Error creating default category")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if err := createDemoStudent(ctx, studentRepo, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

// createDemoStudent inserts a known student account for local testing.
// The campus auth service owns real accounts; this one only exists so
// tokens minted against the local secret resolve to a row.
func createDemoStudent(ctx context.Context, studentRepo *appRepos.StudentRepository, lgr zerolog.Logger) error {
	const demoEmail = "student@maktaba.local"

	_, err := studentRepo.GetByEmail(ctx, demoEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		lgr.Error().Err(err).Msg("Error checking demo student")
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("maktaba123"), bcrypt.DefaultCost)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing demo student password")
		return err
	}

	student := &appModels.Student{
		FullName: "Demo Student",
		Email:    demoEmail,
		Password: string(hashed),
	}
	if err := studentRepo.Create(ctx, student); err != nil {
		lgr.Error().Err(err).Msg("Error creating demo student")
		return err
	}

	lgr.Info().Int64("studentId", student.ID).Msg("Demo student created")
	return nil
}
