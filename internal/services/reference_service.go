package services

import (
	"context"
	"fmt"
	"strings"

	"tdc_backend/internal/config"
	"tdc_backend/internal/logger"
	"tdc_backend/internal/models"
	"tdc_backend/internal/repositories"
	"tdc_backend/internal/services/dto"
	"tdc_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReferenceService interface {
	ListCategories(ctx context.Context, db *gorm.DB) ([]dto.CategoryResponse, error)
	ListNationalities(ctx context.Context, db *gorm.DB) ([]dto.NamedRef, error)
	Seed(ctx context.Context, db *gorm.DB, ref config.ReferenceConfig) error
	CheckCategorySlots(ctx context.Context, db *gorm.DB) error
}

type referenceService struct {
	referenceRepo repositories.ReferenceRepository
}

func NewReferenceService(referenceRepo repositories.ReferenceRepository) ReferenceService {
	return &referenceService{referenceRepo: referenceRepo}
}

func (s *referenceService) ListCategories(ctx context.Context, db *gorm.DB) ([]dto.CategoryResponse, error) {
	categories, err := s.referenceRepo.ListCategories(db.WithContext(ctx))
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return dto.NewCategoryResponses(categories), nil
}

func (s *referenceService) ListNationalities(ctx context.Context, db *gorm.DB) ([]dto.NamedRef, error) {
	nationalities, err := s.referenceRepo.ListNationalities(db.WithContext(ctx))
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return dto.NewNationalityResponses(nationalities), nil
}

// Seed upserts the configured categories and nationalities.
func (s *referenceService) Seed(ctx context.Context, db *gorm.DB, ref config.ReferenceConfig) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range ref.Categories {
			category := &models.RegistrationCategory{
				Name:          strings.TrimSpace(c.Name),
				RegularAmount: c.RegularAmount,
				TatkalAmount:  c.TatkalAmount,
			}
			if err := s.referenceRepo.UpsertCategory(tx, category); err != nil {
				return fmt.Errorf("failed to seed category %q: %w", c.Name, err)
			}
		}
		for _, name := range ref.Nationalities {
			if err := s.referenceRepo.UpsertNationality(tx, &models.Nationality{Name: strings.TrimSpace(name)}); err != nil {
				return fmt.Errorf("failed to seed nationality %q: %w", name, err)
			}
		}
		logger.CtxInfo(ctx, "Reference data seeded", "categories", len(ref.Categories), "nationalities", len(ref.Nationalities))
		return nil
	})
}

// CheckCategorySlots fails when a stored category has no document set.
func (s *referenceService) CheckCategorySlots(ctx context.Context, db *gorm.DB) error {
	categories, err := s.referenceRepo.ListCategories(db.WithContext(ctx))
	if err != nil {
		return err
	}
	return CheckCategorySlots(categories)
}
