package repositories

import (
	"errors"

	"tdc_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound    = errors.New("registration category not found")
	ErrNationalityNotFound = errors.New("nationality not found")
)

type ReferenceRepository interface {
	ListCategories(db *gorm.DB) ([]models.RegistrationCategory, error)
	ListNationalities(db *gorm.DB) ([]models.Nationality, error)
	FindCategoryByID(db *gorm.DB, id string) (*models.RegistrationCategory, error)
	FindNationalityByID(db *gorm.DB, id string) (*models.Nationality, error)
	UpsertCategory(db *gorm.DB, category *models.RegistrationCategory) error
	UpsertNationality(db *gorm.DB, nationality *models.Nationality) error
}

type ReferenceRepositoryImpl struct{}

func NewReferenceRepository() ReferenceRepository {
	return &ReferenceRepositoryImpl{}
}

func (r *ReferenceRepositoryImpl) ListCategories(db *gorm.DB) ([]models.RegistrationCategory, error) {
	var categories []models.RegistrationCategory
	err := db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *ReferenceRepositoryImpl) ListNationalities(db *gorm.DB) ([]models.Nationality, error) {
	var nationalities []models.Nationality
	err := db.Order("name ASC").Find(&nationalities).Error
	return nationalities, err
}

func (r *ReferenceRepositoryImpl) FindCategoryByID(db *gorm.DB, id string) (*models.RegistrationCategory, error) {
	var category models.RegistrationCategory
	if err := db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *ReferenceRepositoryImpl) FindNationalityByID(db *gorm.DB, id string) (*models.Nationality, error) {
	var nationality models.Nationality
	if err := db.First(&nationality, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNationalityNotFound
		}
		return nil, err
	}
	return &nationality, nil
}

// UpsertCategory inserts by name or refreshes the fee schedule of an existing row.
func (r *ReferenceRepositoryImpl) UpsertCategory(db *gorm.DB, category *models.RegistrationCategory) error {
	var existing models.RegistrationCategory
	err := db.Where("name = ?", category.Name).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return db.Create(category).Error
	case err != nil:
		return err
	}

	category.ID = existing.ID
	return db.Model(&existing).Updates(map[string]interface{}{
		"regular_amount": category.RegularAmount,
		"tatkal_amount":  category.TatkalAmount,
	}).Error
}

func (r *ReferenceRepositoryImpl) UpsertNationality(db *gorm.DB, nationality *models.Nationality) error {
	return db.Where(models.Nationality{Name: nationality.Name}).FirstOrCreate(nationality).Error
}
