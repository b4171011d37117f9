package repositories

import (
	"errors"
	"time"

	"tdc_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCertificateNotFound    = errors.New("certificate application not found")
	ErrApplicationNumberTaken = errors.New("application number already issued")
)

type CertificateRepository interface {
	Create(db *gorm.DB, app *models.CertificateApplication) error
	FindByOwnerAndNumber(db *gorm.DB, kind models.CertificateKind, basicUserID, applicationNo string) (*models.CertificateApplication, error)
	FindByNumber(db *gorm.DB, kind models.CertificateKind, applicationNo string) (*models.CertificateApplication, error)
	ListByOwner(db *gorm.DB, kind models.CertificateKind, basicUserID string) ([]models.CertificateApplication, error)
	LatestNumber(db *gorm.DB, kind models.CertificateKind) (string, error)
	SaveContent(db *gorm.DB, app *models.CertificateApplication) error
	UpdateStatus(db *gorm.DB, kind models.CertificateKind, applicationNo string, status models.ApplicationStatus) error
}

type CertificateRepositoryImpl struct{}

func NewCertificateRepository() CertificateRepository {
	return &CertificateRepositoryImpl{}
}

func (r *CertificateRepositoryImpl) Create(db *gorm.DB, app *models.CertificateApplication) error {
	if err := db.Create(app).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrApplicationNumberTaken
		}
		return err
	}
	return nil
}

func (r *CertificateRepositoryImpl) FindByOwnerAndNumber(db *gorm.DB, kind models.CertificateKind, basicUserID, applicationNo string) (*models.CertificateApplication, error) {
	var app models.CertificateApplication
	err := db.Where("kind = ? AND basic_user_id = ? AND application_no = ?", kind, basicUserID, applicationNo).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *CertificateRepositoryImpl) FindByNumber(db *gorm.DB, kind models.CertificateKind, applicationNo string) (*models.CertificateApplication, error) {
	var app models.CertificateApplication
	err := db.Where("kind = ? AND application_no = ?", kind, applicationNo).First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	return &app, nil
}

// ListByOwner returns the user's applications newest first.
func (r *CertificateRepositoryImpl) ListByOwner(db *gorm.DB, kind models.CertificateKind, basicUserID string) ([]models.CertificateApplication, error) {
	var apps []models.CertificateApplication
	err := db.Where("kind = ? AND basic_user_id = ?", kind, basicUserID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// LatestNumber returns the application number of the most recently created record, or "".
func (r *CertificateRepositoryImpl) LatestNumber(db *gorm.DB, kind models.CertificateKind) (string, error) {
	var app models.CertificateApplication
	err := db.Select("application_no").
		Where("kind = ?", kind).
		Order("created_at DESC").
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return app.ApplicationNo, nil
}

// SaveContent writes the mutable columns; kind, number, owner and created_at never change.
func (r *CertificateRepositoryImpl) SaveContent(db *gorm.DB, app *models.CertificateApplication) error {
	app.UpdatedAt = time.Now()
	result := db.Model(app).
		Select("name", "status", "documents", "fields", "updated_at").
		Updates(app)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCertificateNotFound
	}
	return nil
}

func (r *CertificateRepositoryImpl) UpdateStatus(db *gorm.DB, kind models.CertificateKind, applicationNo string, status models.ApplicationStatus) error {
	result := db.Model(&models.CertificateApplication{}).
		Where("kind = ? AND application_no = ?", kind, applicationNo).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCertificateNotFound
	}
	return nil
}
