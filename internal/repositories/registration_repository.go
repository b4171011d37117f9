package repositories

import (
	"errors"
	"time"

	"tdc_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrTemporaryIDTaken     = errors.New("temporary id already issued")
)

type RegistrationRepository interface {
	Create(db *gorm.DB, reg *models.Registration) error
	FindByID(db *gorm.DB, id string) (*models.Registration, error)
	FindLatestByUser(db *gorm.DB, basicUserID string) (*models.Registration, error)
	HasInFlight(db *gorm.DB, basicUserID string) (bool, error)
	UpdateStatus(db *gorm.DB, id string, status models.ApplicationStatus, membershipID *string) error
}

type RegistrationRepositoryImpl struct{}

func NewRegistrationRepository() RegistrationRepository {
	return &RegistrationRepositoryImpl{}
}

func (r *RegistrationRepositoryImpl) Create(db *gorm.DB, reg *models.Registration) error {
	if err := db.Omit("RegCategory", "Nationality").Create(reg).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrTemporaryIDTaken
		}
		return err
	}
	return nil
}

func (r *RegistrationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Registration, error) {
	var reg models.Registration
	err := db.Preload("RegCategory").Preload("Nationality").First(&reg, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (r *RegistrationRepositoryImpl) FindLatestByUser(db *gorm.DB, basicUserID string) (*models.Registration, error) {
	var reg models.Registration
	err := db.Preload("RegCategory").Preload("Nationality").
		Where("basic_user_id = ?", basicUserID).
		Order("created_at DESC").
		First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

// HasInFlight reports a Pending or Under Review registration for the user.
func (r *RegistrationRepositoryImpl) HasInFlight(db *gorm.DB, basicUserID string) (bool, error) {
	var count int64
	err := db.Model(&models.Registration{}).
		Where("basic_user_id = ? AND status IN ?", basicUserID,
			[]models.ApplicationStatus{models.StatusPending, models.StatusUnderReview}).
		Count(&count).Error
	return count > 0, err
}

func (r *RegistrationRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.ApplicationStatus, membershipID *string) error {
	fields := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if membershipID != nil {
		fields["membership_id"] = *membershipID
	}

	result := db.Model(&models.Registration{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}
