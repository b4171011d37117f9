package repositories

import (
	"errors"
	"strings"
	"time"

	"tdc_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrBasicUserNotFound      = errors.New("basic user not found")
	ErrBasicUserAlreadyExists = errors.New("basic user already exists")
)

type BasicUserRepository interface {
	Create(db *gorm.DB, user *models.BasicUser) error
	FindByID(db *gorm.DB, id string) (*models.BasicUser, error)
	FindByEmail(db *gorm.DB, email string) (*models.BasicUser, error)
	ExistsByEmail(db *gorm.DB, email string) (bool, error)
	ExistsByMobile(db *gorm.DB, mobile string) (bool, error)
	FindByResetToken(db *gorm.DB, email, tokenHash string, now time.Time) (*models.BasicUser, error)
	UpdateFields(db *gorm.DB, id string, fields map[string]interface{}) error
	LatestMembershipID(db *gorm.DB) (string, error)
	ClearExpiredResetTokens(db *gorm.DB, now time.Time) (int64, error)
}

type BasicUserRepositoryImpl struct{}

func NewBasicUserRepository() BasicUserRepository {
	return &BasicUserRepositoryImpl{}
}

// NormalizeEmail is the canonical stored form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *BasicUserRepositoryImpl) Create(db *gorm.DB, user *models.BasicUser) error {
	user.Email = NormalizeEmail(user.Email)
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrBasicUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *BasicUserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.BasicUser, error) {
	var user models.BasicUser
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBasicUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *BasicUserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.BasicUser, error) {
	var user models.BasicUser
	if err := db.First(&user, "email = ?", NormalizeEmail(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBasicUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *BasicUserRepositoryImpl) ExistsByEmail(db *gorm.DB, email string) (bool, error) {
	var count int64
	err := db.Model(&models.BasicUser{}).Where("email = ?", NormalizeEmail(email)).Count(&count).Error
	return count > 0, err
}

func (r *BasicUserRepositoryImpl) ExistsByMobile(db *gorm.DB, mobile string) (bool, error) {
	var count int64
	err := db.Model(&models.BasicUser{}).Where("mobile_number = ?", strings.TrimSpace(mobile)).Count(&count).Error
	return count > 0, err
}

// FindByResetToken matches email and hashed token; an expired token counts as not found.
func (r *BasicUserRepositoryImpl) FindByResetToken(db *gorm.DB, email, tokenHash string, now time.Time) (*models.BasicUser, error) {
	if tokenHash == "" {
		return nil, ErrBasicUserNotFound
	}

	var user models.BasicUser
	err := db.Where("email = ? AND reset_password_token = ?", NormalizeEmail(email), tokenHash).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBasicUserNotFound
		}
		return nil, err
	}
	if user.ResetPasswordExpire == nil || !now.Before(*user.ResetPasswordExpire) {
		return nil, ErrBasicUserNotFound
	}
	return &user, nil
}

func (r *BasicUserRepositoryImpl) UpdateFields(db *gorm.DB, id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result := db.Model(&models.BasicUser{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrBasicUserAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBasicUserNotFound
	}
	return nil
}

// LatestMembershipID returns the most recently issued membership id, or "".
func (r *BasicUserRepositoryImpl) LatestMembershipID(db *gorm.DB) (string, error) {
	var user models.BasicUser
	err := db.Select("membership_id").
		Where("membership_id IS NOT NULL AND membership_id <> ''").
		Order("updated_at DESC").
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return *user.MembershipID, nil
}

// ClearExpiredResetTokens drops reset tokens whose expiry is before now.
func (r *BasicUserRepositoryImpl) ClearExpiredResetTokens(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.BasicUser{}).
		Where("reset_password_token <> '' AND reset_password_expire < ?", now).
		Updates(map[string]interface{}{
			"reset_password_token":  "",
			"reset_password_expire": nil,
		})
	return result.RowsAffected, result.Error
}
