package repositories

import (
	"errors"
	"time"

	"tdc_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrOrderAlreadyExists = errors.New("payment order already recorded")
)

type PaymentRepository interface {
	Create(db *gorm.DB, payment *models.Payment) error
	FindByOrderID(db *gorm.DB, orderID string) (*models.Payment, error)
	MarkSuccess(db *gorm.DB, orderID, paymentID string) (bool, error)
}

type PaymentRepositoryImpl struct{}

func NewPaymentRepository() PaymentRepository {
	return &PaymentRepositoryImpl{}
}

func (r *PaymentRepositoryImpl) Create(db *gorm.DB, payment *models.Payment) error {
	if err := db.Create(payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrOrderAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PaymentRepositoryImpl) FindByOrderID(db *gorm.DB, orderID string) (*models.Payment, error) {
	var payment models.Payment
	if err := db.First(&payment, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// MarkSuccess moves a Pending payment to Success. It reports false when no
// Pending row matched, leaving the caller to tell a missing order from a settled one.
func (r *PaymentRepositoryImpl) MarkSuccess(db *gorm.DB, orderID, paymentID string) (bool, error) {
	result := db.Model(&models.Payment{}).
		Where("order_id = ? AND payment_status = ?", orderID, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"payment_status": models.PaymentStatusSuccess,
			"payment_id":     paymentID,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
