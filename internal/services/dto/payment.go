package dto

import (
	"time"

	"tdc_backend/internal/models"
)

type CheckoutUser struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// CreateOrderResponse is what the browser checkout needs. Amount is in minor units.
type CreateOrderResponse struct {
	Key      string       `json:"key"`
	OrderID  string       `json:"order_id"`
	Amount   int64        `json:"amount"`
	Currency string       `json:"currency"`
	User     CheckoutUser `json:"user"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

type PaymentResponse struct {
	ID              string               `json:"_id"`
	BasicUserID     string               `json:"basic_user_id"`
	PaymentCategory string               `json:"payment_category"`
	PaymentType     string               `json:"payment_type"`
	Amount          int64                `json:"amount"`
	Currency        string               `json:"currency"`
	OrderID         string               `json:"order_id"`
	PaymentID       *string              `json:"payment_id"`
	PaymentStatus   models.PaymentStatus `json:"payment_status"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

func NewPaymentResponse(p *models.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:              p.ID,
		BasicUserID:     p.BasicUserID,
		PaymentCategory: p.PaymentCategory,
		PaymentType:     p.PaymentType,
		Amount:          p.Amount,
		Currency:        p.Currency,
		OrderID:         p.OrderID,
		PaymentID:       p.PaymentID,
		PaymentStatus:   p.PaymentStatus,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
