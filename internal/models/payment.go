package models

// Payment is one gateway order opened for a BasicUser.
type Payment struct {
	BaseModel
	BasicUserID     string `gorm:"not null;index"`
	PaymentCategory string
	PaymentType     string
	Amount          int64         `gorm:"not null"` // major currency units
	Currency        string        `gorm:"type:varchar(3);not null"`
	OrderID         string        `gorm:"uniqueIndex;not null"`
	PaymentID       *string       `gorm:"index"`
	PaymentStatus   PaymentStatus `gorm:"type:varchar(20);not null;default:'Pending'"`
}
