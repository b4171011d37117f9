package models

import "time"

type BasicUser struct {
	BaseModel
	FullName            string  `gorm:"not null"`
	Email               string  `gorm:"uniqueIndex;not null"`
	MobileNumber        string  `gorm:"uniqueIndex;not null"`
	PasswordHash        string  `gorm:"not null"`
	ResetPasswordToken  string  `gorm:"index"`
	MembershipID        *string `gorm:"uniqueIndex"`
	ResetPasswordExpire *time.Time

	// Profile fields copied down from the latest registration
	Category                 string
	NameInFull               string
	Gender                   string
	FatherName               string
	MotherName               string
	Place                    string
	DOB                      string
	NationalityID            string
	Address                  string
	QualificationDescription string
	AadhaarNumber            string
	PanNumber                string

	LastApplicationID     *string
	LastApplicationStatus ApplicationStatus `gorm:"type:varchar(20);default:'Pending'"`

	// Relations
	Applications []Registration `gorm:"foreignKey:BasicUserID"`
}

// HasMembership reports whether the council has issued a membership id.
func (u *BasicUser) HasMembership() bool {
	return u.MembershipID != nil && *u.MembershipID != ""
}
