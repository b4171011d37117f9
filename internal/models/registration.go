package models

import "gorm.io/datatypes"

// Registration is a full registration application filed by a BasicUser.
type Registration struct {
	BaseModel
	BasicUserID              string  `gorm:"not null;index"`
	TemporaryID              string  `gorm:"uniqueIndex;not null"`
	MembershipID             *string `gorm:"index"`
	NationalityID            string  `gorm:"not null"`
	RegCategoryID            string  `gorm:"column:regcategory_id;not null"`
	FirstName                string  `gorm:"column:f_name;not null"`
	MiddleName               string  `gorm:"column:m_name"`
	LastName                 string  `gorm:"column:l_name;not null"`
	FatherName               string
	MotherName               string
	Place                    string
	DOB                      string `gorm:"column:dob"`
	Category                 string
	Gender                   string
	Email                    string
	MobileNumber             string
	Address                  string
	PanNumber                string
	AadhaarNumber            string
	QualificationDescription string
	RegType                  string                          `gorm:"column:regtype"`
	Status                   ApplicationStatus               `gorm:"type:varchar(20);not null;index"`
	Documents                datatypes.JSONType[DocumentMap] `gorm:"type:json"`

	// Relations
	RegCategory *RegistrationCategory `gorm:"foreignKey:RegCategoryID"`
	Nationality *Nationality          `gorm:"foreignKey:NationalityID"`
}

// FullName joins the non-empty name parts.
func (r *Registration) FullName() string {
	name := r.FirstName
	if r.MiddleName != "" {
		name += " " + r.MiddleName
	}
	if r.LastName != "" {
		name += " " + r.LastName
	}
	return name
}
