package dto

import (
	"time"

	"tdc_backend/internal/models"
)

type SignupRequest struct {
	FullName        string `json:"full_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	MobileNumber    string `json:"mobile_number" validate:"required,mobile"`
	Password        string `json:"password" validate:"required,strong-password"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,strong-password"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// BasicUserResponse never carries the password hash or reset token.
type BasicUserResponse struct {
	ID                       string                   `json:"id"`
	FullName                 string                   `json:"full_name"`
	Email                    string                   `json:"email"`
	MobileNumber             string                   `json:"mobile_number"`
	MembershipID             *string                  `json:"membership_id"`
	Category                 string                   `json:"category,omitempty"`
	NameInFull               string                   `json:"name_in_full,omitempty"`
	Gender                   string                   `json:"gender,omitempty"`
	FatherName               string                   `json:"father_name,omitempty"`
	MotherName               string                   `json:"mother_name,omitempty"`
	Place                    string                   `json:"place,omitempty"`
	DOB                      string                   `json:"dob,omitempty"`
	NationalityID            string                   `json:"nationality_id,omitempty"`
	Address                  string                   `json:"address,omitempty"`
	QualificationDescription string                   `json:"qualification_description,omitempty"`
	AadhaarNumber            string                   `json:"aadhaar_number,omitempty"`
	PanNumber                string                   `json:"pan_number,omitempty"`
	LastApplicationID        *string                  `json:"last_application"`
	LastApplicationStatus    models.ApplicationStatus `json:"last_application_status"`
	CreatedAt                time.Time                `json:"createdAt"`
	UpdatedAt                time.Time                `json:"updatedAt"`
}

type AuthResponse struct {
	Token string             `json:"token"`
	User  *BasicUserResponse `json:"user"`
}

func NewBasicUserResponse(u *models.BasicUser) *BasicUserResponse {
	return &BasicUserResponse{
		ID:                       u.ID,
		FullName:                 u.FullName,
		Email:                    u.Email,
		MobileNumber:             u.MobileNumber,
		MembershipID:             u.MembershipID,
		Category:                 u.Category,
		NameInFull:               u.NameInFull,
		Gender:                   u.Gender,
		FatherName:               u.FatherName,
		MotherName:               u.MotherName,
		Place:                    u.Place,
		DOB:                      u.DOB,
		NationalityID:            u.NationalityID,
		Address:                  u.Address,
		QualificationDescription: u.QualificationDescription,
		AadhaarNumber:            u.AadhaarNumber,
		PanNumber:                u.PanNumber,
		LastApplicationID:        u.LastApplicationID,
		LastApplicationStatus:    u.LastApplicationStatus,
		CreatedAt:                u.CreatedAt,
		UpdatedAt:                u.UpdatedAt,
	}
}
