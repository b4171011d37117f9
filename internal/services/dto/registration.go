package dto

import (
	"time"

	"tdc_backend/internal/models"
)

// RegistrationFields lists the text fields every registration must carry, in reporting order.
var RegistrationFields = []string{
	"nationality_id",
	"regcategory_id",
	"f_name",
	"l_name",
	"father_name",
	"mother_name",
	"place",
	"dob",
	"category",
	"address",
	"pan_number",
	"aadhaar_number",
	"email",
	"mobile_number",
	"regtype",
	"gender",
}

type RegistrationSubmitted struct {
	ApplicationID string                   `json:"application_id"`
	TemporaryID   string                   `json:"temporary_id"`
	Status        models.ApplicationStatus `json:"status"`
}

type NamedRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type RegistrationResponse struct {
	ID                       string                   `json:"id"`
	BasicUserID              string                   `json:"basic_user_id"`
	TemporaryID              string                   `json:"temporary_id"`
	MembershipID             *string                  `json:"membership_id"`
	Nationality              *NamedRef                `json:"nationality_id"`
	RegCategory              *NamedRef                `json:"regcategory_id"`
	FirstName                string                   `json:"f_name"`
	MiddleName               string                   `json:"m_name,omitempty"`
	LastName                 string                   `json:"l_name"`
	FatherName               string                   `json:"father_name"`
	MotherName               string                   `json:"mother_name"`
	Place                    string                   `json:"place"`
	DOB                      string                   `json:"dob"`
	Category                 string                   `json:"category"`
	Gender                   string                   `json:"gender"`
	Email                    string                   `json:"email"`
	MobileNumber             string                   `json:"mobile_number"`
	Address                  string                   `json:"address"`
	PanNumber                string                   `json:"pan_number"`
	AadhaarNumber            string                   `json:"aadhaar_number"`
	QualificationDescription string                   `json:"qualification_description,omitempty"`
	RegType                  string                   `json:"regtype"`
	Status                   models.ApplicationStatus `json:"status"`
	Documents                map[string]string        `json:"documents"`
	CreatedAt                time.Time                `json:"createdAt"`
	UpdatedAt                time.Time                `json:"updatedAt"`
	ApplicationDate          time.Time                `json:"applicationDate"`
}

func NewRegistrationResponse(r *models.Registration) *RegistrationResponse {
	resp := &RegistrationResponse{
		ID:                       r.ID,
		BasicUserID:              r.BasicUserID,
		TemporaryID:              r.TemporaryID,
		MembershipID:             r.MembershipID,
		Nationality:              &NamedRef{ID: r.NationalityID},
		RegCategory:              &NamedRef{ID: r.RegCategoryID},
		FirstName:                r.FirstName,
		MiddleName:               r.MiddleName,
		LastName:                 r.LastName,
		FatherName:               r.FatherName,
		MotherName:               r.MotherName,
		Place:                    r.Place,
		DOB:                      r.DOB,
		Category:                 r.Category,
		Gender:                   r.Gender,
		Email:                    r.Email,
		MobileNumber:             r.MobileNumber,
		Address:                  r.Address,
		PanNumber:                r.PanNumber,
		AadhaarNumber:            r.AadhaarNumber,
		QualificationDescription: r.QualificationDescription,
		RegType:                  r.RegType,
		Status:                   r.Status,
		Documents:                r.Documents.Data(),
		CreatedAt:                r.CreatedAt,
		UpdatedAt:                r.UpdatedAt,
		ApplicationDate:          models.LaterOf(r.CreatedAt, r.UpdatedAt),
	}
	if r.Nationality != nil {
		resp.Nationality.Name = r.Nationality.Name
	}
	if r.RegCategory != nil {
		resp.RegCategory.Name = r.RegCategory.Name
	}
	return resp
}
