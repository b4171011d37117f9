package dto

import (
	"encoding/json"
	"time"

	"tdc_backend/internal/models"
)

// CertificateResponse renders a GSC/NOC record with its document URLs and
// text fields flattened into the top-level object.
type CertificateResponse struct {
	ID              string                   `json:"_id"`
	Kind            models.CertificateKind   `json:"kind"`
	ApplicationNo   string                   `json:"applicationNo"`
	BasicUserID     string                   `json:"basic_user_id"`
	Name            string                   `json:"name"`
	Status          models.ApplicationStatus `json:"status"`
	CreatedAt       time.Time                `json:"createdAt"`
	UpdatedAt       time.Time                `json:"updatedAt"`
	ApplicationDate time.Time                `json:"applicationDate"`
	Documents       map[string]string        `json:"-"`
	Fields          map[string]string        `json:"-"`
}

func NewCertificateResponse(c *models.CertificateApplication) *CertificateResponse {
	return &CertificateResponse{
		ID:              c.ID,
		Kind:            c.Kind,
		ApplicationNo:   c.ApplicationNo,
		BasicUserID:     c.BasicUserID,
		Name:            c.Name,
		Status:          c.Status,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		ApplicationDate: c.ApplicationDate(),
		Documents:       c.Documents.Data(),
		Fields:          c.Fields.Data(),
	}
}

func NewCertificateResponses(apps []models.CertificateApplication) []*CertificateResponse {
	out := make([]*CertificateResponse, 0, len(apps))
	for i := range apps {
		out = append(out, NewCertificateResponse(&apps[i]))
	}
	return out
}

func (r *CertificateResponse) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, 9+len(r.Documents)+len(r.Fields))
	for k, v := range r.Fields {
		out[k] = v
	}
	for k, v := range r.Documents {
		out[k] = v
	}
	out["_id"] = r.ID
	out["kind"] = r.Kind
	out["applicationNo"] = r.ApplicationNo
	out["basic_user_id"] = r.BasicUserID
	out["name"] = r.Name
	out["status"] = r.Status
	out["createdAt"] = r.CreatedAt
	out["updatedAt"] = r.UpdatedAt
	out["applicationDate"] = r.ApplicationDate
	return json.Marshal(out)
}
