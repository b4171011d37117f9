package dto

import "tdc_backend/internal/models"

type CategoryResponse struct {
	ID            string `json:"_id"`
	Name          string `json:"name"`
	RegularAmount int64  `json:"regular_amount"`
	TatkalAmount  int64  `json:"tatkal_amount"`
}

type ReviewRequest struct {
	Status models.ApplicationStatus `json:"status" validate:"required,is-application-status"`
}

func NewCategoryResponses(categories []models.RegistrationCategory) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{
			ID:            c.ID,
			Name:          c.Name,
			RegularAmount: c.RegularAmount,
			TatkalAmount:  c.TatkalAmount,
		})
	}
	return out
}

func NewNationalityResponses(nationalities []models.Nationality) []NamedRef {
	out := make([]NamedRef, 0, len(nationalities))
	for _, n := range nationalities {
		out = append(out, NamedRef{ID: n.ID, Name: n.Name})
	}
	return out
}
