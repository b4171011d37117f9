package services

import (
	"fmt"
	"sort"

	"tdc_backend/internal/attachments"
	"tdc_backend/internal/models"
)

var baseRegistrationSlots = []attachments.Slot{
	{Name: "pan_upload", Label: "PAN card"},
	{Name: "aadhaar_upload", Label: "Aadhaar card"},
	{Name: "sign_upload", Label: "Signature"},
}

// categorySlots lists the documents each registration category adds on top
// of the base set. Keys are registration_categories.name.
var categorySlots = map[string][]attachments.Slot{
	"BDS": {
		{Name: "bds_degree_upload", Label: "BDS degree certificate"},
		{Name: "internship_upload", Label: "Internship completion certificate"},
		{Name: "ssc_upload", Label: "SSC memo"},
		{Name: "photo_upload", Label: "Passport photo", Optional: true},
	},
	"MDS": {
		{Name: "bds_degree_upload", Label: "BDS degree certificate"},
		{Name: "mds_degree_upload", Label: "MDS degree certificate"},
		{Name: "internship_upload", Label: "Internship completion certificate"},
		{Name: "ssc_upload", Label: "SSC memo"},
		{Name: "photo_upload", Label: "Passport photo", Optional: true},
	},
	"Foreign Dental Graduate": {
		{Name: "foreign_degree_upload", Label: "Foreign dental degree"},
		{Name: "dci_screening_upload", Label: "DCI screening test result"},
		{Name: "passport_upload", Label: "Passport"},
		{Name: "internship_upload", Label: "Internship completion certificate"},
		{Name: "photo_upload", Label: "Passport photo", Optional: true},
	},
	"Dental Hygienist": {
		{Name: "diploma_upload", Label: "Diploma certificate"},
		{Name: "ssc_upload", Label: "SSC memo"},
	},
	"Dental Mechanic": {
		{Name: "diploma_upload", Label: "Diploma certificate"},
		{Name: "ssc_upload", Label: "SSC memo"},
	},
}

// RegistrationSlots returns the full document set for a category name.
func RegistrationSlots(category string) ([]attachments.Slot, bool) {
	extra, ok := categorySlots[category]
	if !ok {
		return nil, false
	}
	slots := make([]attachments.Slot, 0, len(baseRegistrationSlots)+len(extra))
	slots = append(slots, baseRegistrationSlots...)
	slots = append(slots, extra...)
	return slots, true
}

// CheckCategorySlots fails when a stored category has no document set.
func CheckCategorySlots(categories []models.RegistrationCategory) error {
	var unknown []string
	for _, c := range categories {
		if _, ok := categorySlots[c.Name]; !ok {
			unknown = append(unknown, c.Name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("registration categories without a document set: %v", unknown)
	}
	return nil
}
