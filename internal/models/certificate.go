package models

import (
	"time"

	"gorm.io/datatypes"
)

// CertificateApplication stores GSC and NOC requests; Kind selects the descriptor.
type CertificateApplication struct {
	BaseModel
	Kind          CertificateKind                 `gorm:"type:varchar(10);not null;uniqueIndex:idx_cert_kind_no"`
	ApplicationNo string                          `gorm:"not null;uniqueIndex:idx_cert_kind_no"`
	BasicUserID   string                          `gorm:"not null;index"`
	Name          string                          `gorm:"not null"`
	Status        ApplicationStatus               `gorm:"type:varchar(20);not null"`
	Documents     datatypes.JSONType[DocumentMap] `gorm:"type:json"`
	Fields        datatypes.JSONType[FieldMap]    `gorm:"type:json"`
}

// ApplicationDate is the later of creation and last update.
func (c *CertificateApplication) ApplicationDate() time.Time {
	return LaterOf(c.CreatedAt, c.UpdatedAt)
}

func LaterOf(createdAt, updatedAt time.Time) time.Time {
	if updatedAt.After(createdAt) {
		return updatedAt
	}
	return createdAt
}
