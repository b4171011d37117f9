package models

type RegistrationCategory struct {
	BaseModel
	Name          string `gorm:"uniqueIndex;not null"`
	RegularAmount int64  `gorm:"not null"`
	TatkalAmount  int64  `gorm:"not null"`
}

type Nationality struct {
	BaseModel
	Name string `gorm:"uniqueIndex;not null"`
}

// ApplicationCounter holds the last issued sequence value per kind.
type ApplicationCounter struct {
	Kind      string `gorm:"primaryKey;type:varchar(32)"`
	LastValue int64  `gorm:"not null"`
}

// AllModels lists every table for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&BasicUser{},
		&RegistrationCategory{},
		&Nationality{},
		&Registration{},
		&CertificateApplication{},
		&Payment{},
		&ApplicationCounter{},
	}
}
