package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path"
	"strings"
	"time"

	"tdc_backend/internal/attachments"
	"tdc_backend/internal/logger"
	"tdc_backend/internal/metrics"
	"tdc_backend/internal/models"
	"tdc_backend/internal/repositories"
	"tdc_backend/internal/services/dto"
	"tdc_backend/internal/storage"
	"tdc_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// maxInsertAttempts bounds retries after a unique-number collision.
const maxInsertAttempts = 3

type RegistrationService interface {
	Register(ctx context.Context, db *gorm.DB, userID string, fields map[string]string, files map[string]attachments.File) (*dto.RegistrationSubmitted, error)
	Profile(ctx context.Context, db *gorm.DB, userID string) (*dto.RegistrationResponse, error)
}

type registrationService struct {
	userRepo         repositories.BasicUserRepository
	registrationRepo repositories.RegistrationRepository
	referenceRepo    repositories.ReferenceRepository
	store            storage.Storage
	metrics          *metrics.Metrics
}

func NewRegistrationService(
	userRepo repositories.BasicUserRepository,
	registrationRepo repositories.RegistrationRepository,
	referenceRepo repositories.ReferenceRepository,
	store storage.Storage,
	m *metrics.Metrics,
) RegistrationService {
	return &registrationService{
		userRepo:         userRepo,
		registrationRepo: registrationRepo,
		referenceRepo:    referenceRepo,
		store:            store,
		metrics:          m,
	}
}

func (s *registrationService) Register(ctx context.Context, db *gorm.DB, userID string, fields map[string]string, files map[string]attachments.File) (*dto.RegistrationSubmitted, error) {
	fields = trimFields(fields)
	if missing := missingFields(dto.RegistrationFields, fields); len(missing) > 0 {
		return nil, apperrors.MissingFields(missing...)
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrBasicUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	inFlight, err := s.registrationRepo.HasInFlight(db, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if inFlight {
		return nil, apperrors.ErrApplicationPending
	}

	category, err := s.referenceRepo.FindCategoryByID(db, fields["regcategory_id"])
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, apperrors.ErrInvalidCategory
		}
		return nil, apperrors.DatabaseError(err)
	}
	if _, err := s.referenceRepo.FindNationalityByID(db, fields["nationality_id"]); err != nil {
		if errors.Is(err, repositories.ErrNationalityNotFound) {
			return nil, apperrors.ErrInvalidNationality
		}
		return nil, apperrors.DatabaseError(err)
	}

	slots, ok := RegistrationSlots(category.Name)
	if !ok {
		return nil, apperrors.ErrInvalidCategory
	}
	if err := attachments.RequireUploads(slots, files); err != nil {
		return nil, slotError(err)
	}

	reg := &models.Registration{
		BasicUserID:              userID,
		NationalityID:            fields["nationality_id"],
		RegCategoryID:            category.ID,
		FirstName:                fields["f_name"],
		MiddleName:               fields["m_name"],
		LastName:                 fields["l_name"],
		FatherName:               fields["father_name"],
		MotherName:               fields["mother_name"],
		Place:                    fields["place"],
		DOB:                      fields["dob"],
		Category:                 fields["category"],
		Gender:                   fields["gender"],
		Email:                    fields["email"],
		MobileNumber:             fields["mobile_number"],
		Address:                  fields["address"],
		PanNumber:                fields["pan_number"],
		AadhaarNumber:            fields["aadhaar_number"],
		QualificationDescription: fields["qualification_description"],
		RegType:                  fields["regtype"],
		Status:                   models.StatusPending,
	}
	// resubmissions from an approved member keep their membership id
	if user.HasMembership() {
		reg.MembershipID = user.MembershipID
	}

	batch := attachments.NewBatch(s.store, path.Join("registrations", attachments.SanitizeFolder(reg.FullName())))
	urls, err := batch.UploadSlots(ctx, slots, files)
	if err != nil {
		return nil, apperrors.UpstreamError(err, "storage")
	}
	reg.Documents = datatypes.NewJSONType(urls)

	if err := s.persist(ctx, db, reg); err != nil {
		batch.Rollback(ctx)
		return nil, err
	}

	s.metrics.IncApplication("registration")
	logger.CtxInfo(ctx, "Registration submitted", "registration_id", reg.ID, "temporary_id", reg.TemporaryID)

	return &dto.RegistrationSubmitted{
		ApplicationID: reg.ID,
		TemporaryID:   reg.TemporaryID,
		Status:        reg.Status,
	}, nil
}

// persist inserts the registration and copies its identity fields onto the
// owner in one transaction, retrying with a fresh temporary id on collision.
func (s *registrationService) persist(ctx context.Context, db *gorm.DB, reg *models.Registration) error {
	for attempt := 1; attempt <= maxInsertAttempts; attempt++ {
		reg.ID = ""
		reg.TemporaryID = newTemporaryID(time.Now())

		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			inFlight, err := s.registrationRepo.HasInFlight(tx, reg.BasicUserID)
			if err != nil {
				return err
			}
			if inFlight {
				return apperrors.ErrApplicationPending
			}

			if err := s.registrationRepo.Create(tx, reg); err != nil {
				return err
			}

			return s.userRepo.UpdateFields(tx, reg.BasicUserID, map[string]interface{}{
				"category":                  reg.Category,
				"name_in_full":              reg.FullName(),
				"gender":                    reg.Gender,
				"father_name":               reg.FatherName,
				"mother_name":               reg.MotherName,
				"place":                     reg.Place,
				"dob":                       reg.DOB,
				"nationality_id":            reg.NationalityID,
				"address":                   reg.Address,
				"qualification_description": reg.QualificationDescription,
				"aadhaar_number":            reg.AadhaarNumber,
				"pan_number":                reg.PanNumber,
				"last_application_id":       reg.ID,
				"last_application_status":   models.StatusPending,
			})
		})
		switch {
		case err == nil:
			return nil
		case errors.Is(err, repositories.ErrTemporaryIDTaken):
			logger.CtxWarn(ctx, "Temporary id collision, retrying", "temporary_id", reg.TemporaryID, "attempt", attempt)
			continue
		case errors.Is(err, apperrors.ErrApplicationPending):
			return apperrors.ErrApplicationPending
		default:
			return apperrors.DatabaseError(err)
		}
	}
	return apperrors.ErrSequenceExhausted
}

func (s *registrationService) Profile(ctx context.Context, db *gorm.DB, userID string) (*dto.RegistrationResponse, error) {
	reg, err := s.registrationRepo.FindLatestByUser(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	return dto.NewRegistrationResponse(reg), nil
}

// newTemporaryID returns APP-<year>-<6 digits>.
func newTemporaryID(now time.Time) string {
	return fmt.Sprintf("APP-%d-%06d", now.Year(), 100000+rand.IntN(900000))
}

func trimFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = strings.TrimSpace(v)
	}
	return out
}

func missingFields(required []string, fields map[string]string) []string {
	var missing []string
	for _, name := range required {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// slotError maps attachment check failures onto validation errors.
func slotError(err error) error {
	var se *attachments.SlotError
	if !errors.As(err, &se) {
		return apperrors.InternalError(err)
	}
	if errors.Is(se, attachments.ErrIncomplete) {
		return apperrors.MissingFiles(se.Slots...)
	}
	details := make(map[string]string, len(se.Slots))
	for _, name := range se.Slots {
		details[name] = "Unexpected file field"
	}
	return apperrors.ValidationError(details)
}
