package services

import (
	"context"
	"errors"

	"tdc_backend/internal/logger"
	"tdc_backend/internal/models"
	"tdc_backend/internal/repositories"
	"tdc_backend/internal/sequence"
	"tdc_backend/internal/services/dto"
	"tdc_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	membershipKind   = "membership"
	membershipPrefix = "TDC"
)

// ReviewService carries the council's decisions on submitted applications.
type ReviewService interface {
	ReviewRegistration(ctx context.Context, db *gorm.DB, registrationID string, status models.ApplicationStatus) (*dto.RegistrationResponse, error)
	ReviewCertificate(ctx context.Context, db *gorm.DB, kind models.CertificateKind, applicationNo string, status models.ApplicationStatus) (*dto.CertificateResponse, error)
}

type reviewService struct {
	userRepo         repositories.BasicUserRepository
	registrationRepo repositories.RegistrationRepository
	certRepo         repositories.CertificateRepository
	seq              *sequence.Generator
}

func NewReviewService(
	userRepo repositories.BasicUserRepository,
	registrationRepo repositories.RegistrationRepository,
	certRepo repositories.CertificateRepository,
	seq *sequence.Generator,
) ReviewService {
	return &reviewService{
		userRepo:         userRepo,
		registrationRepo: registrationRepo,
		certRepo:         certRepo,
		seq:              seq,
	}
}

// ReviewRegistration moves a Pending or Under Review registration forward.
// Approval issues a membership id unless the user already holds one.
func (s *reviewService) ReviewRegistration(ctx context.Context, db *gorm.DB, registrationID string, status models.ApplicationStatus) (*dto.RegistrationResponse, error) {
	if status == models.StatusPending || !status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.DatabaseError(tx.Error)
	}
	defer tx.Rollback()

	reg, err := s.registrationRepo.FindByID(tx, registrationID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, apperrors.ErrRegistrationNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	if !reg.Status.InFlight() {
		return nil, apperrors.ErrInvalidStatus
	}

	user, err := s.userRepo.FindByID(tx, reg.BasicUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrBasicUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	var membershipID *string
	if status == models.StatusApproved {
		id, err := s.membershipID(ctx, tx, user)
		if err != nil {
			return nil, apperrors.DatabaseError(err)
		}
		membershipID = &id
	}

	if err := s.registrationRepo.UpdateStatus(tx, reg.ID, status, membershipID); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	userFields := map[string]interface{}{}
	if membershipID != nil && !user.HasMembership() {
		userFields["membership_id"] = *membershipID
	}
	if user.LastApplicationID != nil && *user.LastApplicationID == reg.ID && status != models.StatusUnderReview {
		userFields["last_application_status"] = status
	}
	if len(userFields) > 0 {
		if err := s.userRepo.UpdateFields(tx, user.ID, userFields); err != nil {
			return nil, apperrors.DatabaseError(err)
		}
	}

	reg, err = s.registrationRepo.FindByID(tx, reg.ID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "Registration reviewed", "registration_id", reg.ID, "status", status)
	return dto.NewRegistrationResponse(reg), nil
}

func (s *reviewService) membershipID(ctx context.Context, tx *gorm.DB, user *models.BasicUser) (string, error) {
	if user.HasMembership() {
		return *user.MembershipID, nil
	}
	return s.seq.Next(ctx, tx, membershipKind, membershipPrefix, s.userRepo.LatestMembershipID)
}

// ReviewCertificate records the final decision on a GSC or NOC application.
func (s *reviewService) ReviewCertificate(ctx context.Context, db *gorm.DB, kind models.CertificateKind, applicationNo string, status models.ApplicationStatus) (*dto.CertificateResponse, error) {
	if kind != models.KindGSC && kind != models.KindNOC {
		return nil, apperrors.ErrUnknownCertificateKind
	}
	if status != models.StatusApproved && status != models.StatusRejected {
		return nil, apperrors.ErrInvalidStatus
	}

	ctx = logger.WithApplication(ctx, string(kind), applicationNo)
	db = db.WithContext(ctx)
	if err := s.certRepo.UpdateStatus(db, kind, applicationNo, status); err != nil {
		if errors.Is(err, repositories.ErrCertificateNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	app, err := s.certRepo.FindByNumber(db, kind, applicationNo)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "Certificate reviewed", "status", status)
	return dto.NewCertificateResponse(app), nil
}
