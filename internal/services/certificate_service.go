package services

import (
	"context"
	"errors"

	"tdc_backend/internal/attachments"
	"tdc_backend/internal/logger"
	"tdc_backend/internal/metrics"
	"tdc_backend/internal/models"
	"tdc_backend/internal/repositories"
	"tdc_backend/internal/sequence"
	"tdc_backend/internal/services/dto"
	"tdc_backend/internal/storage"
	"tdc_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CertificateKind describes one certificate type handled by CertificateService.
type CertificateKind struct {
	Code              models.CertificateKind
	Prefix            string
	Label             string
	Slots             []attachments.Slot
	TextFields        []string
	RequireMembership bool
}

var (
	GSCKind = CertificateKind{
		Code:   models.KindGSC,
		Prefix: "GSC",
		Label:  "GSC",
		Slots: []attachments.Slot{
			{Name: "tdc_reg_certificate_upload", Label: "TDC registration certificate"},
			{Name: "testimonial_d1_upload", Label: "Testimonial from dentist 1"},
			{Name: "testimonial_d2_upload", Label: "Testimonial from dentist 2"},
			{Name: "aadhaar_upload", Label: "Aadhaar card"},
			{Name: "tdc_reg_d1_upload", Label: "TDC registration of dentist 1"},
			{Name: "tdc_reg_d2_upload", Label: "TDC registration of dentist 2"},
		},
		TextFields: []string{"postal_address"},
	}

	NOCKind = CertificateKind{
		Code:   models.KindNOC,
		Prefix: "NOC",
		Label:  "NOC",
		Slots: []attachments.Slot{
			{Name: "tdc_reg_certificate_upload", Label: "TDC registration certificate"},
			{Name: "aadhaar_upload", Label: "Aadhaar card"},
		},
		TextFields:        []string{"postal_address", "dental_council_name"},
		RequireMembership: true,
	}
)

// CertificateKinds returns every registered kind.
func CertificateKinds() []CertificateKind {
	return []CertificateKind{GSCKind, NOCKind}
}

type CertificateService interface {
	Kind() CertificateKind
	Apply(ctx context.Context, db *gorm.DB, userID string, fields map[string]string, files map[string]attachments.File) (*dto.CertificateResponse, error)
	Update(ctx context.Context, db *gorm.DB, userID, applicationNo string, fields map[string]string, files map[string]attachments.File) (*dto.CertificateResponse, error)
	List(ctx context.Context, db *gorm.DB, userID string) ([]*dto.CertificateResponse, error)
	Get(ctx context.Context, db *gorm.DB, userID, applicationNo string) (*dto.CertificateResponse, error)
}

type certificateService struct {
	kind     CertificateKind
	userRepo repositories.BasicUserRepository
	certRepo repositories.CertificateRepository
	seq      *sequence.Generator
	store    storage.Storage
	metrics  *metrics.Metrics
}

func NewCertificateService(
	kind CertificateKind,
	userRepo repositories.BasicUserRepository,
	certRepo repositories.CertificateRepository,
	seq *sequence.Generator,
	store storage.Storage,
	m *metrics.Metrics,
) CertificateService {
	return &certificateService{
		kind:     kind,
		userRepo: userRepo,
		certRepo: certRepo,
		seq:      seq,
		store:    store,
		metrics:  m,
	}
}

func (s *certificateService) Kind() CertificateKind {
	return s.kind
}

func (s *certificateService) Apply(ctx context.Context, db *gorm.DB, userID string, fields map[string]string, files map[string]attachments.File) (*dto.CertificateResponse, error) {
	ctx = logger.WithApplication(ctx, string(s.kind.Code), "")
	fields = trimFields(fields)
	if missing := missingFields(s.kind.TextFields, fields); len(missing) > 0 {
		return nil, apperrors.MissingFields(missing...)
	}
	if err := attachments.RequireUploads(s.kind.Slots, files); err != nil {
		return nil, slotError(err)
	}

	user, err := s.loadUser(db, userID)
	if err != nil {
		return nil, err
	}
	if s.kind.RequireMembership && !user.HasMembership() {
		return nil, apperrors.ErrMembershipRequired
	}

	name := applicantName(user)
	batch := attachments.NewBatch(s.store, attachments.SanitizeFolder(name))
	urls, err := batch.UploadSlots(ctx, s.kind.Slots, files)
	if err != nil {
		return nil, apperrors.UpstreamError(err, "storage")
	}

	app := &models.CertificateApplication{
		Kind:        s.kind.Code,
		BasicUserID: user.ID,
		Name:        name,
		Status:      models.StatusPending,
		Documents:   datatypes.NewJSONType(urls),
		Fields:      datatypes.NewJSONType(attachments.MergeFields(s.kind.TextFields, fields, nil)),
	}
	if err := s.insert(ctx, db, app); err != nil {
		batch.Rollback(ctx)
		return nil, err
	}

	s.metrics.IncApplication(string(s.kind.Code))
	ctx = logger.WithApplication(ctx, string(s.kind.Code), app.ApplicationNo)
	logger.CtxInfo(ctx, s.kind.Label+" application submitted")
	return dto.NewCertificateResponse(app), nil
}

// insert numbers and stores app, taking a fresh number when the previous one
// turns out to be in use.
func (s *certificateService) insert(ctx context.Context, db *gorm.DB, app *models.CertificateApplication) error {
	latest := func(tx *gorm.DB) (string, error) {
		return s.certRepo.LatestNumber(tx, s.kind.Code)
	}

	for attempt := 1; attempt <= maxInsertAttempts; attempt++ {
		app.ID = ""
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			no, err := s.seq.Next(ctx, tx, string(s.kind.Code), s.kind.Prefix, latest)
			if err != nil {
				return err
			}
			app.ApplicationNo = no
			return s.certRepo.Create(tx, app)
		})
		switch {
		case err == nil:
			return nil
		case errors.Is(err, repositories.ErrApplicationNumberTaken):
			logger.CtxWarn(ctx, "Application number collision, retrying", "application_no", app.ApplicationNo, "attempt", attempt)
			if err := s.seq.Advance(ctx, db, string(s.kind.Code), app.ApplicationNo); err != nil {
				return apperrors.DatabaseError(err)
			}
			continue
		default:
			return apperrors.DatabaseError(err)
		}
	}
	return apperrors.ErrSequenceExhausted
}

func (s *certificateService) Update(ctx context.Context, db *gorm.DB, userID, applicationNo string, fields map[string]string, files map[string]attachments.File) (*dto.CertificateResponse, error) {
	ctx = logger.WithApplication(ctx, string(s.kind.Code), applicationNo)
	app, err := s.certRepo.FindByOwnerAndNumber(db, s.kind.Code, userID, applicationNo)
	if err != nil {
		if errors.Is(err, repositories.ErrCertificateNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	if err := attachments.CheckReplacements(s.kind.Slots, files); err != nil {
		return nil, slotError(err)
	}

	user, err := s.loadUser(db, userID)
	if err != nil {
		return nil, err
	}
	name := attachments.MergeText(applicantName(user), app.Name)

	batch := attachments.NewBatch(s.store, attachments.SanitizeFolder(name))
	uploaded, err := batch.UploadSlots(ctx, s.kind.Slots, files)
	if err != nil {
		return nil, apperrors.UpstreamError(err, "storage")
	}

	documents, err := attachments.Merge(s.kind.Slots, uploaded, app.Documents.Data())
	if err != nil {
		batch.Rollback(ctx)
		return nil, slotError(err)
	}

	app.Name = name
	app.Status = models.StatusPending
	app.Documents = datatypes.NewJSONType(documents)
	app.Fields = datatypes.NewJSONType(attachments.MergeFields(s.kind.TextFields, fields, app.Fields.Data()))

	if err := s.certRepo.SaveContent(db.WithContext(ctx), app); err != nil {
		batch.Rollback(ctx)
		if errors.Is(err, repositories.ErrCertificateNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, s.kind.Label+" application updated", "replaced", len(uploaded))
	return dto.NewCertificateResponse(app), nil
}

func (s *certificateService) List(ctx context.Context, db *gorm.DB, userID string) ([]*dto.CertificateResponse, error) {
	apps, err := s.certRepo.ListByOwner(db, s.kind.Code, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	return dto.NewCertificateResponses(apps), nil
}

func (s *certificateService) Get(ctx context.Context, db *gorm.DB, userID, applicationNo string) (*dto.CertificateResponse, error) {
	app, err := s.certRepo.FindByOwnerAndNumber(db, s.kind.Code, userID, applicationNo)
	if err != nil {
		if errors.Is(err, repositories.ErrCertificateNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	return dto.NewCertificateResponse(app), nil
}

func (s *certificateService) loadUser(db *gorm.DB, userID string) (*models.BasicUser, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrBasicUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}
	return user, nil
}

// applicantName prefers the name given at signup, then the registered name.
func applicantName(user *models.BasicUser) string {
	if user.FullName != "" {
		return user.FullName
	}
	return user.NameInFull
}
