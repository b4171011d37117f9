package apperrors

import (
	"net/http"
)

// Predefined domain errors: registration, certificates, payments.

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Token is invalid or expired",
	http.StatusUnauthorized,
)

// ErrInvalidResetToken - reset links are validated in the request body flow, so this is a 400.
var ErrInvalidResetToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusBadRequest,
)

var ErrTokenMissing = New(
	CodeUnauthorized,
	"auth",
	"Not authorized, token missing",
	http.StatusUnauthorized,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character",
	http.StatusBadRequest,
)

var ErrPasswordMismatch = New(
	CodeValidationFailed,
	"validation",
	"Passwords do not match",
	http.StatusBadRequest,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already exists",
	http.StatusConflict,
)

var ErrMobileAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Mobile number already exists",
	http.StatusConflict,
)

var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

// --- Registration ---

var ErrApplicationPending = New(
	CodeConflict,
	"registration",
	"Application already pending",
	http.StatusConflict,
)

var ErrRegistrationNotFound = New(
	CodeNotFound,
	"registration",
	"Registration application not found",
	http.StatusNotFound,
)

var ErrInvalidCategory = New(
	CodeValidationFailed,
	"registration",
	"Invalid regcategory_id",
	http.StatusBadRequest,
)

var ErrInvalidNationality = New(
	CodeValidationFailed,
	"registration",
	"Invalid nationality_id",
	http.StatusBadRequest,
)

// --- Certificates ---

var ErrApplicationNotFound = New(
	CodeNotFound,
	"certificate",
	"Application not found",
	http.StatusNotFound,
)

var ErrMembershipRequired = New(
	CodeForbidden,
	"certificate",
	"Only users with a valid membership ID can apply for this certificate",
	http.StatusForbidden,
)

var ErrUnknownCertificateKind = New(
	CodeNotFound,
	"certificate",
	"Unknown certificate type",
	http.StatusNotFound,
)

var ErrInvalidStatus = New(
	CodeInvalidStatus,
	"review",
	"Status transition is not allowed",
	http.StatusBadRequest,
)

var ErrSequenceExhausted = New(
	CodeConflict,
	"certificate",
	"Could not allocate an application number, please retry",
	http.StatusConflict,
)

// --- Uploads ---

var ErrFileTooLarge = New(
	CodeValidationFailed,
	"upload",
	"Each file must be under the allowed size",
	http.StatusBadRequest,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"upload",
	"Only PDF files are allowed",
	http.StatusBadRequest,
)

// --- Payments ---

var ErrInvalidRegistrationType = New(
	CodeValidationFailed,
	"payment",
	"Invalid registration type",
	http.StatusBadRequest,
)

var ErrMissingCategory = New(
	CodeValidationFailed,
	"payment",
	"User does not have a valid registration category",
	http.StatusBadRequest,
)

var ErrInvalidSignature = New(
	CodeInvalidSignature,
	"payment",
	"Invalid payment signature",
	http.StatusBadRequest,
)

var ErrPaymentNotFound = New(
	CodeNotFound,
	"payment",
	"Payment record not found",
	http.StatusNotFound,
)

var ErrPaymentAlreadySettled = New(
	CodeConflict,
	"payment",
	"Payment has already been settled with a different payment id",
	http.StatusConflict,
)
