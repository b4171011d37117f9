package models

type ApplicationStatus string
type PaymentStatus string
type CertificateKind string

const (
	StatusPending     ApplicationStatus = "Pending"
	StatusUnderReview ApplicationStatus = "Under Review"
	StatusApproved    ApplicationStatus = "Approved"
	StatusRejected    ApplicationStatus = "Rejected"

	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusSuccess PaymentStatus = "Success"

	KindGSC CertificateKind = "gsc"
	KindNOC CertificateKind = "noc"
)

// InFlight reports whether a registration in this status blocks a new submission.
func (s ApplicationStatus) InFlight() bool {
	return s == StatusPending || s == StatusUnderReview
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}
