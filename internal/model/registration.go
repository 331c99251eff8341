package model

import "time"

// Registration statuses.
const (
	RegistrationPending   = "pending"
	RegistrationConfirmed = "confirmed"
	RegistrationCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Registration represents one person's enrollment against one formation.
//
// Lifecycle: created pending/unverified; a valid token redemption moves it to
// confirmed/verified; cancellation is terminal. Payment fields are maintained
// by admins independently of the lifecycle and never appear in stats or CSV
// exports.
type Registration struct {
	ID                       string     `json:"id"`
	FormationID              string     `json:"formation_id"`
	FullName                 string     `json:"full_name"`
	Email                    string     `json:"email"`
	Phone                    string     `json:"phone,omitempty"`
	Role                     string     `json:"role,omitempty"`
	Message                  string     `json:"message,omitempty"`
	TermsAccepted            bool       `json:"terms_accepted"`
	VerificationToken        *string    `json:"-"`
	VerificationTokenExpires *time.Time `json:"-"`
	IsVerified               bool       `json:"is_verified"`
	Status                   string     `json:"status"`
	RegistrationDate         time.Time  `json:"registration_date"`
	ConfirmedAt              *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt              *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason       string     `json:"cancellation_reason,omitempty"`
	PaymentStatus            string     `json:"payment_status,omitempty"`
	PaymentReference         string     `json:"payment_reference,omitempty"`
	PaymentMethod            string     `json:"payment_method,omitempty"`
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	return s == PaymentUnpaid || s == PaymentPaid || s == PaymentRefunded
}

// RegisterRequest is the public payload for creating a registration.
type RegisterRequest struct {
	FormationID   string `json:"formation_id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Role          string `json:"role"`
	Message       string `json:"message"`
	TermsAccepted bool   `json:"terms_accepted"`
}

// RegistrationSummary is the minimal projection returned after creation.
type RegistrationSummary struct {
	ID                  string `json:"id"`
	FullName            string `json:"full_name"`
	Email               string `json:"email"`
	FormationTitle      string `json:"formation_title"`
	VerificationPending bool   `json:"verification_pending"`
}

// CancelRequest is the public payload for cancelling a registration.
// The email must match the registration's stored email.
type CancelRequest struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// PaymentUpdateRequest is the admin payload for updating payment fields.
type PaymentUpdateRequest struct {
	PaymentStatus    string `json:"payment_status"`
	PaymentReference string `json:"payment_reference"`
	PaymentMethod    string `json:"payment_method"`
}

// Bulk actions over registrations.
const (
	BulkConfirm = "confirm"
	BulkCancel  = "cancel"
	BulkDelete  = "delete"
)

// BulkActionRequest is the admin payload for bulk registration actions.
type BulkActionRequest struct {
	Action string   `json:"action"`
	IDs    []string `json:"ids"`
}

// RegistrationFilter narrows registration listings.
type RegistrationFilter struct {
	FormationID string
	Status      string
	Verified    *bool
	Search      string
	Limit       int
	Offset      int
}

// RegistrationStats aggregates registration counts. No payment fields.
type RegistrationStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
	Verified  int `json:"verified"`
}
