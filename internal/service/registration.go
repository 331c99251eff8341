package service

import (
	"context"
	"crypto/rand"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/adilnd/portfolio-api/internal/mailer"
	"github.com/adilnd/portfolio-api/internal/model"
	"github.com/google/uuid"
)

// tokenTTL is how long an emailed verification link stays valid.
const tokenTTL = 24 * time.Hour

// RegistrationStore is the persistence surface the registration workflow
// needs. *repository.RegistrationRepository implements it.
type RegistrationStore interface {
	Register(ctx context.Context, reg *model.Registration) (*model.Formation, error)
	Verify(ctx context.Context, token string) (*model.Registration, error)
	FindPending(ctx context.Context, email, formationID string) (*model.Registration, error)
	GetByID(ctx context.Context, id string) (*model.Registration, error)
	Cancel(ctx context.Context, id, email, reason string) (*model.Registration, error)
	UpdatePayment(ctx context.Context, id string, req model.PaymentUpdateRequest) (*model.Registration, error)
	List(ctx context.Context, filter model.RegistrationFilter) ([]model.Registration, int, error)
	Stats(ctx context.Context) (*model.RegistrationStats, error)
	BulkConfirm(ctx context.Context, ids []string) (int64, error)
	BulkCancel(ctx context.Context, ids []string) (int64, error)
	BulkDelete(ctx context.Context, ids []string) (int64, error)
}

// FormationGetter resolves formations for email content.
type FormationGetter interface {
	GetByID(ctx context.Context, id string) (*model.Formation, error)
}

// RegistrationService orchestrates the registration lifecycle: creation with
// capacity/duplicate checks, email verification, cancellation, and the admin
// operations.
type RegistrationService struct {
	regs       RegistrationStore
	formations FormationGetter
	mail       mailer.Mailer
	logger     *slog.Logger
	baseURL    string
	adminEmail string
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(
	regs RegistrationStore,
	formations FormationGetter,
	mail mailer.Mailer,
	logger *slog.Logger,
	baseURL, adminEmail string,
) *RegistrationService {
	return &RegistrationService{
		regs:       regs,
		formations: formations,
		mail:       mail,
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		adminEmail: adminEmail,
	}
}

// newVerificationToken returns a cryptographically random hex token.
func newVerificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (s *RegistrationService) verifyURL(token string) string {
	return s.baseURL + "/api/registrations/verify/" + token
}

// sendBestEffort delivers an email and only logs failures. Delivery never
// affects the outcome of the operation that triggered it.
func (s *RegistrationService) sendBestEffort(ctx context.Context, e mailer.Email, buildErr error, kind string) {
	if buildErr != nil {
		s.logger.Error("build email failed", slog.String("kind", kind), slog.Any("err", buildErr))
		return
	}
	if err := s.mail.Send(ctx, e); err != nil {
		s.logger.Error("send email failed",
			slog.String("kind", kind),
			slog.String("to", e.To),
			slog.Any("err", err),
		)
	}
}

// Create registers a person for a formation. The capacity and duplicate
// checks run inside one transaction in the store; emails are best-effort.
func (s *RegistrationService) Create(ctx context.Context, req model.RegisterRequest) (*model.RegistrationSummary, error) {
	req.Email = normalizeEmail(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)

	if req.FormationID == "" {
		return nil, validationf("formation_id is required")
	}
	if req.FullName == "" {
		return nil, validationf("full_name is required")
	}
	if !isValidEmail(req.Email) {
		return nil, validationf("email is not a valid email address")
	}
	if !req.TermsAccepted {
		return nil, validationf("terms must be accepted")
	}

	token, err := newVerificationToken()
	if err != nil {
		return nil, err
	}
	expires := time.Now().UTC().Add(tokenTTL)

	reg := &model.Registration{
		ID:                       uuid.New().String(),
		FormationID:              req.FormationID,
		FullName:                 req.FullName,
		Email:                    req.Email,
		Phone:                    strings.TrimSpace(req.Phone),
		Role:                     strings.TrimSpace(req.Role),
		Message:                  req.Message,
		TermsAccepted:            req.TermsAccepted,
		VerificationToken:        &token,
		VerificationTokenExpires: &expires,
		IsVerified:               false,
		Status:                   model.RegistrationPending,
		RegistrationDate:         time.Now().UTC(),
		PaymentStatus:            model.PaymentUnpaid,
	}

	formation, err := s.regs.Register(ctx, reg)
	if err != nil {
		return nil, err
	}

	e, buildErr := mailer.Confirmation(reg, formation.Title, s.verifyURL(token))
	s.sendBestEffort(ctx, e, buildErr, "confirmation")
	if s.adminEmail != "" {
		e, buildErr = mailer.AdminRegistrationNotice(s.adminEmail, reg, formation.Title)
		s.sendBestEffort(ctx, e, buildErr, "admin_registration_notice")
	}

	return &model.RegistrationSummary{
		ID:                  reg.ID,
		FullName:            reg.FullName,
		Email:               reg.Email,
		FormationTitle:      formation.Title,
		VerificationPending: true,
	}, nil
}

// VerifyEmail redeems a verification token and confirms the registration.
func (s *RegistrationService) VerifyEmail(ctx context.Context, token string) (*model.Registration, error) {
	if token == "" {
		return nil, validationf("token is required")
	}

	reg, err := s.regs.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	title := ""
	if f, err := s.formations.GetByID(ctx, reg.FormationID); err == nil {
		title = f.Title
	}
	e, buildErr := mailer.Welcome(reg, title)
	s.sendBestEffort(ctx, e, buildErr, "welcome")

	return reg, nil
}

// ResendVerification re-sends the confirmation email for a pending
// registration. The original token and expiry are reused, so a link close to
// its 24-hour deadline stays close to it after the resend.
func (s *RegistrationService) ResendVerification(ctx context.Context, email, formationID string) error {
	email = normalizeEmail(email)
	if !isValidEmail(email) {
		return validationf("email is not a valid email address")
	}
	if formationID == "" {
		return validationf("formation_id is required")
	}

	reg, err := s.regs.FindPending(ctx, email, formationID)
	if err != nil {
		return err
	}

	title := ""
	if f, err := s.formations.GetByID(ctx, reg.FormationID); err == nil {
		title = f.Title
	}
	e, buildErr := mailer.Confirmation(reg, title, s.verifyURL(*reg.VerificationToken))
	s.sendBestEffort(ctx, e, buildErr, "confirmation_resend")
	return nil
}

// Cancel cancels a registration. The caller's email must match the stored
// one; this is the only identity check on the public endpoint.
func (s *RegistrationService) Cancel(ctx context.Context, id string, req model.CancelRequest) (*model.Registration, error) {
	req.Email = normalizeEmail(req.Email)
	if id == "" {
		return nil, validationf("registration id is required")
	}
	if req.Email == "" {
		return nil, validationf("email is required")
	}
	return s.regs.Cancel(ctx, id, req.Email, strings.TrimSpace(req.Reason))
}

// UpdatePayment sets payment fields and sends a receipt when the status
// moves to paid.
func (s *RegistrationService) UpdatePayment(ctx context.Context, id string, req model.PaymentUpdateRequest) (*model.Registration, error) {
	if !model.ValidPaymentStatus(req.PaymentStatus) {
		return nil, validationf("invalid payment_status %q", req.PaymentStatus)
	}

	reg, err := s.regs.UpdatePayment(ctx, id, req)
	if err != nil {
		return nil, err
	}

	if req.PaymentStatus == model.PaymentPaid {
		title := ""
		if f, err := s.formations.GetByID(ctx, reg.FormationID); err == nil {
			title = f.Title
		}
		e, buildErr := mailer.PaymentReceipt(reg, title)
		s.sendBestEffort(ctx, e, buildErr, "payment_receipt")
	}
	return reg, nil
}

// SendNotice emails a custom admin notice to a registrant. Unlike the
// lifecycle emails the send is the whole point here, so failures surface.
func (s *RegistrationService) SendNotice(ctx context.Context, id, subject, body string) error {
	if subject == "" || body == "" {
		return validationf("subject and body are required")
	}
	reg, err := s.regs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	e, err := mailer.Notice(reg, subject, body)
	if err != nil {
		return err
	}
	return s.mail.Send(ctx, e)
}

// BulkAction applies confirm, cancel, or delete to a set of registrations.
// It returns the number of rows affected.
func (s *RegistrationService) BulkAction(ctx context.Context, req model.BulkActionRequest) (int64, error) {
	if len(req.IDs) == 0 {
		return 0, validationf("ids must be a non-empty array")
	}
	switch req.Action {
	case model.BulkConfirm:
		return s.regs.BulkConfirm(ctx, req.IDs)
	case model.BulkCancel:
		return s.regs.BulkCancel(ctx, req.IDs)
	case model.BulkDelete:
		return s.regs.BulkDelete(ctx, req.IDs)
	default:
		return 0, validationf("invalid action %q", req.Action)
	}
}

// List returns registrations matching the filter and the total count.
func (s *RegistrationService) List(ctx context.Context, filter model.RegistrationFilter) ([]model.Registration, int, error) {
	return s.regs.List(ctx, filter)
}

// Get returns one registration.
func (s *RegistrationService) Get(ctx context.Context, id string) (*model.Registration, error) {
	return s.regs.GetByID(ctx, id)
}

// Stats returns aggregate registration counts.
func (s *RegistrationService) Stats(ctx context.Context) (*model.RegistrationStats, error) {
	return s.regs.Stats(ctx)
}

// exportPageSize bounds how many rows each export query pulls. It must not
// exceed the repository's page-size cap or the pagination loop would stop
// after one short page.
const exportPageSize = 100

// ExportCSV streams matching registrations as CSV. Payment columns are
// deliberately not exported.
func (s *RegistrationService) ExportCSV(ctx context.Context, w io.Writer, filter model.RegistrationFilter) error {
	cw := csv.NewWriter(w)
	header := []string{
		"id", "formation_id", "full_name", "email", "phone", "role",
		"status", "verified", "registration_date", "confirmed_at",
		"cancelled_at", "cancellation_reason",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	filter.Limit = exportPageSize
	filter.Offset = 0
	for {
		regs, _, err := s.regs.List(ctx, filter)
		if err != nil {
			return err
		}
		for i := range regs {
			reg := &regs[i]
			row := []string{
				reg.ID, reg.FormationID, reg.FullName, reg.Email, reg.Phone,
				reg.Role, reg.Status, fmt.Sprintf("%t", reg.IsVerified),
				reg.RegistrationDate.Format(time.RFC3339),
				formatTimePtr(reg.ConfirmedAt),
				formatTimePtr(reg.CancelledAt),
				reg.CancellationReason,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
		if len(regs) < exportPageSize {
			break
		}
		filter.Offset += exportPageSize
	}

	cw.Flush()
	return cw.Error()
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
