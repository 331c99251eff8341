package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adilnd/portfolio-api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const registrationColumns = `id, formation_id, full_name, email, phone, role,
	message, terms_accepted, verification_token, verification_token_expires,
	is_verified, status, registration_date, confirmed_at, cancelled_at,
	cancellation_reason, payment_status, payment_reference, payment_method`

// RegistrationRepository handles persistence for registrations.
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

func scanRegistration(row pgx.Row) (*model.Registration, error) {
	var reg model.Registration
	err := row.Scan(
		&reg.ID, &reg.FormationID, &reg.FullName, &reg.Email, &reg.Phone,
		&reg.Role, &reg.Message, &reg.TermsAccepted, &reg.VerificationToken,
		&reg.VerificationTokenExpires, &reg.IsVerified, &reg.Status,
		&reg.RegistrationDate, &reg.ConfirmedAt, &reg.CancelledAt,
		&reg.CancellationReason, &reg.PaymentStatus, &reg.PaymentReference,
		&reg.PaymentMethod,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// Register creates a registration inside a single serialised transaction.
//
// SELECT ... FOR UPDATE acquires a row-level lock on the formation so that
// concurrent attempts against the same formation are serialised: without it,
// two requests could both pass the capacity check before either increments
// the counter, overbooking the formation.
//
// It returns the locked formation so callers can build notification emails
// without a second round trip.
func (r *RegistrationRepository) Register(ctx context.Context, reg *model.Registration) (*model.Formation, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Lock the formation row for the duration of the checks.
	f, err := scanFormation(tx.QueryRow(ctx,
		`SELECT `+formationColumns+` FROM formations WHERE id = $1 FOR UPDATE`,
		reg.FormationID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock formation row: %w", err)
	}

	// Duplicate check: one live registration per (email, formation).
	// Cancelled registrations do not block re-registering.
	var dupCount int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations
		 WHERE formation_id = $1 AND email = $2 AND status <> $3`,
		reg.FormationID, reg.Email, model.RegistrationCancelled,
	).Scan(&dupCount)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if dupCount > 0 {
		return nil, ErrDuplicateRegistration
	}

	if f.IsFull() {
		return nil, ErrCapacityExceeded
	}

	_, err = tx.Exec(ctx,
		`UPDATE formations SET current_participants = current_participants + 1
		 WHERE id = $1`,
		reg.FormationID,
	)
	if err != nil {
		return nil, fmt.Errorf("increment current_participants: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO registrations (id, formation_id, full_name, email, phone,
		   role, message, terms_accepted, verification_token,
		   verification_token_expires, is_verified, status, registration_date,
		   payment_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		reg.ID, reg.FormationID, reg.FullName, reg.Email, reg.Phone, reg.Role,
		reg.Message, reg.TermsAccepted, reg.VerificationToken,
		reg.VerificationTokenExpires, reg.IsVerified, reg.Status,
		reg.RegistrationDate, reg.PaymentStatus,
	)
	if err != nil {
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	f.CurrentParticipants++
	return f, nil
}

// Verify redeems a verification token. The single UPDATE matches only an
// unverified registration whose token has not expired, which makes the token
// single-use: a second redemption matches nothing and returns ErrInvalidToken.
func (r *RegistrationRepository) Verify(ctx context.Context, token string) (*model.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRow(ctx,
		`UPDATE registrations
		 SET is_verified = true,
		     status = $2,
		     confirmed_at = now(),
		     verification_token = NULL,
		     verification_token_expires = NULL
		 WHERE verification_token = $1
		   AND verification_token_expires > now()
		   AND is_verified = false
		 RETURNING `+registrationColumns,
		token, model.RegistrationConfirmed,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("verify registration: %w", err)
	}
	return reg, nil
}

// FindPending returns the unverified, unexpired registration for the given
// (email, formation) pair, or ErrNotFound.
func (r *RegistrationRepository) FindPending(ctx context.Context, email, formationID string) (*model.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations
		 WHERE email = $1 AND formation_id = $2
		   AND is_verified = false
		   AND verification_token IS NOT NULL
		   AND verification_token_expires > now()`,
		email, formationID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find pending registration: %w", err)
	}
	return reg, nil
}

// GetByID returns a single registration or ErrNotFound.
func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*model.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

// Cancel marks a registration cancelled and releases its seat. Both updates
// run in one transaction so the participant counter is decremented at most
// once per registration.
func (r *RegistrationRepository) Cancel(ctx context.Context, id, email, reason string) (*model.Registration, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	reg, err := scanRegistration(tx.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1 FOR UPDATE`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock registration row: %w", err)
	}

	if !strings.EqualFold(reg.Email, email) {
		err = ErrEmailMismatch
		return nil, err
	}
	if reg.Status == model.RegistrationCancelled {
		err = ErrAlreadyCancelled
		return nil, err
	}

	now := time.Now().UTC()
	_, err = tx.Exec(ctx,
		`UPDATE registrations
		 SET status = $2, cancelled_at = $3, cancellation_reason = $4
		 WHERE id = $1`,
		id, model.RegistrationCancelled, now, reason,
	)
	if err != nil {
		return nil, fmt.Errorf("cancel registration: %w", err)
	}

	// Release the seat, floor-guarded at zero.
	_, err = tx.Exec(ctx,
		`UPDATE formations
		 SET current_participants = GREATEST(current_participants - 1, 0)
		 WHERE id = $1`,
		reg.FormationID,
	)
	if err != nil {
		return nil, fmt.Errorf("decrement current_participants: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	reg.Status = model.RegistrationCancelled
	reg.CancelledAt = &now
	reg.CancellationReason = reason
	return reg, nil
}

// UpdatePayment sets the payment fields on a registration.
func (r *RegistrationRepository) UpdatePayment(ctx context.Context, id string, req model.PaymentUpdateRequest) (*model.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRow(ctx,
		`UPDATE registrations
		 SET payment_status = $2, payment_reference = $3, payment_method = $4
		 WHERE id = $1
		 RETURNING `+registrationColumns,
		id, req.PaymentStatus, req.PaymentReference, req.PaymentMethod,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return reg, nil
}

// List returns registrations matching the filter along with the total count.
func (r *RegistrationRepository) List(ctx context.Context, filter model.RegistrationFilter) ([]model.Registration, int, error) {
	where, args := buildRegistrationWhere(filter)

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count registrations: %w", err)
	}

	limit, offset := pageBounds(filter.Limit, filter.Offset)
	args = append(args, limit, offset)
	q := fmt.Sprintf(
		`SELECT %s FROM registrations%s ORDER BY registration_date DESC LIMIT $%d OFFSET $%d`,
		registrationColumns, where, len(args)-1, len(args),
	)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}
	return regs, total, rows.Err()
}

func buildRegistrationWhere(filter model.RegistrationFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.FormationID != "" {
		add("formation_id = $%d", filter.FormationID)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.Verified != nil {
		add("is_verified = $%d", *filter.Verified)
	}
	if filter.Search != "" {
		add("(full_name ILIKE $%d OR email ILIKE $%[1]d)", "%"+filter.Search+"%")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Stats aggregates registration counts. Payment fields are deliberately
// excluded from this projection.
func (r *RegistrationRepository) Stats(ctx context.Context) (*model.RegistrationStats, error) {
	var s model.RegistrationStats
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE status = $1),
		        COUNT(*) FILTER (WHERE status = $2),
		        COUNT(*) FILTER (WHERE status = $3),
		        COUNT(*) FILTER (WHERE is_verified)
		 FROM registrations`,
		model.RegistrationPending, model.RegistrationConfirmed, model.RegistrationCancelled,
	).Scan(&s.Total, &s.Pending, &s.Confirmed, &s.Cancelled, &s.Verified)
	if err != nil {
		return nil, fmt.Errorf("registration stats: %w", err)
	}
	return &s, nil
}

// BulkConfirm confirms the given registrations and stamps confirmed_at.
// Already-cancelled rows are left untouched.
func (r *RegistrationRepository) BulkConfirm(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE registrations
		 SET status = $2, is_verified = true, confirmed_at = now()
		 WHERE id = ANY($1) AND status <> $3`,
		ids, model.RegistrationConfirmed, model.RegistrationCancelled,
	)
	if err != nil {
		return 0, fmt.Errorf("bulk confirm: %w", err)
	}
	return tag.RowsAffected(), nil
}

// BulkCancel cancels the given registrations and releases their seats in one
// transaction, skipping rows that are already cancelled.
func (r *RegistrationRepository) BulkCancel(ctx context.Context, ids []string) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	rows, err := tx.Query(ctx,
		`UPDATE registrations
		 SET status = $2, cancelled_at = now()
		 WHERE id = ANY($1) AND status <> $2
		 RETURNING formation_id`,
		ids, model.RegistrationCancelled,
	)
	if err != nil {
		return 0, fmt.Errorf("bulk cancel: %w", err)
	}
	var formationIDs []string
	for rows.Next() {
		var fid string
		if err = rows.Scan(&fid); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan formation id: %w", err)
		}
		formationIDs = append(formationIDs, fid)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return 0, err
	}

	for _, fid := range formationIDs {
		_, err = tx.Exec(ctx,
			`UPDATE formations
			 SET current_participants = GREATEST(current_participants - 1, 0)
			 WHERE id = $1`,
			fid,
		)
		if err != nil {
			return 0, fmt.Errorf("decrement current_participants: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return int64(len(formationIDs)), nil
}

// BulkDelete hard-deletes the given registrations.
func (r *RegistrationRepository) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM registrations WHERE id = ANY($1)`, ids,
	)
	if err != nil {
		return 0, fmt.Errorf("bulk delete: %w", err)
	}
	return tag.RowsAffected(), nil
}
