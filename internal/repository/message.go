package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adilnd/portfolio-api/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const messageColumns = `id, full_name, email, subject, body, message_type,
	project_type, timeline, budget_range, phone, company, website, status,
	reply_message, replied_at, ip_address, user_agent, created_at`

// MessageRepository handles persistence for contact/project messages.
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository constructs a MessageRepository.
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

func scanMessage(row pgx.Row) (*model.Message, error) {
	var m model.Message
	err := row.Scan(
		&m.ID, &m.FullName, &m.Email, &m.Subject, &m.Body, &m.MessageType,
		&m.ProjectType, &m.Timeline, &m.BudgetRange, &m.Phone, &m.Company,
		&m.Website, &m.Status, &m.ReplyMessage, &m.RepliedAt, &m.IPAddress,
		&m.UserAgent, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new message. Messages always start unread.
func (r *MessageRepository) Create(ctx context.Context, m *model.Message) error {
	m.ID = uuid.New().String()
	m.Status = model.MessageUnread
	m.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx,
		`INSERT INTO messages (id, full_name, email, subject, body,
		   message_type, project_type, timeline, budget_range, phone, company,
		   website, status, ip_address, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		m.ID, m.FullName, m.Email, m.Subject, m.Body, m.MessageType,
		m.ProjectType, m.Timeline, m.BudgetRange, m.Phone, m.Company,
		m.Website, m.Status, m.IPAddress, m.UserAgent, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// List returns messages matching the filter along with the total count.
func (r *MessageRepository) List(ctx context.Context, filter model.MessageFilter) ([]model.Message, int, error) {
	where, args := buildMessageWhere(filter)

	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}

	limit, offset := pageBounds(filter.Limit, filter.Offset)
	args = append(args, limit, offset)
	q := fmt.Sprintf(
		`SELECT %s FROM messages%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		messageColumns, where, len(args)-1, len(args),
	)

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, *m)
	}
	return messages, total, rows.Err()
}

func buildMessageWhere(filter model.MessageFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.MessageType != "" {
		add("message_type = $%d", filter.MessageType)
	}
	if filter.Search != "" {
		add("(full_name ILIKE $%d OR email ILIKE $%[1]d OR subject ILIKE $%[1]d OR body ILIKE $%[1]d)",
			"%"+filter.Search+"%")
	}
	if filter.From != nil {
		add("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("created_at <= $%d", *filter.To)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// GetByID returns a single message or ErrNotFound.
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*model.Message, error) {
	m, err := scanMessage(r.db.QueryRow(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get message: %w", err)
	}
	return m, nil
}

// UpdateStatus sets the message status.
func (r *MessageRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Message, error) {
	m, err := scanMessage(r.db.QueryRow(ctx,
		`UPDATE messages SET status = $2 WHERE id = $1 RETURNING `+messageColumns,
		id, status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update message status: %w", err)
	}
	return m, nil
}

// SaveReply stores the reply text and moves the message to replied.
func (r *MessageRepository) SaveReply(ctx context.Context, id, reply string) (*model.Message, error) {
	m, err := scanMessage(r.db.QueryRow(ctx,
		`UPDATE messages
		 SET reply_message = $2, replied_at = now(), status = $3
		 WHERE id = $1
		 RETURNING `+messageColumns,
		id, reply, model.MessageReplied,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("save reply: %w", err)
	}
	return m, nil
}

// Delete removes a message. Returns ErrNotFound when no row matched.
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
