package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/adilnd/portfolio-api/internal/mailer"
	"github.com/adilnd/portfolio-api/internal/model"
)

// MessageStore is the persistence surface for contact messages.
// *repository.MessageRepository implements it.
type MessageStore interface {
	Create(ctx context.Context, m *model.Message) error
	List(ctx context.Context, filter model.MessageFilter) ([]model.Message, int, error)
	GetByID(ctx context.Context, id string) (*model.Message, error)
	UpdateStatus(ctx context.Context, id, status string) (*model.Message, error)
	SaveReply(ctx context.Context, id, reply string) (*model.Message, error)
	Delete(ctx context.Context, id string) error
}

// MessageService handles contact/project-inquiry submissions and the admin
// inbox operations. The notification emails are an injected collaborator,
// never resolved through method-receiver state at call sites.
type MessageService struct {
	messages   MessageStore
	mail       mailer.Mailer
	logger     *slog.Logger
	adminEmail string
}

// NewMessageService constructs a MessageService.
func NewMessageService(messages MessageStore, mail mailer.Mailer, logger *slog.Logger, adminEmail string) *MessageService {
	return &MessageService{messages: messages, mail: mail, logger: logger, adminEmail: adminEmail}
}

func (s *MessageService) sendBestEffort(ctx context.Context, e mailer.Email, buildErr error, kind string) {
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

// Create stores a new message and fires the two best-effort notification
// emails (admin notify, sender auto-reply). ipAddress and userAgent are
// capture metadata supplied by the HTTP layer.
func (s *MessageService) Create(ctx context.Context, req model.CreateMessageRequest, ipAddress, userAgent string) (*model.Message, error) {
	req.Email = normalizeEmail(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)

	if req.FullName == "" {
		return nil, validationf("full_name is required")
	}
	if !isValidEmail(req.Email) {
		return nil, validationf("email is not a valid email address")
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, validationf("message is required")
	}
	if req.MessageType == "" {
		req.MessageType = model.MessageTypeContact
	}
	if req.MessageType != model.MessageTypeContact && req.MessageType != model.MessageTypeProject {
		return nil, validationf("invalid message_type %q", req.MessageType)
	}

	m := &model.Message{
		FullName:    req.FullName,
		Email:       req.Email,
		Subject:     strings.TrimSpace(req.Subject),
		Body:        req.Message,
		MessageType: req.MessageType,
		ProjectType: req.ProjectType,
		Timeline:    req.Timeline,
		BudgetRange: req.BudgetRange,
		Phone:       strings.TrimSpace(req.Phone),
		Company:     strings.TrimSpace(req.Company),
		Website:     strings.TrimSpace(req.Website),
		IPAddress:   ipAddress,
		UserAgent:   userAgent,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}

	if s.adminEmail != "" {
		e, buildErr := mailer.ContactNotify(s.adminEmail, m)
		s.sendBestEffort(ctx, e, buildErr, "contact_notify")
	}
	e, buildErr := mailer.AutoReply(m)
	s.sendBestEffort(ctx, e, buildErr, "auto_reply")

	return m, nil
}

// List returns messages matching the filter and the total count.
func (s *MessageService) List(ctx context.Context, filter model.MessageFilter) ([]model.Message, int, error) {
	return s.messages.List(ctx, filter)
}

// Get returns one message. Viewing an unread message marks it read.
func (s *MessageService) Get(ctx context.Context, id string) (*model.Message, error) {
	m, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status == model.MessageUnread {
		if updated, err := s.messages.UpdateStatus(ctx, id, model.MessageRead); err == nil {
			return updated, nil
		} else {
			s.logger.Warn("mark message read failed", slog.String("id", id), slog.Any("err", err))
		}
	}
	return m, nil
}

// UpdateStatus sets the message status after validating the value.
func (s *MessageService) UpdateStatus(ctx context.Context, id, status string) (*model.Message, error) {
	if !model.ValidMessageStatus(status) {
		return nil, validationf("invalid status %q", status)
	}
	return s.messages.UpdateStatus(ctx, id, status)
}

// Reply stores the reply and emails it to the original sender. The stored
// reply is not rolled back when the email fails; the failure is only logged.
func (s *MessageService) Reply(ctx context.Context, id, replyText string) (*model.Message, error) {
	replyText = strings.TrimSpace(replyText)
	if replyText == "" {
		return nil, validationf("reply message is required")
	}

	// Load first so the reply email can quote the original body.
	original, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m, err := s.messages.SaveReply(ctx, id, replyText)
	if err != nil {
		return nil, err
	}

	e, buildErr := mailer.Reply(original, replyText)
	s.sendBestEffort(ctx, e, buildErr, "reply")

	return m, nil
}

// Delete removes a message.
func (s *MessageService) Delete(ctx context.Context, id string) error {
	return s.messages.Delete(ctx, id)
}
