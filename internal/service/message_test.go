package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/adilnd/portfolio-api/internal/model"
	"github.com/adilnd/portfolio-api/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeMessages struct {
	mu   sync.Mutex
	rows map[string]*model.Message
}

func newFakeMessages() *fakeMessages {
	return &fakeMessages{rows: map[string]*model.Message{}}
}

func (f *fakeMessages) Create(_ context.Context, m *model.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = uuid.New().String()
	m.Status = model.MessageUnread
	m.CreatedAt = time.Now().UTC()
	cp := *m
	f.rows[m.ID] = &cp
	return nil
}

func (f *fakeMessages) List(_ context.Context, filter model.MessageFilter) ([]model.Message, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Message
	for _, m := range f.rows {
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.MessageType != "" && m.MessageType != filter.MessageType {
			continue
		}
		out = append(out, *m)
	}
	return out, len(out), nil
}

func (f *fakeMessages) GetByID(_ context.Context, id string) (*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMessages) UpdateStatus(_ context.Context, id, status string) (*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	m.Status = status
	cp := *m
	return &cp, nil
}

func (f *fakeMessages) SaveReply(_ context.Context, id, reply string) (*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	now := time.Now().UTC()
	m.ReplyMessage = reply
	m.RepliedAt = &now
	m.Status = model.MessageReplied
	cp := *m
	return &cp, nil
}

func (f *fakeMessages) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func newMessageFixture() (*MessageService, *fakeMessages, *fakeMailer) {
	store := newFakeMessages()
	mail := &fakeMailer{}
	svc := NewMessageService(store, mail, testLogger(), "admin@example.com")
	return svc, store, mail
}

func validMessageReq() model.CreateMessageRequest {
	return model.CreateMessageRequest{
		FullName:    "Bob Diallo",
		Email:       "bob@example.com",
		Subject:     "Site vitrine",
		Message:     "Bonjour, je cherche un devis pour une application web.",
		MessageType: model.MessageTypeProject,
		ProjectType: "Web Apps",
	}
}

func TestMessageCreate(t *testing.T) {
	svc, store, mail := newMessageFixture()
	ctx := context.Background()

	m, err := svc.Create(ctx, validMessageReq(), "203.0.113.9", "curl/8.0")
	require.NoError(t, err)
	require.Equal(t, model.MessageUnread, m.Status)
	require.Equal(t, "203.0.113.9", m.IPAddress)
	require.Equal(t, "curl/8.0", m.UserAgent)
	require.Contains(t, store.rows, m.ID)

	// Admin notification and sender auto-reply.
	require.Equal(t, 1, mail.sentTo("admin@example.com"))
	require.Equal(t, 1, mail.sentTo("bob@example.com"))
}

func TestMessageCreateValidation(t *testing.T) {
	svc, _, _ := newMessageFixture()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*model.CreateMessageRequest)
	}{
		{"missing name", func(r *model.CreateMessageRequest) { r.FullName = "" }},
		{"bad email", func(r *model.CreateMessageRequest) { r.Email = "nope" }},
		{"empty message", func(r *model.CreateMessageRequest) { r.Message = "   " }},
		{"bad type", func(r *model.CreateMessageRequest) { r.MessageType = "spam" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validMessageReq()
			tt.mutate(&req)
			_, err := svc.Create(ctx, req, "", "")
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestMessageCreateSucceedsWhenEmailFails(t *testing.T) {
	svc, store, mail := newMessageFixture()
	mail.fail = true

	m, err := svc.Create(context.Background(), validMessageReq(), "", "")
	require.NoError(t, err, "email failure must not fail message creation")
	require.Contains(t, store.rows, m.ID)
}

func TestMessageGetMarksRead(t *testing.T) {
	svc, _, _ := newMessageFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, validMessageReq(), "", "")
	require.NoError(t, err)

	m, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, model.MessageRead, m.Status, "admin view marks unread messages read")
}

func TestMessageUpdateStatus(t *testing.T) {
	svc, _, _ := newMessageFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, validMessageReq(), "", "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, created.ID, "pinned")
	require.ErrorIs(t, err, ErrValidation)

	m, err := svc.UpdateStatus(ctx, created.ID, model.MessageArchived)
	require.NoError(t, err)
	require.Equal(t, model.MessageArchived, m.Status)
}

func TestMessageReplyDespiteMailFailure(t *testing.T) {
	svc, store, mail := newMessageFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, validMessageReq(), "", "")
	require.NoError(t, err)

	mail.fail = true
	m, err := svc.Reply(ctx, created.ID, "Merci, je reviens vers toi demain.")
	require.NoError(t, err, "mail failure must not roll back the stored reply")
	require.Equal(t, model.MessageReplied, m.Status)
	require.Equal(t, "Merci, je reviens vers toi demain.", m.ReplyMessage)
	require.NotNil(t, m.RepliedAt)
	require.Equal(t, model.MessageReplied, store.rows[created.ID].Status)
}

func TestMessageReplyQuotesOriginal(t *testing.T) {
	svc, _, mail := newMessageFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, validMessageReq(), "", "")
	require.NoError(t, err)
	mail.sent = nil

	_, err = svc.Reply(ctx, created.ID, "Avec plaisir.")
	require.NoError(t, err)
	require.Len(t, mail.sent, 1)
	require.Equal(t, "bob@example.com", mail.sent[0].To)
	require.Contains(t, mail.sent[0].HTML, "Avec plaisir.")
	require.Contains(t, mail.sent[0].HTML, created.Body, "reply quotes the original message")
}

func TestMessageReplyNotFound(t *testing.T) {
	svc, _, _ := newMessageFixture()

	_, err := svc.Reply(context.Background(), "missing", "hello")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
