package model

import "time"

// Message statuses.
const (
	MessageUnread   = "unread"
	MessageRead     = "read"
	MessageReplied  = "replied"
	MessageArchived = "archived"
)

// Message types.
const (
	MessageTypeContact = "contact"
	MessageTypeProject = "project"
)

// Message is a contact-form or project-inquiry submission.
type Message struct {
	ID           string     `json:"id"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	Subject      string     `json:"subject"`
	Body         string     `json:"message"`
	MessageType  string     `json:"message_type"`
	ProjectType  string     `json:"project_type,omitempty"`
	Timeline     string     `json:"timeline,omitempty"`
	BudgetRange  string     `json:"budget_range,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Company      string     `json:"company,omitempty"`
	Website      string     `json:"website,omitempty"`
	Status       string     `json:"status"`
	ReplyMessage string     `json:"reply_message,omitempty"`
	RepliedAt    *time.Time `json:"replied_at,omitempty"`
	IPAddress    string     `json:"ip_address,omitempty"`
	UserAgent    string     `json:"user_agent,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ValidMessageStatus reports whether s is a known message status.
func ValidMessageStatus(s string) bool {
	switch s {
	case MessageUnread, MessageRead, MessageReplied, MessageArchived:
		return true
	}
	return false
}

// CreateMessageRequest is the public contact-form payload.
type CreateMessageRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	MessageType string `json:"message_type"`
	ProjectType string `json:"project_type"`
	Timeline    string `json:"timeline"`
	BudgetRange string `json:"budget_range"`
	Phone       string `json:"phone"`
	Company     string `json:"company"`
	Website     string `json:"website"`
}

// MessageFilter narrows message listings.
type MessageFilter struct {
	Status      string
	MessageType string
	Search      string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}
