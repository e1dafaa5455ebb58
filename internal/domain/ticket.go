package domain

import "time"

const (
	TicketStatusOpen   = "open"
	TicketStatusClosed = "closed"
)

type Ticket struct {
	TicketID      string    `json:"id" dynamodbav:"ticket_id"`
	UserID        string    `json:"user_id" dynamodbav:"user_id"`
	Subject       string    `json:"subject" dynamodbav:"subject"`
	Body          string    `json:"body" dynamodbav:"body"`
	Status        string    `json:"status" dynamodbav:"status"`
	AttachmentKey string    `json:"attachment_key,omitempty" dynamodbav:"attachment_key"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated" dynamodbav:"updated_at"`
}

type TicketInput struct {
	Subject string `json:"subject" validate:"required,min=1"`
	Body    string `json:"body" validate:"required,min=1"`
	Status  string `json:"status" validate:"omitempty,oneof=open closed"`
}
