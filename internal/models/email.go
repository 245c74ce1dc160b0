package models

import (
	"encoding/json"
	"time"
)

// Attachment describes a file attached to an email. Only metadata is kept;
// the binary payload stays with the provider behind AttachmentID.
type Attachment struct {
	Filename     string `json:"filename"`
	MimeType     string `json:"mime_type"`
	Size         int    `json:"size"`
	AttachmentID string `json:"attachment_id"`
}

// Email is the canonical stored record for a single message, flattened from
// the provider's nested payload tree.
type Email struct {
	ID          string       `json:"id"`
	ThreadID    string       `json:"thread_id"`
	Snippet     string       `json:"snippet"`
	Subject     string       `json:"subject"`
	Sender      string       `json:"sender"`
	SenderEmail string       `json:"sender_email"`
	SenderName  string       `json:"sender_name"`
	Recipient   string       `json:"recipient"`
	Date        string       `json:"date"`
	BodyText    string       `json:"body_text"`
	BodyHTML    string       `json:"body_html"`
	Attachments []Attachment `json:"attachments"`
	Labels      []string     `json:"labels"`
	MessageSize int          `json:"message_size"`

	// Fields below are assigned by the store, never by the decomposer.
	DBID        string          `json:"db_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	Processed   bool            `json:"processed"`
	AIAnalysis  json.RawMessage `json:"ai_analysis,omitempty"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
}

// Stats aggregates the state of the email collection.
type Stats struct {
	TotalEmails       int        `json:"total_emails"`
	ProcessedEmails   int        `json:"processed_emails"`
	UnprocessedEmails int        `json:"unprocessed_emails"`
	UniqueSenders     int        `json:"unique_senders"`
	OldestEmailDate   *time.Time `json:"oldest_email_date,omitempty"`
	NewestEmailDate   *time.Time `json:"newest_email_date,omitempty"`
}
