package models

// RawMessage mirrors the message resource returned by the mailbox provider:
// identifiers, a short preview, and a nested MIME payload tree.
type RawMessage struct {
	ID           string       `json:"id"`
	ThreadID     string       `json:"threadId"`
	Snippet      string       `json:"snippet"`
	LabelIDs     []string     `json:"labelIds"`
	SizeEstimate int          `json:"sizeEstimate"`
	Payload      *MessagePart `json:"payload"`
}

// MessagePart is one node of the payload tree. A node either carries nested
// Parts (a multipart container) or a Body with inline data or an attachment
// reference (a leaf).
type MessagePart struct {
	MimeType string         `json:"mimeType"`
	Filename string         `json:"filename"`
	Headers  []Header       `json:"headers,omitempty"`
	Body     *MessageBody   `json:"body,omitempty"`
	Parts    []*MessagePart `json:"parts,omitempty"`
}

// Header is a single name/value header pair. Names compare case-insensitively.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// MessageBody carries either inline base64url-encoded Data or an
// AttachmentID referencing a payload the provider keeps server-side.
type MessageBody struct {
	Size         int    `json:"size"`
	Data         string `json:"data,omitempty"`
	AttachmentID string `json:"attachmentId,omitempty"`
}
