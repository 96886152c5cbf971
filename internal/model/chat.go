package model

import "strings"

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// AttachmentKind is the kind of an attachment reference.
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentLink  AttachmentKind = "link"
)

// Attachment references an uploaded blob or a link. Only ScrapedContent and
// Title may change after the message is stored.
type Attachment struct {
	Kind           AttachmentKind `json:"kind"`
	BlobRef        string         `json:"blob_ref,omitempty"`
	URL            string         `json:"url,omitempty"`
	ScrapedContent string         `json:"scraped_content,omitempty"`
	Title          string         `json:"title,omitempty"`
}

// Validate checks that the attachment carries the reference its kind needs.
func (a Attachment) Validate() error {
	switch a.Kind {
	case AttachmentImage:
		if a.BlobRef == "" {
			return Invalid("attachments", "image attachment requires blob_ref")
		}
	case AttachmentLink:
		if a.URL == "" {
			return Invalid("attachments", "link attachment requires url")
		}
	default:
		return Invalid("attachments", "kind must be image or link")
	}
	return nil
}

// Message is one entry of a chat transcript.
type Message struct {
	Role        Role         `json:"role"`
	Content     string       `json:"content"`
	Timestamp   string       `json:"timestamp"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// ChatTranscript is the append-only message log of one owner and date.
type ChatTranscript struct {
	ID                string    `json:"id"`
	OwnerID           string    `json:"owner_id"`
	Date              Date      `json:"date"`
	Messages          []Message `json:"messages"`
	LastMessageAt     string    `json:"last_message_at,omitempty"`
	SearchableContent string    `json:"searchable_content"`
}

// SearchableText derives the searchable projection of messages.
func SearchableText(messages []Message) string {
	parts := make([]string, len(messages))
	for i, m := range messages {
		parts[i] = m.Content
	}
	return strings.Join(parts, " ")
}
