// Package attachment implements the tool-output attachment model: the
// inline-vs-reference payload shape, the normalization rule that decides
// between them, and the store interface/implementations that externalize
// oversize payloads (spec §3, §4.4.1, component C).
package attachment

import "encoding/json"

// Attachment is a single tool-output attachment. Exactly one of Inline or
// Reference is populated, selected by Kind.
type Attachment struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     *int   `json:"size,omitempty"`

	Kind      Kind            `json:"-"`
	Data      json.RawMessage `json:"-"`
	Reference string          `json:"-"`
}

// Kind selects which payload variant an Attachment carries.
type Kind string

const (
	KindInline    Kind = "Inline"
	KindReference Kind = "Reference"
)

// Record is the persisted form stored under attachments/<uuid>.json (spec
// §4.11).
type Record struct {
	AttachmentID string     `json:"attachment_id"`
	CreatedAt    string     `json:"created_at"`
	Attachment   Attachment `json:"attachment"`
}

// Store externalizes an inline attachment whose serialized size exceeds a
// policy's max_inline_bytes, returning an opaque reference string of the
// form "attachment://<id>" (spec §4.11).
type Store interface {
	Store(attachment Attachment) (reference string, err error)
}
