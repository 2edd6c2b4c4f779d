package attachment

import (
	"errors"

	"github.com/dustin/go-humanize"
)

// ErrMimeTypeMissing is returned by Normalize when an attachment has an
// empty mime_type (spec §4.4.1).
var ErrMimeTypeMissing = errors.New("attachment mime_type missing")

// ErrStoreUnavailable is returned by Normalize when an inline attachment
// exceeds MaxInlineBytes and no Store was supplied (spec §4.4.1).
var ErrStoreUnavailable = errors.New("attachment store unavailable")

// Policy configures attachment normalization.
type Policy struct {
	// MaxInlineBytes is the largest serialized inline payload size kept
	// inline; larger payloads are externalized via a Store.
	MaxInlineBytes int
}

// Normalize applies the §4.4.1 rule: a Reference attachment passes
// through unchanged; an Inline attachment whose serialized data size is
// ≤ p.MaxInlineBytes keeps its data and gets its Size set; otherwise it is
// externalized through store and rewritten to a Reference carrying the
// measured size.
func (p Policy) Normalize(att Attachment, store Store) (Attachment, error) {
	if att.MimeType == "" {
		return Attachment{}, ErrMimeTypeMissing
	}
	if att.Kind == KindReference {
		return att, nil
	}

	size := len(att.Data)
	if size <= p.MaxInlineBytes {
		s := size
		att.Size = &s
		return att, nil
	}

	if store == nil {
		return Attachment{}, ErrStoreUnavailable
	}
	ref, err := store.Store(att)
	if err != nil {
		return Attachment{}, err
	}
	s := size
	return Attachment{
		Name:      att.Name,
		MimeType:  att.MimeType,
		Size:      &s,
		Kind:      KindReference,
		Reference: ref,
	}, nil
}

// SizeDescription renders a human-readable byte count, used in log
// messages and error context around oversize attachments.
func SizeDescription(sizeBytes int) string {
	return humanize.Bytes(uint64(sizeBytes))
}
