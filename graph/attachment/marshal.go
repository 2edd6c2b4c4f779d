package attachment

import (
	"encoding/json"
	"fmt"
)

type inlinePayload struct {
	Data json.RawMessage `json:"data"`
}

type referencePayload struct {
	Reference string `json:"reference"`
}

type wireAttachment struct {
	Name     string          `json:"name"`
	MimeType string          `json:"mime_type"`
	Size     *int            `json:"size,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

// MarshalJSON renders Attachment's payload field in the externally-tagged
// form {"Inline": {"data": ...}} or {"Reference": {"reference": ...}},
// matching the ToolAttachment wire shape (spec §3, §6).
func (a Attachment) MarshalJSON() ([]byte, error) {
	var inner map[string]json.RawMessage
	switch a.Kind {
	case KindInline:
		data, err := json.Marshal(inlinePayload{Data: a.Data})
		if err != nil {
			return nil, err
		}
		inner = map[string]json.RawMessage{string(KindInline): data}
	case KindReference:
		data, err := json.Marshal(referencePayload{Reference: a.Reference})
		if err != nil {
			return nil, err
		}
		inner = map[string]json.RawMessage{string(KindReference): data}
	default:
		return nil, fmt.Errorf("attachment: unknown kind %q", a.Kind)
	}
	payload, err := json.Marshal(inner)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireAttachment{Name: a.Name, MimeType: a.MimeType, Size: a.Size, Payload: payload})
}

// UnmarshalJSON parses the wire form produced by MarshalJSON.
func (a *Attachment) UnmarshalJSON(data []byte) error {
	var w wireAttachment
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(w.Payload, &wrapper); err != nil {
		return err
	}
	if len(wrapper) != 1 {
		return fmt.Errorf("attachment: payload must have exactly one key, got %d", len(wrapper))
	}
	out := Attachment{Name: w.Name, MimeType: w.MimeType, Size: w.Size}
	for kind, inner := range wrapper {
		switch Kind(kind) {
		case KindInline:
			var p inlinePayload
			if err := json.Unmarshal(inner, &p); err != nil {
				return err
			}
			out.Kind = KindInline
			out.Data = p.Data
		case KindReference:
			var p referencePayload
			if err := json.Unmarshal(inner, &p); err != nil {
				return err
			}
			out.Kind = KindReference
			out.Reference = p.Reference
		default:
			return fmt.Errorf("attachment: unknown payload kind %q", kind)
		}
	}
	*a = out
	return nil
}
