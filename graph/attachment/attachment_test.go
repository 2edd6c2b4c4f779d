package attachment

import (
	"encoding/json"
	"os"
	"testing"
)

func TestNormalizeMimeTypeMissing(t *testing.T) {
	p := Policy{MaxInlineBytes: 100}
	_, err := p.Normalize(Attachment{Kind: KindInline, Data: json.RawMessage(`"x"`)}, nil)
	if err != ErrMimeTypeMissing {
		t.Fatalf("err = %v, want ErrMimeTypeMissing", err)
	}
}

func TestNormalizeKeepsSmallInline(t *testing.T) {
	p := Policy{MaxInlineBytes: 100}
	att := Attachment{MimeType: "text/plain", Kind: KindInline, Data: json.RawMessage(`"hi"`)}
	out, err := p.Normalize(att, nil)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if out.Kind != KindInline {
		t.Fatalf("kind = %v, want Inline", out.Kind)
	}
	if out.Size == nil || *out.Size != len(att.Data) {
		t.Fatalf("size = %v, want %d", out.Size, len(att.Data))
	}
}

func TestNormalizeExternalizesOversizeInline(t *testing.T) {
	p := Policy{MaxInlineBytes: 4}
	store := NewMemoryStore()
	att := Attachment{MimeType: "text/plain", Kind: KindInline, Data: json.RawMessage(`"0123456789012"`)}
	out, err := p.Normalize(att, store)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if out.Kind != KindReference {
		t.Fatalf("kind = %v, want Reference", out.Kind)
	}
	if out.Size == nil || *out.Size != 15 {
		t.Fatalf("size = %v, want 15", out.Size)
	}
	if out.Reference == "" {
		t.Fatal("expected non-empty reference")
	}
}

func TestNormalizeOversizeWithoutStoreFails(t *testing.T) {
	p := Policy{MaxInlineBytes: 1}
	att := Attachment{MimeType: "text/plain", Kind: KindInline, Data: json.RawMessage(`"too big"`)}
	_, err := p.Normalize(att, nil)
	if err != ErrStoreUnavailable {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
}

func TestNormalizeReferencePassesThrough(t *testing.T) {
	p := Policy{MaxInlineBytes: 0}
	att := Attachment{MimeType: "text/plain", Kind: KindReference, Reference: "attachment://abc"}
	out, err := p.Normalize(att, nil)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if out.Reference != "attachment://abc" {
		t.Fatalf("reference = %q, want unchanged", out.Reference)
	}
}

func TestAttachmentMarshalInline(t *testing.T) {
	size := 2
	att := Attachment{Name: "a", MimeType: "text/plain", Size: &size, Kind: KindInline, Data: json.RawMessage(`"hi"`)}
	data, err := json.Marshal(att)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded Attachment
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Kind != KindInline || string(decoded.Data) != `"hi"` {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestMemoryStoreReferenceFormat(t *testing.T) {
	store := NewMemoryStore()
	ref, err := store.Store(Attachment{MimeType: "text/plain", Kind: KindInline, Data: json.RawMessage(`"x"`)})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if len(ref) < len("attachment://") || ref[:len("attachment://")] != "attachment://" {
		t.Fatalf("reference = %q, want attachment:// prefix", ref)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	att := Attachment{MimeType: "text/plain", Kind: KindInline, Data: json.RawMessage(`"hi"`)}
	ref, err := store.Store(att)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	id := ref[len("attachment://"):]
	rec, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.AttachmentID != id {
		t.Fatalf("attachment_id = %q, want %q", rec.AttachmentID, id)
	}

	entries, err := os.ReadDir(dir + "/attachments")
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one file in attachments dir, got %v err=%v", entries, err)
	}
}
