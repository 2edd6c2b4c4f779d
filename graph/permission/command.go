package permission

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// ApplyResume decodes an opaque resume command's "value" field and, if it
// names a recognized reply, applies it to the session and returns the
// decoded kind. command is the raw JSON object carried by a resume
// Command (spec §4.8): either a bare string ("once"/"always"/"reject"/
// "deny", case-insensitive — plus the "allow_once" alias recovered from
// the original Rust source's CLI layer, see SPEC_FULL.md §6) or an object
// shaped like {"reply": "..."}. Anything else decodes to (false) without
// mutating the session, per spec "invalid values yield None without
// state change".
//
// gjson lets this navigate the opaque payload without a bespoke parser
// for the handful of shapes the resume protocol actually uses.
func (s *Session) ApplyResume(permission string, command json.RawMessage) (ReplyKind, bool) {
	kind, ok := DecodeReplyValue(command)
	if !ok {
		return "", false
	}
	s.ApplyReply(permission, kind)
	return kind, true
}

// DecodeReplyValue extracts a ReplyKind from a raw command payload without
// mutating any session, so callers can inspect a command before deciding
// whether to apply it.
func DecodeReplyValue(command json.RawMessage) (ReplyKind, bool) {
	if len(command) == 0 {
		return "", false
	}
	root := gjson.ParseBytes(command)
	value := root.Get("value")
	if !value.Exists() {
		// Callers may also pass the value payload directly rather than a
		// {"value": ...} envelope.
		value = root
	}

	switch {
	case value.Type == gjson.String:
		return parseReplyString(value.String())
	case value.IsObject():
		reply := value.Get("reply")
		if reply.Exists() && reply.Type == gjson.String {
			return parseReplyString(reply.String())
		}
	}
	return "", false
}

func parseReplyString(raw string) (ReplyKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "once", "allow_once":
		return Once, true
	case "always":
		return Always, true
	case "reject", "deny":
		return Reject, true
	default:
		return "", false
	}
}
