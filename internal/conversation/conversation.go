package conversation

// Role tags a turn with its speaker.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Part is one typed piece of a turn's content: plain text, or an inlined
// image carried as raw bytes plus a declared media type. Providers decide how
// to put parts on the wire (data URIs for OpenAI, blobs for Gemini).
type Part struct {
	Text      string
	ImageData []byte
	MediaType string
}

// TextPart returns a plain-text content part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// ImagePart returns an inlined-image content part.
func ImagePart(mediaType string, data []byte) Part {
	return Part{MediaType: mediaType, ImageData: data}
}

// IsImage reports whether the part carries image data.
func (p Part) IsImage() bool {
	return len(p.ImageData) > 0
}

// Turn is one role-tagged entry in a conversation. Conversations are
// assembled fresh for every request from on-disk state and never persisted.
type Turn struct {
	Role  Role
	Parts []Part
}

// HasImage reports whether any part of the turn carries image data.
func (t Turn) HasImage() bool {
	for _, p := range t.Parts {
		if p.IsImage() {
			return true
		}
	}
	return false
}

// Window truncates turns so that at most budget image-bearing turns remain,
// keeping the most recent ones. Text-only turns (assistant replies) ride along
// with the image-bearing turn they follow and are not charged against the
// budget. System and reference turns are never passed through Window; only
// the accumulated work context is subject to the budget.
//
// A budget <= 0 disables truncation.
func Window(turns []Turn, budget int) []Turn {
	if budget <= 0 {
		return turns
	}
	seen := 0
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].HasImage() {
			seen++
			if seen == budget {
				return turns[i:]
			}
		}
	}
	return turns
}
