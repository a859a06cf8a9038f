package openai

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/artalog/escribano/internal/conversation"
	"github.com/artalog/escribano/internal/providers"
)

func TestToMessageTextOnly(t *testing.T) {
	turn := conversation.Turn{
		Role:  conversation.RoleSystem,
		Parts: []conversation.Part{conversation.TextPart("instructions")},
	}

	msg := toMessage(turn)
	if msg.Role != goopenai.ChatMessageRoleSystem {
		t.Errorf("Role = %s, want system", msg.Role)
	}
	if msg.Content != "instructions" || msg.MultiContent != nil {
		t.Errorf("Text-only turn must use the plain content string, got %+v", msg)
	}
}

func TestToMessageWithImage(t *testing.T) {
	turn := conversation.Turn{
		Role: conversation.RoleUser,
		Parts: []conversation.Part{
			conversation.TextPart("Transcribe the following image"),
			conversation.ImagePart("image/jpeg", []byte{0xff, 0xd8}),
		},
	}

	msg := toMessage(turn)
	if msg.Content != "" {
		t.Error("Image turn must not set the plain content string")
	}
	if len(msg.MultiContent) != 2 {
		t.Fatalf("MultiContent has %d parts, want 2", len(msg.MultiContent))
	}
	if msg.MultiContent[0].Type != goopenai.ChatMessagePartTypeText {
		t.Errorf("First part type = %s, want text", msg.MultiContent[0].Type)
	}
	img := msg.MultiContent[1]
	if img.Type != goopenai.ChatMessagePartTypeImageURL || img.ImageURL == nil {
		t.Fatalf("Second part is not an image URL part: %+v", img)
	}
	if !strings.HasPrefix(img.ImageURL.URL, "data:image/jpeg;base64,") {
		t.Errorf("Image URL = %s, want base64 data URI", img.ImageURL.URL)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"rate limit", &goopenai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, true},
		{"server error", &goopenai.APIError{HTTPStatusCode: http.StatusBadGateway}, true},
		{"auth error", &goopenai.APIError{HTTPStatusCode: http.StatusUnauthorized}, false},
		{"bad request", &goopenai.APIError{HTTPStatusCode: http.StatusBadRequest}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			var transient *providers.TransientAPIError
			if errors.As(got, &transient) != tt.transient {
				t.Errorf("classify(%v) transient = %v, want %v", tt.err, !tt.transient, tt.transient)
			}
		})
	}
}
