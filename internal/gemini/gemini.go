package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/artalog/escribano/internal/conversation"
	"github.com/artalog/escribano/internal/providers"
)

// Provider sends transcription conversations to Google Gemini.
type Provider struct {
	apiKey string
}

// New returns a new Gemini provider.
func New(apiKey string) *Provider {
	return &Provider{apiKey: apiKey}
}

// Transcribe sends the conversation and returns the generated text. System
// turns become the model's system instruction, prior turns become chat
// history, and the final user turn is sent as the message.
func (g *Provider) Transcribe(ctx context.Context, turns []conversation.Turn, req providers.Request) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(req.Model)
	model.SetTemperature(float32(req.Temperature))
	if req.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxOutputTokens))
	}

	var systemParts []genai.Part
	var contents []*genai.Content
	for _, turn := range turns {
		if turn.Role == conversation.RoleSystem {
			for _, part := range turn.Parts {
				systemParts = append(systemParts, genai.Text(part.Text))
			}
			continue
		}
		contents = append(contents, &genai.Content{
			Role:  geminiRole(turn.Role),
			Parts: toParts(turn),
		})
	}
	if len(systemParts) > 0 {
		model.SystemInstruction = &genai.Content{Parts: systemParts}
	}
	if len(contents) == 0 {
		return "", errors.New("conversation has no user turns")
	}

	last := contents[len(contents)-1]
	session := model.StartChat()
	session.History = contents[:len(contents)-1]

	resp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("no candidates returned from Gemini")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("empty content returned from Gemini")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("unexpected response format from Gemini")
	}
	return sb.String(), nil
}

func geminiRole(role conversation.Role) string {
	if role == conversation.RoleAssistant {
		return "model"
	}
	return "user"
}

func toParts(turn conversation.Turn) []genai.Part {
	parts := make([]genai.Part, 0, len(turn.Parts))
	for _, part := range turn.Parts {
		if part.IsImage() {
			format := strings.TrimPrefix(part.MediaType, "image/")
			parts = append(parts, genai.ImageData(format, part.ImageData))
			continue
		}
		parts = append(parts, genai.Text(part.Text))
	}
	return parts
}

func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError {
			return &providers.TransientAPIError{Err: err}
		}
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &providers.TransientAPIError{Err: err}
	}
	return err
}
