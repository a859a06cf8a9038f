package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/artalog/escribano/internal/conversation"
	"github.com/artalog/escribano/internal/providers"
)

// Provider sends transcription conversations to the OpenAI chat completions API.
type Provider struct {
	client *goopenai.Client
}

// New returns a new OpenAI provider.
func New(apiKey string) *Provider {
	return &Provider{client: goopenai.NewClient(apiKey)}
}

// NewWithBaseURL returns a provider pointed at an OpenAI-compatible server.
func NewWithBaseURL(apiKey, baseURL string) *Provider {
	config := goopenai.DefaultConfig(apiKey)
	config.BaseURL = baseURL
	return &Provider{client: goopenai.NewClientWithConfig(config)}
}

// Transcribe sends the conversation and returns the generated text.
func (p *Provider) Transcribe(ctx context.Context, turns []conversation.Turn, req providers.Request) (string, error) {
	messages := make([]goopenai.ChatCompletionMessage, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, toMessage(turn))
	}

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:               req.Model,
		Temperature:         float32(req.Temperature),
		MaxCompletionTokens: req.MaxOutputTokens,
		Messages:            messages,
	})
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

func toMessage(turn conversation.Turn) goopenai.ChatCompletionMessage {
	role := goopenai.ChatMessageRoleUser
	switch turn.Role {
	case conversation.RoleSystem:
		role = goopenai.ChatMessageRoleSystem
	case conversation.RoleAssistant:
		role = goopenai.ChatMessageRoleAssistant
	}

	// Text-only turns go on the wire as a plain content string.
	if !turn.HasImage() && len(turn.Parts) == 1 {
		return goopenai.ChatCompletionMessage{Role: role, Content: turn.Parts[0].Text}
	}

	parts := make([]goopenai.ChatMessagePart, 0, len(turn.Parts))
	for _, part := range turn.Parts {
		if part.IsImage() {
			parts = append(parts, goopenai.ChatMessagePart{
				Type: goopenai.ChatMessagePartTypeImageURL,
				ImageURL: &goopenai.ChatMessageImageURL{
					URL: dataURI(part),
				},
			})
			continue
		}
		parts = append(parts, goopenai.ChatMessagePart{
			Type: goopenai.ChatMessagePartTypeText,
			Text: part.Text,
		})
	}
	return goopenai.ChatCompletionMessage{Role: role, MultiContent: parts}
}

func dataURI(p conversation.Part) string {
	return fmt.Sprintf("data:%s;base64,%s", p.MediaType, base64.StdEncoding.EncodeToString(p.ImageData))
}

// classify wraps rate-limit, server, and network failures as transient so the
// driver retries them; everything else (auth, bad request) stays permanent.
func classify(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= http.StatusInternalServerError {
			return &providers.TransientAPIError{Err: err}
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return &providers.TransientAPIError{Err: err}
	}

	return err
}
