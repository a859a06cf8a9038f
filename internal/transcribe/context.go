package transcribe

import (
	"fmt"

	"github.com/artalog/escribano/internal/archive"
	"github.com/artalog/escribano/internal/conversation"
)

// DefaultSystemPrompt is the archival-transcription persona sent as the
// system turn when no custom prompt is configured.
const DefaultSystemPrompt = `You are an expert archivist of handwritten historical documents. The documents were written by notaries, clerks, and officials, and you are an expert in reading cursive and able to spot similar characters.

Here are instructions for transcribing the photos of documents:
- A user will provide you with photos of the documents. You will transcribe the photos into text.
- Cross-reference dictionaries and historical documents to ensure accuracy of words.
- Transcribe exactly as written, preserve all spellings.
- Use human transcriptions as examples to guide transcribing.
- If uncertain, use '[...]'

The user will provide the best human-transcribed pages of documents from the same archive that should be used as examples to transcribe newly provided photos:`

// BuildSystemContext produces the fixed conversation preamble: one system
// instruction turn followed by one user turn per reference image pairing the
// image with its human annotation. Every reference image must have an
// annotation; work images may not.
func BuildSystemContext(prompt string, refs []archive.PageImage) ([]conversation.Turn, error) {
	turns := []conversation.Turn{{
		Role:  conversation.RoleSystem,
		Parts: []conversation.Part{conversation.TextPart(prompt)},
	}}

	for _, ref := range refs {
		if !ref.HasAnnotation() {
			return nil, &PreconditionError{
				Path:   ref.Path(),
				Reason: "reference image has no annotation file",
			}
		}
		annotation, err := ref.Annotation()
		if err != nil {
			return nil, fmt.Errorf("failed to load reference context for %s: %w", ref.Path(), err)
		}
		data, err := ref.ReadImage()
		if err != nil {
			return nil, fmt.Errorf("failed to load reference context for %s: %w", ref.Path(), err)
		}
		turns = append(turns, conversation.Turn{
			Role: conversation.RoleUser,
			Parts: []conversation.Part{
				conversation.ImagePart(ref.MediaType(), data),
				conversation.TextPart("Example of the best manual transcription by a human of the image above:\n" + annotation),
			},
		})
	}

	return turns, nil
}

// Unit is the next piece of work: the target image to transcribe plus the
// window of prior user/assistant pairs that precede it.
type Unit struct {
	Context []conversation.Turn
	Target  archive.PageImage
}

// NextUnit scans the work set in order, accumulating a user/assistant turn
// pair per completed image, and stops at the first image with no
// transcription. The accumulated context is truncated to the pairs for the
// budget most recent images. Returns ErrExhausted when every image is done.
//
// Completion state is re-derived from disk on every call, which is what makes
// an interrupted run resumable with no checkpoint file.
func NextUnit(work []archive.PageImage, budget int) (*Unit, error) {
	var context []conversation.Turn
	for _, img := range work {
		if img.Status() == archive.StatusDone {
			user, err := UserTurn(img)
			if err != nil {
				return nil, err
			}
			text, err := img.Transcription()
			if err != nil {
				return nil, fmt.Errorf("failed to load work context for %s: %w", img.Path(), err)
			}
			context = append(context, user, conversation.Turn{
				Role:  conversation.RoleAssistant,
				Parts: []conversation.Part{conversation.TextPart(text)},
			})
			continue
		}
		return &Unit{
			Context: conversation.Window(context, budget),
			Target:  img,
		}, nil
	}
	return nil, ErrExhausted
}

// UserTurn builds the user turn requesting a transcription of img. When the
// image has a human annotation it is included as guidance.
func UserTurn(img archive.PageImage) (conversation.Turn, error) {
	text := "Transcribe the following image"
	if img.HasAnnotation() {
		annotation, err := img.Annotation()
		if err != nil {
			return conversation.Turn{}, fmt.Errorf("failed to load annotation for %s: %w", img.Path(), err)
		}
		text += " by using the following human transcription as base:\n" + annotation
	}

	data, err := img.ReadImage()
	if err != nil {
		return conversation.Turn{}, err
	}
	return conversation.Turn{
		Role: conversation.RoleUser,
		Parts: []conversation.Part{
			conversation.TextPart(text),
			conversation.ImagePart(img.MediaType(), data),
		},
	}, nil
}
