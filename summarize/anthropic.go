package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// summarySystemPrompt instructs the model to produce a replacement
// summary for the oldest part of a conversation.
const summarySystemPrompt = `You are a conversation summarizer. You will receive the oldest portion of an ongoing conversation between a user and an assistant. Produce a compact summary that can replace those turns while preserving everything needed to continue the conversation.

Preserve:
- The user's goals, requests and stated constraints
- Decisions made and their reasoning
- Facts, names, figures and references established in the conversation
- Unresolved questions and pending items

Guidelines:
- Use short bullet points
- Keep chronological order
- Do not add information that was not in the conversation
- Do not comment on the summarization itself`

// Anthropic summarizes conversation text via Claude's streaming API.
type Anthropic struct {
	client *anthropic.Client
	model  string
}

// NewAnthropic creates an Anthropic-backed Summarizer. Using a
// fast/cheap model for summarization is recommended.
func NewAnthropic(client *anthropic.Client, model string) *Anthropic {
	return &Anthropic{client: client, model: model}
}

// Summarize generates a summary of text using the streaming API. The
// caller controls deadlines through ctx.
func (a *Anthropic) Summarize(ctx context.Context, text string, maxOutputTokens int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("summarize: empty input")
	}

	userPrompt := fmt.Sprintf("Summarize the following conversation excerpt:\n\n<conversation>\n%s\n</conversation>", text)

	stream := a.client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(maxOutputTokens),
		System: []anthropic.TextBlockParam{
			{Text: summarySystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})

	message := anthropic.Message{}
	for stream.Next() {
		if err := message.Accumulate(stream.Current()); err != nil {
			return "", fmt.Errorf("summarize: failed to accumulate stream: %w", err)
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	var out strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			out.WriteString(text.Text)
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("summarize: empty response from model")
	}

	return out.String(), nil
}
