package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/jonathan/forum-insights/internal/types"
	"google.golang.org/api/option"
)

// DefaultModel is the Gemini model used for sentiment analysis.
const DefaultModel = "gemini-2.5-flash-lite"

// maxContentChars bounds how much post content is sent per request.
const maxContentChars = 4000

// GeminiAnalyzer implements Analyzer using Google Gemini.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalyzer creates a Gemini-backed analyzer. An empty model uses
// DefaultModel.
func NewGeminiAnalyzer(ctx context.Context, apiKey, model string) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiAnalyzer{client: client, model: model}, nil
}

// Close releases the underlying client.
func (a *GeminiAnalyzer) Close() error {
	return a.client.Close()
}

// AnalyzePost asks the model for sentiment and topic keywords as strict JSON.
func (a *GeminiAnalyzer) AnalyzePost(ctx context.Context, record *types.PostRecord) (*Result, error) {
	content := trimForPrompt(record.Content)

	prompt := fmt.Sprintf(`Analyze the sentiment of this forum post from the %q category.

Title: %s

%s

Respond with ONLY a JSON object, no markdown, in exactly this shape:
{"sentiment": "positive" | "neutral" | "negative", "score": <float 0.0-1.0>, "keywords": [<up to 5 topic keywords>]}`,
		record.Category, record.Title, content)

	model := a.client.GenerativeModel(a.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &Error{URL: record.URL, Message: "generation failed", Cause: err}
	}

	text := responseText(resp)
	if text == "" {
		return nil, &Error{URL: record.URL, Message: "empty model response"}
	}

	result, err := parseResult(text)
	if err != nil {
		return nil, &Error{URL: record.URL, Message: "unparseable model response", Cause: err}
	}
	return result, nil
}

// trimForPrompt bounds post content sent per request, cutting on a rune
// boundary so the payload stays valid UTF-8.
func trimForPrompt(s string) string {
	runes := []rune(s)
	if len(runes) <= maxContentChars {
		return s
	}
	return string(runes[:maxContentChars])
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

// parseResult parses the model's JSON, tolerating markdown code fences the
// model sometimes adds despite instructions, and clamping out-of-range values.
func parseResult(text string) (*Result, error) {
	var result Result
	if err := json.Unmarshal([]byte(cleanJSONBlock(text)), &result); err != nil {
		return nil, err
	}

	switch result.SentimentLabel {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
	default:
		result.SentimentLabel = SentimentNeutral
	}
	if result.SentimentScore < 0 {
		result.SentimentScore = 0
	}
	if result.SentimentScore > 1 {
		result.SentimentScore = 1
	}
	return &result, nil
}

// cleanJSONBlock removes markdown code block wrappers from JSON responses.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}
