package gemini_provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/askdeck/askdeck/models"
)

const (
	geminiAPIURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"

	// noAnswerMarker is the token the model emits when the supplied
	// documents do not contain the answer.
	noAnswerMarker = "NO_RELEVANT_INFO_FOUND"
)

// client implements the Provider interface using Google's Gemini API
type client struct {
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// request represents a request to the Gemini generateContent API
type request struct {
	Contents          []content        `json:"contents"`
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

// response represents a response from the Gemini generateContent API
type response struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(apiKey, model string, temperature float64, maxTokens int, timeout time.Duration) *client {
	return &client{
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// AnalyzeIntent classifies the user message into an intent category
func (c *client) AnalyzeIntent(ctx context.Context, message string, history string) (models.Intent, error) {
	systemPrompt := `
You are an intent classifier for a workplace HR assistant. Classify the user's
message into exactly one category.

CATEGORIES:
greeting, leave_policy, benefits, employee_lookup, parental_leave,
disciplinary, hybrid_work, workday_system, internal_hiring, general_hr

RESPONSE FORMAT:
Respond ONLY with valid JSON in the following format:
{
  "category": "category_value",
  "keywords": ["array", "of", "search", "keywords"],
  "needs_documents": true
}
Set needs_documents to false only for greetings and small talk.
Do not include any other text or explanation.
`
	userPrompt := fmt.Sprintf(`
CONTEXT HISTORY:
[%s]

USER MESSAGE: "%s"
`, history, message)

	responseStr, err := c.sendRequest(ctx, systemPrompt, userPrompt, 0.1, 1000)
	if err != nil {
		return models.Intent{}, err
	}

	var intent models.Intent
	if err := json.Unmarshal([]byte(stripFences(responseStr)), &intent); err != nil {
		// An unparseable classification falls back to a full document search.
		return models.Intent{Category: models.IntentGeneral, NeedsDocuments: true}, nil
	}
	if intent.Category == "" {
		intent.Category = models.IntentGeneral
	}
	return intent, nil
}

// AnswerFromDocuments generates an answer grounded in the given document excerpts
func (c *client) AnswerFromDocuments(ctx context.Context, message, documents, history string) (string, bool, error) {
	systemPrompt := fmt.Sprintf(`
You are a helpful workplace HR assistant. Answer the user's question using ONLY
the information in the provided documents.

RULES:
1. Be concise and friendly, not technical
2. Never mention the documents, sections, or file names to the user
3. If the documents do not contain the answer, respond with exactly %s
4. Do not invent policies, numbers, or names that are not in the documents
`, noAnswerMarker)
	userPrompt := fmt.Sprintf(`
CONTEXT HISTORY:
[%s]

DOCUMENTS:
%s

USER MESSAGE: "%s"
`, history, documents, message)

	responseStr, err := c.sendRequest(ctx, systemPrompt, userPrompt, 0.2, 512)
	if err != nil {
		return "", false, err
	}
	if strings.Contains(responseStr, noAnswerMarker) {
		return "", false, nil
	}
	return responseStr, true, nil
}

// SmallTalk answers conversational messages without document grounding
func (c *client) SmallTalk(ctx context.Context, message string) (string, error) {
	systemPrompt := `
You are a friendly workplace HR assistant. Reply briefly to the greeting or
small talk, and mention that you can answer questions about company policies.
Respond with plain text only.
`
	return c.sendRequest(ctx, systemPrompt, message, 0.3, 256)
}

// sendRequest sends a request to the Gemini API
func (c *client) sendRequest(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error) {
	requestBody := request{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: userPrompt}}},
		},
		SystemInstruction: &content{Parts: []part{{Text: systemPrompt}}},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf(geminiAPIURL, c.model) + "?key=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status: %d", resp.StatusCode)
	}

	var geminiResp response
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	return strings.TrimSpace(geminiResp.Candidates[0].Content.Parts[0].Text), nil
}

// stripFences removes a Markdown code fence the model sometimes wraps JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
