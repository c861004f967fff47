package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Narrative is the four-section analysis returned by the model. The keys
// match the prompt contract exactly.
type Narrative struct {
	Summary         string `json:"SUMMARY"`
	Analysis        string `json:"ANALYSIS"`
	Recommendations string `json:"RECOMMENDATIONS"`
	HealthInsights  string `json:"HEALTH_INSIGHTS"`
}

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// NarrativeResult tags the narrative with whether it came from the model or
// is the degradation placeholder, so callers can tell analysis from filler.
type NarrativeResult struct {
	Narrative Narrative
	Status    string
}

// PlaceholderNarrative is substituted on any transport or parse failure.
func PlaceholderNarrative() Narrative {
	return Narrative{Summary: "AI analysis could not be generated at this time."}
}

const chatFallback = "I'm sorry, I'm unable to answer right now. Please try again later."

// ChatMessage is one turn of a chat conversation, in the wire format of the
// chat-completions API.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client talks to an Azure-OpenAI-shaped chat-completions endpoint. A zero
// endpoint disables the client; calls then degrade immediately.
type Client struct {
	http       *resty.Client
	endpoint   string
	deployment string
	apiVersion string
	logger     zerolog.Logger
}

func NewClient(endpoint, apiKey, deployment, apiVersion string, timeout time.Duration, logger zerolog.Logger) *Client {
	httpc := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("api-key", apiKey)
	return &Client{
		http:       httpc,
		endpoint:   strings.TrimRight(endpoint, "/"),
		deployment: deployment,
		apiVersion: apiVersion,
		logger:     logger.With().Str("component", "ai").Logger(),
	}
}

// Configured reports whether an endpoint was provided.
func (c *Client) Configured() bool { return c.endpoint != "" }

func (c *Client) completionsURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		c.endpoint, c.deployment, c.apiVersion)
}

func (c *Client) complete(ctx context.Context, messages []ChatMessage) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("ai endpoint not configured")
	}
	var out chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatRequest{Messages: messages, Temperature: 0.3, MaxTokens: 1200}).
		SetResult(&out).
		Post(c.completionsURL())
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("chat completion: unexpected status %d", resp.StatusCode())
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}
	return out.Choices[0].Message.Content, nil
}

const narrativePrompt = `You are a clinical nutrition analyst. Given the patient nutrition data provided, respond with a JSON object containing exactly four string fields: SUMMARY, ANALYSIS, RECOMMENDATIONS, HEALTH_INSIGHTS. Respond with JSON only, no surrounding text.`

// Narrative asks the model for the four-section analysis of payload. It
// never returns an error: any failure yields the placeholder with a
// degraded status.
func (c *Client) Narrative(ctx context.Context, payload any) NarrativeResult {
	degraded := NarrativeResult{Narrative: PlaceholderNarrative(), Status: StatusDegraded}

	data, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to encode narrative payload")
		return degraded
	}
	content, err := c.complete(ctx, []ChatMessage{
		{Role: "system", Content: narrativePrompt},
		{Role: "user", Content: string(data)},
	})
	if err != nil {
		c.logger.Error().Err(err).Msg("narrative generation failed")
		return degraded
	}
	var n Narrative
	if err := json.Unmarshal([]byte(CleanJSONResponse(content)), &n); err != nil {
		c.logger.Error().Err(err).Msg("narrative response was not valid JSON")
		return degraded
	}
	return NarrativeResult{Narrative: n, Status: StatusOK}
}

// Chat sends one user message with prior history and a patient-context
// system prompt. On failure the fallback apology is returned and the
// history comes back unchanged.
func (c *Client) Chat(ctx context.Context, patientContext, message string, history []ChatMessage) (string, []ChatMessage) {
	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: patientContext})
	messages = append(messages, history...)
	messages = append(messages, ChatMessage{Role: "user", Content: message})

	content, err := c.complete(ctx, messages)
	if err != nil {
		c.logger.Error().Err(err).Msg("chat completion failed")
		return chatFallback, history
	}
	updated := append(append([]ChatMessage{}, history...),
		ChatMessage{Role: "user", Content: message},
		ChatMessage{Role: "assistant", Content: content})
	return content, updated
}

// CleanJSONResponse trims any text outside the outermost JSON object.
// Models occasionally wrap their JSON in prose or markdown fences.
func CleanJSONResponse(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
