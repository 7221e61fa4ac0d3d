package draft

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/ember/internal/client/models"
	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"
)

// ErrMissingAPIKey is returned before any request is made when no API key is
// configured.
var ErrMissingAPIKey = errors.New("gemini API key is missing")

const systemInstruction = `You are Ember, an empathetic AI companion.
Your goal is to listen to a therapy session recording (or read a transcript) and write a personal journal entry FROM THE PERSPECTIVE OF THE PATIENT/CLIENT.

Guidelines:
- Voice: First-person ("I felt...", "I realized...").
- Tone: Reflective, vulnerable, honest, and constructive.
- Content: Don't just transcribe. Synthesize. Mention what the therapist helped "me" see. Focus on "aha" moments.
- Avoid: Robotic phrasing like "In this session we discussed." Instead use "Today we talked about..." or "I finally opened up about..."
- Length: 300-500 words.`

const (
	audioPrompt      = "Please listen to this therapy session and generate my reflection journal."
	transcriptPrompt = "Here is a transcript of my therapy session:\n\n%s\n\nPlease generate my reflection journal based on this."
)

type schema struct {
	Type        string            `json:"type"`
	Description string            `json:"description,omitempty"`
	Properties  map[string]schema `json:"properties,omitempty"`
	Items       *schema           `json:"items,omitempty"`
	Required    []string          `json:"required,omitempty"`
}

var responseSchema = schema{
	Type: "OBJECT",
	Properties: map[string]schema{
		"title": {
			Type:        "STRING",
			Description: "A short, poetic, or summarizing title for this journal entry.",
		},
		"journalContent": {
			Type:        "STRING",
			Description: "A first-person reflective journal entry (300-500 words) using 'I' statements that synthesizes the therapist's input into personal realizations.",
		},
		"insights": {
			Type:        "ARRAY",
			Items:       &schema{Type: "STRING"},
			Description: "3-5 bullet points identifying key breakthroughs, patterns, or action items.",
		},
		"moodTags": {
			Type:        "ARRAY",
			Items:       &schema{Type: "STRING"},
			Description: "3 single-word adjectives describing the emotional state.",
		},
		"transcript": {
			Type:        "STRING",
			Description: "If provided in input, echo it back here. If audio, attempt to transcribe a short summary.",
		},
	},
	Required: []string{"title", "journalContent", "insights", "moodTags"},
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
	ResponseSchema   schema `json:"responseSchema"`
}

type generateRequest struct {
	SystemInstruction content          `json:"systemInstruction"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GeminiGenerator calls the Gemini generateContent REST endpoint.
type GeminiGenerator struct {
	client *resty.Client
	apiKey string
	model  string
}

// NewGeminiGenerator builds a generator. Empty baseURL and model fall back
// to the public endpoint and DefaultModel.
func NewGeminiGenerator(baseURL, apiKey, model string, timeout time.Duration) *GeminiGenerator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &GeminiGenerator{client: c, apiKey: apiKey, model: model}
}

func (g *GeminiGenerator) FromAudio(ctx context.Context, audio []byte, mimeType string) (*models.Draft, error) {
	if len(audio) == 0 {
		return nil, errors.New("empty audio")
	}
	return g.generate(ctx, []part{
		{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(audio)}},
		{Text: audioPrompt},
	})
}

// FromTranscript keeps the transcript it was given on the returned draft,
// whatever the model echoes back.
func (g *GeminiGenerator) FromTranscript(ctx context.Context, transcript string) (*models.Draft, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, errors.New("empty transcript")
	}
	d, err := g.generate(ctx, []part{{Text: fmt.Sprintf(transcriptPrompt, transcript)}})
	if err != nil {
		return nil, err
	}
	d.Transcript = transcript
	return d, nil
}

func (g *GeminiGenerator) generate(ctx context.Context, parts []part) (*models.Draft, error) {
	if g.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	body := generateRequest{
		SystemInstruction: content{Parts: []part{{Text: systemInstruction}}},
		Contents:          []content{{Role: "user", Parts: parts}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema,
		},
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", g.apiKey).
		SetPathParam("model", g.model).
		SetBody(&body).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		var ae apiError
		if json.Unmarshal(resp.Body(), &ae) == nil && ae.Error.Message != "" {
			return nil, fmt.Errorf("gemini status %d: %s", resp.StatusCode(), ae.Error.Message)
		}
		return nil, fmt.Errorf("gemini status %d", resp.StatusCode())
	}

	var gr generateResponse
	if err := json.Unmarshal(resp.Body(), &gr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return parseDraft(&gr)
}

func parseDraft(gr *generateResponse) (*models.Draft, error) {
	if len(gr.Candidates) == 0 {
		return nil, errors.New("no response generated")
	}

	var text strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if text.Len() == 0 {
		return nil, errors.New("no response generated")
	}

	var d models.Draft
	if err := json.Unmarshal([]byte(text.String()), &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	if d.Title == "" || d.Content == "" {
		return nil, errors.New("draft is missing title or content")
	}
	if d.Insights == nil {
		d.Insights = []string{}
	}
	if d.MoodTags == nil {
		d.MoodTags = []string{}
	}
	return &d, nil
}
