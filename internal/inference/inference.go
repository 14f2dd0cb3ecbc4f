package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/evergreen-care/melodymind/internal/models"
)

// ErrUpstream marks a failure of the Gemini call itself (network, auth,
// quota). ErrBadOutput marks a response that could not be parsed as the
// expected JSON object. Neither is retried.
var (
	ErrUpstream  = errors.New("inference: generative service failed")
	ErrBadOutput = errors.New("inference: model output is not valid JSON")
)

const systemInstruction = `You are a music therapy expert helping caregivers build nostalgic playlists for dementia patients. Given a patient biography, infer their likely music taste.

Respond with ONLY a valid JSON object, no markdown, no commentary, with exactly these keys:
"eraTags": an array of exactly 2 decade strings (e.g. "1960s"). If a life period is given, pick the 2 decades matching that period of the patient's life; otherwise pick the decades covering the patient's ages 13 to 25, a person's formative music years.
"culturalTags": an array of exactly 8 music genre strings reflecting the patient's culture, language and region.
"artists": an array of exactly 20 artist names the patient most likely listened to.
"countryISO": the patient's country as a string.`

type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(apiKey string) (*GeminiClient, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.5-flash")
	model.SetTemperature(0.3)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(2048)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (g *GeminiClient) Close() {
	g.client.Close()
}

// InferTags sends the patient profile to Gemini and parses the streamed
// response into a TagSet.
func (g *GeminiClient) InferTags(ctx context.Context, profile models.PatientProfile) (*models.TagSet, error) {
	prompt := BuildProfileText(profile)

	iter := g.model.GenerateContentStream(ctx, genai.Text(prompt))

	var sb strings.Builder
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					sb.WriteString(string(text))
				}
			}
		}
	}

	return ParseTagSet(sb.String())
}

// BuildProfileText renders the biography as the plain-text prompt body.
// Field order is fixed; missing fields fall back to literal placeholders.
func BuildProfileText(p models.PatientProfile) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Birth year: %s\n", orUnknown(p.BirthYear.String())))
	sb.WriteString(fmt.Sprintf("Hometown: %s\n", orUnknown(p.Hometown)))
	sb.WriteString(fmt.Sprintf("Language: %s\n", orUnknown(p.Language)))
	if strings.TrimSpace(p.Culture) != "" {
		sb.WriteString(fmt.Sprintf("Culture: %s\n", strings.TrimSpace(p.Culture)))
	}
	if strings.TrimSpace(p.LifePeriod) != "" {
		sb.WriteString(fmt.Sprintf("Life period to focus on: %s\n", strings.TrimSpace(p.LifePeriod)))
	}
	songs := strings.TrimSpace(p.ResonantSongs)
	if songs == "" {
		songs = "none provided"
	}
	sb.WriteString(fmt.Sprintf("Songs the patient remembers: %s\n", songs))

	return sb.String()
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}

// ParseTagSet strips any enclosing code fence and parses the model output.
// Models occasionally wrap JSON in ```json fences even when told not to.
func ParseTagSet(raw string) (*models.TagSet, error) {
	text := StripCodeFence(raw)

	var tags models.TagSet
	if err := json.Unmarshal([]byte(text), &tags); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadOutput, err)
	}
	return &tags, nil
}

// StripCodeFence removes a surrounding ``` or ```json fence, if present.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 && !strings.ContainsAny(s[:idx], "{[") {
		// drop the language hint line, e.g. "json"
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
