package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aditya-sphereoutsourcing/ClinicalAiAssistant/internal/model"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"

// Request/response envelopes of the generateContent API.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

const extractPrompt = `You are a clinical data extraction service. Extract structured data from the electronic health record below.
Respond with JSON only, no prose, matching exactly this shape:
{"medicalHistory":[{"condition":"...","diagnosedAt":"..."}],"currentMedications":["..."],"data":{}}
Put any additional structured findings under "data".

EHR DOCUMENT:
%s`

const interactionsPrompt = `You are a drug interaction checker. Analyze the following medication list for pairwise interactions.
Respond with JSON only, no prose, matching exactly this shape:
{"interactions":[{"drugA":"...","drugB":"...","severity":"minor|moderate|major","description":"..."}]}
Report an empty list when no clinically relevant interaction exists.

MEDICATIONS: %s`

const recommendPrompt = `You are a clinical decision support service. Suggest treatment options for the condition below, taking the patient's current medications into account.
Respond with JSON only, no prose, matching exactly this shape:
{"recommendations":["..."],"warnings":["..."],"references":["..."]}

CONDITION: %s
CURRENT MEDICATIONS: %s`

// Gemini is the live analyzer. Each call performs exactly one generation
// request with a hard timeout and no retries: generations are billable
// and not idempotent-safe to re-issue blindly.
type Gemini struct {
	apiKey string
	model  string
	client *http.Client
	log    zerolog.Logger
}

// NewGemini builds the live analyzer. timeout bounds every generation
// request end to end.
func NewGemini(apiKey, modelName string, timeout time.Duration, log zerolog.Logger) *Gemini {
	return &Gemini{
		apiKey: apiKey,
		model:  modelName,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

func (g *Gemini) ExtractStructuredData(ctx context.Context, document string) (ExtractionResult, error) {
	var out ExtractionResult
	text, err := g.generate(ctx, fmt.Sprintf(extractPrompt, document))
	if err != nil {
		return out, err
	}
	if err := decodeModelJSON(text, &out); err != nil {
		return ExtractionResult{}, err
	}
	if out.Data == nil {
		out.Data = map[string]any{}
	}
	return out, nil
}

func (g *Gemini) DetectInteractions(ctx context.Context, medications []string) ([]model.InteractionFinding, error) {
	text, err := g.generate(ctx, fmt.Sprintf(interactionsPrompt, strings.Join(medications, ", ")))
	if err != nil {
		return nil, err
	}
	var out struct {
		Interactions []model.InteractionFinding `json:"interactions"`
	}
	if err := decodeModelJSON(text, &out); err != nil {
		return nil, err
	}
	return out.Interactions, nil
}

func (g *Gemini) RecommendTreatment(ctx context.Context, condition string, medications []string) (Recommendation, error) {
	var out Recommendation
	text, err := g.generate(ctx, fmt.Sprintf(recommendPrompt, condition, strings.Join(medications, ", ")))
	if err != nil {
		return out, err
	}
	if err := decodeModelJSON(text, &out); err != nil {
		return Recommendation{}, err
	}
	return out, nil
}

// generate performs one generateContent call and returns the text of the
// first candidate.
func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf(geminiEndpoint, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		g.log.Error().Int("status", resp.StatusCode).Dur("latency", time.Since(start)).Msg("gemini call failed")
		return "", fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	var gr geminiResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return "", fmt.Errorf("gemini response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	g.log.Debug().Dur("latency", time.Since(start)).Msg("gemini call ok")
	return gr.Candidates[0].Content.Parts[0].Text, nil
}

// decodeModelJSON parses the model's text output into v. Models often
// wrap JSON in a markdown code fence despite instructions, so fences are
// stripped first.
func decodeModelJSON(text string, v any) error {
	cleaned := stripCodeFence(text)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("parse analyzer output: %w", err)
	}
	return nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop the language tag on the opening fence, e.g. ```json
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		first := strings.TrimSpace(s[:i])
		if len(first) <= 10 && !strings.ContainsAny(first, "{[") {
			s = s[i+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
