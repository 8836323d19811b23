package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"fluxpense-backend/domain"
	"fluxpense-backend/internal/utils"
	"fluxpense-backend/pkg/capture"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	requestTimeout = 30 * time.Second
)

const receiptPrompt = "Analyze this receipt image and respond ONLY with a valid JSON object containing exactly these fields: 'amount' (number, the receipt total), 'merchant' (string), 'date' (string in YYYY-MM-DD format), 'category' (string, one of: %s), 'items' (array of line item name strings), and 'confidence' (number between 0 and 1). If the image is not a receipt or contains no purchase, set confidence below 0.3. Do not include any explanations, markdown formatting, or extra text."

const emailPrompt = "Analyze the following email text and extract purchase information. Respond ONLY with a valid JSON object containing exactly these fields: 'amount' (number), 'merchant' (string), 'date' (string in YYYY-MM-DD format), 'category' (string, one of: %s), 'items' (array of line item name strings), and 'confidence' (number between 0 and 1). If the email contains no purchase information, set confidence below 0.3. Do not include any explanations, markdown formatting, or extra text.\n\nEmail text:\n%s"

type (
	// ExtractionClient converts a normalized capture payload into a candidate
	// expense by calling the delegated extraction endpoint. Results are
	// provisional; amount, merchant, and date are subject to user review
	// before anything is persisted.
	ExtractionClient interface {
		ExtractFromImage(ctx context.Context, payload capture.Payload) (domain.CandidateExpense, error)
		ExtractFromText(ctx context.Context, content string) (domain.CandidateExpense, error)
	}

	extractionClient struct {
		httpClient *http.Client
		baseURL    string
		apiKey     string
		model      string
	}
)

func NewExtractionClient() ExtractionClient {
	baseURL := utils.GetConfig("GEMINI_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &extractionClient{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
		apiKey:     utils.GetConfig("GEMINI_API_KEY"),
		model:      utils.GetConfig("GEMINI_MODEL"),
	}
}

func (e *extractionClient) ExtractFromImage(ctx context.Context, payload capture.Payload) (domain.CandidateExpense, error) {
	if payload.Kind != capture.PayloadImage {
		return domain.CandidateExpense{}, fmt.Errorf("%w: payload is not an image", domain.ErrExtractionFailed)
	}

	mimeType := payload.MimeType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	parts := []map[string]interface{}{
		{
			"text": fmt.Sprintf(receiptPrompt, strings.Join(domain.DefaultCategories, ", ")),
		},
		{
			"inline_data": map[string]interface{}{
				"mime_type": mimeType,
				"data":      payload.Data,
			},
		},
	}

	return e.generate(ctx, parts)
}

func (e *extractionClient) ExtractFromText(ctx context.Context, content string) (domain.CandidateExpense, error) {
	parts := []map[string]interface{}{
		{
			"text": fmt.Sprintf(emailPrompt, strings.Join(domain.DefaultCategories, ", "), content),
		},
	}

	return e.generate(ctx, parts)
}

func (e *extractionClient) generate(ctx context.Context, parts []map[string]interface{}) (domain.CandidateExpense, error) {
	if e.apiKey == "" {
		return domain.CandidateExpense{}, fmt.Errorf("%w: GEMINI_API_KEY not set", domain.ErrExtractionFailed)
	}
	if e.model == "" {
		return domain.CandidateExpense{}, fmt.Errorf("%w: GEMINI_MODEL not set", domain.ErrExtractionFailed)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", e.baseURL, e.model, e.apiKey)

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": parts},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.1,
			"topP":        0.8,
			"topK":        40,
		},
	}

	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return domain.CandidateExpense{}, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestJSON))
	if err != nil {
		return domain.CandidateExpense{}, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return domain.CandidateExpense{}, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return domain.CandidateExpense{}, fmt.Errorf("%w: %s - %s", domain.ErrExtractionFailed, resp.Status, string(bodyBytes))
	}

	var genResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return domain.CandidateExpense{}, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return domain.CandidateExpense{}, fmt.Errorf("%w: empty response from model", domain.ErrExtractionFailed)
	}

	return parseCandidate(genResp.Candidates[0].Content.Parts[0].Text)
}

var jsonPattern = regexp.MustCompile(`(?s)\{.*\}`)

// parseCandidate pulls the JSON object out of the model's response text,
// tolerating markdown fences and surrounding prose, and normalizes every
// optional field so downstream code never sees an absent one.
func parseCandidate(responseText string) (domain.CandidateExpense, error) {
	if matches := jsonPattern.FindString(responseText); matches != "" {
		responseText = matches
	}

	responseText = strings.TrimSpace(responseText)
	if strings.HasPrefix(responseText, "```json") {
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimSuffix(responseText, "```")
	} else if strings.HasPrefix(responseText, "```") {
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
	}
	responseText = strings.TrimSpace(responseText)

	var candidate domain.CandidateExpense
	if err := json.Unmarshal([]byte(responseText), &candidate); err != nil {
		return domain.CandidateExpense{}, fmt.Errorf("%w: failed to parse response: %v", domain.ErrExtractionFailed, err)
	}

	if candidate.Date == "" {
		candidate.Date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", candidate.Date); err != nil {
		candidate.Date = time.Now().Format("2006-01-02")
	}

	if candidate.Items == nil {
		candidate.Items = []string{}
	}

	if candidate.Confidence < 0 {
		candidate.Confidence = 0
	}
	if candidate.Confidence > 1 {
		candidate.Confidence = 1
	}

	return candidate, nil
}
