package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fluxpense-backend/domain"
	"fluxpense-backend/pkg/capture"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *extractionClient {
	return &extractionClient{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		apiKey:     "test-key",
		model:      "test-model",
	}
}

func modelResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]interface{}{
						{"text": text},
					},
				},
			},
		},
	}
}

func TestExtractFromImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "test-model")

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		contents := body["contents"].([]interface{})
		parts := contents[0].(map[string]interface{})["parts"].([]interface{})
		assert.Len(t, parts, 2)

		text := `{"amount": 42.50, "merchant": "Walmart", "date": "2024-01-15", "category": "🍔 Food & Dining", "items": ["milk", "bread"], "confidence": 0.92}`
		require.NoError(t, json.NewEncoder(w).Encode(modelResponse(text)))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	payload, err := capture.FromFrame([]byte("fake image"), "image/jpeg")
	require.NoError(t, err)

	candidate, err := client.ExtractFromImage(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, 42.50, candidate.Amount)
	assert.Equal(t, "Walmart", candidate.Merchant)
	assert.Equal(t, "2024-01-15", candidate.Date)
	assert.Equal(t, "🍔 Food & Dining", candidate.Category)
	assert.Equal(t, []string{"milk", "bread"}, candidate.Items)
	assert.Equal(t, 0.92, candidate.Confidence)
}

func TestExtractFromImageRejectsTextPayload(t *testing.T) {
	client := newTestClient("http://unused")

	payload, err := capture.FromEmailText("some email")
	require.NoError(t, err)

	_, err = client.ExtractFromImage(context.Background(), payload)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestExtractFromText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		text := `{"amount": 12.99, "merchant": "Spotify", "date": "2024-02-01", "category": "🎬 Entertainment", "confidence": 0.85}`
		require.NoError(t, json.NewEncoder(w).Encode(modelResponse(text)))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	candidate, err := client.ExtractFromText(context.Background(), "Your Spotify receipt: $12.99")
	require.NoError(t, err)

	assert.Equal(t, 12.99, candidate.Amount)
	assert.Equal(t, "Spotify", candidate.Merchant)
	assert.Equal(t, []string{}, candidate.Items)
}

func TestExtractLowConfidencePassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		text := `{"amount": 0, "merchant": "", "date": "", "category": "", "confidence": 0.1}`
		require.NoError(t, json.NewEncoder(w).Encode(modelResponse(text)))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	// The client reports what the model said; the confidence gate is the
	// caller's decision, so a low score is not an extraction failure.
	candidate, err := client.ExtractFromText(context.Background(), "hello, just checking in")
	require.NoError(t, err)
	assert.Equal(t, 0.1, candidate.Confidence)
}

func TestExtractUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.ExtractFromText(context.Background(), "some email")
	require.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestExtractEmptyModelResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}}))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.ExtractFromText(context.Background(), "some email")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestParseCandidateStripsFences(t *testing.T) {
	text := "```json\n{\"amount\": 9.99, \"merchant\": \"Cafe\", \"date\": \"2024-03-01\", \"category\": \"🍔 Food & Dining\", \"confidence\": 0.7}\n```"

	candidate, err := parseCandidate(text)
	require.NoError(t, err)
	assert.Equal(t, 9.99, candidate.Amount)
	assert.Equal(t, "Cafe", candidate.Merchant)
}

func TestParseCandidateExtractsEmbeddedJSON(t *testing.T) {
	text := fmt.Sprintf("Here is the result you asked for: %s hope this helps!",
		`{"amount": 5, "merchant": "Kiosk", "date": "2024-03-02", "category": "📦 Other", "confidence": 0.6}`)

	candidate, err := parseCandidate(text)
	require.NoError(t, err)
	assert.Equal(t, "Kiosk", candidate.Merchant)
}

func TestParseCandidateDefaults(t *testing.T) {
	candidate, err := parseCandidate(`{"amount": 3.50, "merchant": "Stand", "confidence": 1.7}`)
	require.NoError(t, err)

	assert.Equal(t, time.Now().Format("2006-01-02"), candidate.Date)
	assert.NotNil(t, candidate.Items)
	assert.Empty(t, candidate.Items)
	assert.Equal(t, 1.0, candidate.Confidence)
}

func TestParseCandidateInvalidDate(t *testing.T) {
	candidate, err := parseCandidate(`{"amount": 3.50, "merchant": "Stand", "date": "yesterday", "confidence": 0.5}`)
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format("2006-01-02"), candidate.Date)
}

func TestParseCandidateGarbage(t *testing.T) {
	_, err := parseCandidate("I could not read the receipt, sorry.")
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}
