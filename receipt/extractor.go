// Package receipt turns uploaded receipt images into input-VAT ledger
// entries.
//
// The VAT amount is read by an image-understanding model through the OpenAI
// chat completions API (any compatible endpoint works via OPENAI_BASE_URL).
// Each upload is a single request: no retries, and a failed upload leaves the
// ledger untouched.
package receipt

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/AnnaCarter465/taxpadi/logger"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

const extractionPrompt = "Analyze this receipt. Extract the VAT (Value Added Tax) amount. " +
	"Return a JSON object with a single key 'vatAmount' and its numeric value. " +
	"If no VAT is found, the value should be 0."

// Extractor reads the VAT amount printed on a receipt image.
type Extractor interface {
	ExtractVAT(ctx context.Context, image []byte, mimeType string) (float64, error)
}

// ChatCompleter is the part of *openai.Client the extractor needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type OpenAIExtractor struct {
	client ChatCompleter
	model  string
	log    zerolog.Logger
}

func NewOpenAIExtractor(client ChatCompleter, model string) *OpenAIExtractor {
	return &OpenAIExtractor{
		client: client,
		model:  model,
		log:    logger.WithComponent("receipt-extractor"),
	}
}

// NewOpenAIClient builds a client for apiKey, pointed at baseURL when set.
func NewOpenAIClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return openai.NewClientWithConfig(cfg)
}

type extraction struct {
	VatAmount *float64 `json:"vatAmount"`
}

func (e *OpenAIExtractor) ExtractVAT(ctx context.Context, image []byte, mimeType string) (float64, error) {
	const op = "ExtractVAT"

	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL, Detail: openai.ImageURLDetailAuto},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: extractionPrompt,
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		e.log.Error().Err(err).Str("mime_type", mimeType).Msg("receipt extraction request failed")
		return 0, fmt.Errorf("%s: %w", op, ErrExtractionFailed)
	}

	if len(resp.Choices) == 0 {
		e.log.Error().Msg("receipt extraction returned no choices")
		return 0, fmt.Errorf("%s: %w", op, ErrExtractionFailed)
	}

	amount, err := parseExtraction(resp.Choices[0].Message.Content)
	if err != nil {
		e.log.Error().Err(err).Str("response", resp.Choices[0].Message.Content).Msg("unreadable receipt extraction")
		return 0, fmt.Errorf("%s: %w", op, ErrExtractionFailed)
	}

	e.log.Debug().Float64("vat_amount", amount).Msg("receipt VAT extracted")

	return amount, nil
}

// parseExtraction reads {"vatAmount": n}. A missing or null field means no
// VAT was found; a negative amount is rejected.
func parseExtraction(content string) (float64, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var result extraction
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &result); err != nil {
		return 0, err
	}

	if result.VatAmount == nil {
		return 0, nil
	}

	if *result.VatAmount < 0 {
		return 0, fmt.Errorf("negative vatAmount %v", *result.VatAmount)
	}

	return *result.VatAmount, nil
}
