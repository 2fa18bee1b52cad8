package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hornerito/internal/logging"
	"hornerito/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiConfig bounds every request so a slow or chatty model degrades to the
// local heuristics instead of stalling a reply.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float32
	MaxTokens   int32
}

// GeminiClient implements Client against the Google Gemini API.
type GeminiClient struct {
	model   *genai.GenerativeModel
	client  *genai.Client
	timeout time.Duration
	logger  logging.Logger
}

// NewGeminiClient dials the Gemini API and configures the model with low
// temperature and a small token budget for deterministic, parseable replies.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, logger logging.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	model.SetMaxOutputTokens(cfg.MaxTokens)

	return &GeminiClient{
		model:   model,
		client:  client,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

// Close releases the underlying API connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

const classifyPrompt = `You are a helpful expense categorizer. Categorize items into these categories: Food & Drinks (Meals, Snacks, Drinks/Coffee, Drinks/Soda, Drinks/Beer, Groceries), Transport (Taxis, Fuel, Public), Shopping (Clothing, Electronics), Entertainment (Games, Movies, Music), Health (Medical, Pharmacy, Fitness), Bills & Utilities (Electricity, Water, Internet & Phone), Miscellaneous (Gifts, Subscriptions, Other). Respond ONLY with the category path in format 'MainCategory>Subcategory'.

Categorize this expense item: %s`

// Classify asks the model for a category and parses its "Main>Sub" response.
func (c *GeminiClient) Classify(ctx context.Context, text string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.model.GenerateContent(ctx, genai.Text(fmt.Sprintf(classifyPrompt, text)))
	if err != nil {
		return "", "", fmt.Errorf("gemini classify: %w", err)
	}

	raw, err := firstText(resp)
	if err != nil {
		return "", "", err
	}

	category, subcategory := models.SplitCategory(raw)
	if category == "" || !strings.Contains(raw, ">") {
		return "", "", fmt.Errorf("gemini classify: unparseable response %q", raw)
	}

	c.logger.WithFields(
		logging.Field{Key: "text", Value: text},
		logging.Field{Key: "category", Value: category},
		logging.Field{Key: "subcategory", Value: subcategory},
	).Debug("Gemini classified expense")

	return category, subcategory, nil
}

const refinePrompt = `Clean up this expense description so it is short and readable. Fix typos, drop filler words, keep the meaning. Respond ONLY with the cleaned description, no quotes.

Description: %s`

// RefineDescription asks the model to tidy a description. Callers keep the
// mechanical description when this fails.
func (c *GeminiClient) RefineDescription(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.model.GenerateContent(ctx, genai.Text(fmt.Sprintf(refinePrompt, text)))
	if err != nil {
		return "", fmt.Errorf("gemini refine: %w", err)
	}

	raw, err := firstText(resp)
	if err != nil {
		return "", err
	}

	cleaned := strings.TrimSpace(strings.Trim(raw, `"`))
	if cleaned == "" {
		return "", fmt.Errorf("gemini refine: empty response")
	}
	return cleaned, nil
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini API")
	}
	return strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])), nil
}
