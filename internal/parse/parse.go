// Package parse extracts a structured expense from free text like
// "30 on food" or "25.50 for taxi".
package parse

import (
	"context"
	"regexp"
	"strings"

	"hornerito/internal/ai"
	"hornerito/internal/logging"

	"github.com/shopspring/decimal"
)

// Parsed is a successfully extracted expense.
type Parsed struct {
	Amount      decimal.Decimal
	Description string
}

// amountPattern matches the first signed or unsigned decimal token with up
// to two fraction digits.
var amountPattern = regexp.MustCompile(`[-+]?\d+(?:\.\d{1,2})?`)

// connectors are filler words between the amount and the description.
var connectors = map[string]bool{"on": true, "in": true, "for": true}

// Parser extracts (amount, description) pairs, optionally refining the
// description through the AI service.
type Parser struct {
	aiClient ai.Client
	logger   logging.Logger
}

// New builds a Parser. aiClient may be nil to skip refinement.
func New(aiClient ai.Client, logger logging.Logger) *Parser {
	return &Parser{aiClient: aiClient, logger: logger}
}

// Parse extracts the first numeric token as the amount and the remaining
// words as the description. It reports false when no amount is present, the
// amount is not positive, or nothing describable remains.
func (p *Parser) Parse(ctx context.Context, text string) (Parsed, bool) {
	loc := amountPattern.FindStringIndex(text)
	if loc == nil {
		return Parsed{}, false
	}

	amount, err := decimal.NewFromString(text[loc[0]:loc[1]])
	if err != nil || !amount.IsPositive() {
		return Parsed{}, false
	}

	description := strings.TrimSpace(text[:loc[0]] + " " + text[loc[1]:])
	description = stripConnectors(description)
	if description == "" {
		return Parsed{}, false
	}

	if p.aiClient != nil {
		refined, err := p.aiClient.RefineDescription(ctx, description)
		if err != nil {
			p.logger.WithError(err).WithField("description", description).
				Debug("Description refinement failed, keeping extracted text")
		} else if refined != "" {
			description = refined
		}
	}

	return Parsed{Amount: amount, Description: TitleCase(description)}, true
}

// ParseAmount parses text as a plain positive decimal amount, used for the
// edit-amount and wizard-amount replies.
func ParseAmount(text string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil || !amount.IsPositive() {
		return decimal.Decimal{}, false
	}
	return amount, true
}

func stripConnectors(s string) string {
	words := strings.Fields(s)
	for len(words) > 0 && connectors[strings.ToLower(words[0])] {
		words = words[1:]
	}
	for len(words) > 0 && connectors[strings.ToLower(words[len(words)-1])] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// TitleCase uppercases the first letter of each word and lowercases the rest.
func TitleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
