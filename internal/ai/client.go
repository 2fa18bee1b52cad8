// Package ai wraps the external language-model service used for fallback
// expense classification and description cleanup. Callers must always have a
// local fallback: every method can fail and nothing here is on the critical
// path.
package ai

import "context"

// Client is the external classification/refinement service.
type Client interface {
	// Classify asks the model for a "Main>Sub" category for the expense text.
	Classify(ctx context.Context, text string) (category, subcategory string, err error)
	// RefineDescription asks the model to clean up a raw expense description.
	RefineDescription(ctx context.Context, text string) (string, error)
}
