// Package classifier resolves free expense text to a (category, subcategory)
// pair using a layered strategy:
//  1. exact-phrase shortcut map
//  2. learned mappings from earlier AI classifications
//  3. keyword containment in taxonomy declaration order
//  4. food heuristic
//  5. transport heuristic
//  6. AI fallback (Gemini), whose successes are learned for next time
//
// Classification never fails: when every layer misses, the result is
// Miscellaneous with the original text preserved in the subcategory.
package classifier

import (
	"context"
	"strings"
	"sync"

	"hornerito/internal/ai"
	"hornerito/internal/logging"
	"hornerito/internal/models"
	"hornerito/internal/taxonomy"
)

// Result is a resolved classification.
type Result struct {
	Category    string
	Subcategory string
}

// String renders the canonical "Main > Sub" form.
func (r Result) String() string {
	return models.JoinCategory(r.Category, r.Subcategory)
}

// Classifier resolves expense text against the taxonomy with an AI fallback.
// The learned-mappings map is the only mutable state; it is guarded by a
// RWMutex and flushed to disk through a dirty flag, single writer at a time.
type Classifier struct {
	taxonomy *taxonomy.Taxonomy
	aiClient ai.Client
	store    *LearnedStore
	logger   logging.Logger

	mu      sync.RWMutex
	learned map[string]string
	dirty   bool
}

// New builds a Classifier. aiClient may be nil, in which case the AI layer is
// skipped. The learned store may be nil to disable persistence.
func New(tax *taxonomy.Taxonomy, aiClient ai.Client, store *LearnedStore, logger logging.Logger) *Classifier {
	c := &Classifier{
		taxonomy: tax,
		aiClient: aiClient,
		store:    store,
		logger:   logger,
		learned:  make(map[string]string),
	}

	if store != nil {
		learned, err := store.Load()
		if err != nil {
			logger.WithError(err).Warn("Failed to load learned mappings")
		} else {
			for text, cat := range learned {
				c.learned[strings.ToLower(text)] = cat
			}
		}
	}

	return c
}

// Classify resolves text to a category pair. It never returns an error; the
// worst case is the Miscellaneous fallback carrying the original text.
func (c *Classifier) Classify(ctx context.Context, text string) Result {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Result{Category: taxonomy.Miscellaneous, Subcategory: "Other"}
	}

	// 1. Exact-phrase shortcut.
	if e, ok := c.taxonomy.Exact(normalized); ok {
		return Result{Category: e.Category, Subcategory: e.Subcategory}
	}

	// 2. Learned mappings from earlier AI classifications.
	if r, ok := c.lookupLearned(normalized); ok {
		return r
	}

	// 3. Keyword containment, taxonomy declaration order. Both directions so
	// "I bought pizza" matches "pizza" and "groc" matches "groceries".
	for _, main := range c.taxonomy.Categories {
		for _, sub := range main.Subs {
			for _, kw := range sub.Keywords {
				if strings.Contains(normalized, kw) || strings.Contains(kw, normalized) {
					return Result{Category: main.Name, Subcategory: sub.Name}
				}
			}
		}
	}

	// 4. Food heuristic.
	if taxonomy.IsFoodRelated(normalized) {
		return Result{Category: taxonomy.FoodAndDrinks, Subcategory: "Meals"}
	}

	// 5. Transport heuristic.
	if taxonomy.IsTransportRelated(normalized) {
		sub := "Other"
		if taxonomy.MentionsFuel(normalized) {
			sub = "Fuel"
		}
		return Result{Category: taxonomy.Transport, Subcategory: sub}
	}

	// 6. AI fallback.
	if c.aiClient != nil {
		category, subcategory, err := c.aiClient.Classify(ctx, text)
		if err != nil {
			c.logger.WithError(err).WithField("text", text).Warn("AI classification failed")
		} else if category != "" {
			r := Result{Category: category, Subcategory: subcategory}
			c.Learn(normalized, r)
			return r
		}
	}

	return Result{Category: taxonomy.Miscellaneous, Subcategory: "Other: " + strings.TrimSpace(text)}
}

func (c *Classifier) lookupLearned(normalized string) (Result, bool) {
	c.mu.RLock()
	cat, ok := c.learned[normalized]
	c.mu.RUnlock()
	if !ok {
		return Result{}, false
	}
	main, sub := models.SplitCategory(cat)
	return Result{Category: main, Subcategory: sub}, true
}

// Learn records a correction or AI result for future lookups and flushes it
// to disk. Persistence is best effort; a failed save never fails the caller.
func (c *Classifier) Learn(text string, r Result) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return
	}

	c.mu.Lock()
	existing, ok := c.learned[normalized]
	if ok && existing == r.String() {
		c.mu.Unlock()
		return
	}
	c.learned[normalized] = r.String()
	c.dirty = true
	c.mu.Unlock()

	c.logger.WithFields(
		logging.Field{Key: "text", Value: normalized},
		logging.Field{Key: "category", Value: r.String()},
	).Debug("Learned category mapping")

	if err := c.Flush(); err != nil {
		c.logger.WithError(err).Warn("Failed to save learned mappings")
	}
}

// Flush writes the learned mappings if anything changed since the last save.
func (c *Classifier) Flush() error {
	if c.store == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	snapshot := make(map[string]string, len(c.learned))
	for k, v := range c.learned {
		snapshot[k] = v
	}
	if err := c.store.Save(snapshot); err != nil {
		return err
	}
	c.dirty = false
	return nil
}
