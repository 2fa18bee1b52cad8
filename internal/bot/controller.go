// Package bot implements the conversation controller: a single dispatch over
// (event kind, session state) that turns inbound messages and button presses
// into store mutations and replies. Handler execution is serialized per user
// so the load-mutate-save cycle on the session can never interleave.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"hornerito/internal/classifier"
	"hornerito/internal/logging"
	"hornerito/internal/models"
	"hornerito/internal/parse"
	"hornerito/internal/session"
	"hornerito/internal/store"
	"hornerito/internal/taxonomy"
)

// Controller drives the expense-intake state machine.
type Controller struct {
	store      *store.Store
	sessions   *session.Store
	classifier *classifier.Classifier
	parser     *parse.Parser
	taxonomy   *taxonomy.Taxonomy
	logger     logging.Logger

	dashboardURL string
	now          func() time.Time

	mu sync.Mutex
	// userLocks holds an entry per user with a dispatch in flight. The
	// release drops the entry at refcount zero, so the map is bounded by
	// concurrent users rather than users ever seen.
	userLocks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewController wires the controller with its collaborators.
func NewController(st *store.Store, sessions *session.Store, cl *classifier.Classifier,
	p *parse.Parser, tax *taxonomy.Taxonomy, dashboardURL string, logger logging.Logger) *Controller {
	return &Controller{
		store:        st,
		sessions:     sessions,
		classifier:   cl,
		parser:       p,
		taxonomy:     tax,
		logger:       logger,
		dashboardURL: dashboardURL,
		now:          time.Now,
		userLocks:    make(map[string]*userLock),
	}
}

// acquireUserLock serializes dispatches for one user, creating the lock on
// first use. Callers must pair it with releaseUserLock.
func (c *Controller) acquireUserLock(userID string) *userLock {
	c.mu.Lock()
	l, ok := c.userLocks[userID]
	if !ok {
		l = &userLock{}
		c.userLocks[userID] = l
	}
	l.refs++
	c.mu.Unlock()

	l.mu.Lock()
	return l
}

func (c *Controller) releaseUserLock(userID string, l *userLock) {
	l.mu.Unlock()
	c.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(c.userLocks, userID)
	}
	c.mu.Unlock()
}

// Dispatch handles one inbound event and returns the replies to send. It
// never panics outward; a handler crash for one user yields an apology reply
// and leaves other users' handlers untouched.
func (c *Controller) Dispatch(ctx context.Context, ev Event) (replies []Reply) {
	lock := c.acquireUserLock(ev.UserID)
	defer c.releaseUserLock(ev.UserID, lock)

	defer func() {
		if r := recover(); r != nil {
			c.logger.WithField("user", ev.UserID).WithField("panic", r).
				Error("Recovered panic in handler")
			replies = []Reply{{Text: "😅 Oops! Something went wrong.\nPlease try again in a moment! 🔄"}}
		}
	}()

	switch ev.Kind {
	case EventCallback:
		return c.handleCallback(ctx, ev.UserID, ev.Data)
	default:
		return c.handleMessage(ctx, ev.UserID, ev.Text)
	}
}

// recurringListPhrases trigger the recurring-expenses summary from idle.
var recurringListPhrases = map[string]bool{
	"show recurring":             true,
	"list recurring":             true,
	"recurring expenses":         true,
	"show recurring expenses":    true,
	"show my recurring expenses": true,
}

var greetingWords = []string{"hey", "hello", "hi", "hola", "help", "start"}

var positiveWords = []string{"great", "good", "nice", "thanks", "thank", "awesome", "cool", "perfect"}

// containsWord reports whether any whole word of text appears in words.
// Whole-word matching keeps "30 on chips" from reading as a greeting.
func containsWord(text string, words []string) bool {
	for _, field := range strings.Fields(text) {
		for _, w := range words {
			if field == w {
				return true
			}
		}
	}
	return false
}

func (c *Controller) handleMessage(ctx context.Context, userID, text string) []Reply {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)

	switch {
	case lower == "/start":
		return []Reply{c.welcomeReply()}
	case strings.HasPrefix(lower, "/stoprecurring"):
		return c.stopRecurringCommand(userID, text)
	case lower == "cancel" || lower == "/cancel":
		return c.cancelAll(userID)
	}

	sess := c.sessions.Load(userID)
	switch sess.State() {
	case models.StateRecurringWizard:
		return c.wizardText(ctx, userID, &sess, text)
	case models.StateEditingAmount:
		return c.editAmountText(userID, &sess, text)
	}

	// Idle routing.
	if recurringListPhrases[lower] {
		return c.showRecurring(userID)
	}
	if lower == "add recurring expense" || lower == "recurring expense" {
		return c.startWizard(userID, &sess)
	}
	if containsWord(lower, greetingWords) {
		return []Reply{c.welcomeReply()}
	}
	if containsWord(lower, positiveWords) {
		return []Reply{c.positiveReply()}
	}

	parsed, ok := c.parser.Parse(ctx, text)
	if !ok {
		return []Reply{{
			Text: "I'm not sure what you mean. Try:\n" +
				"• '30 on food'\n" +
				"• '25 taxi' (simple format works too!)\n" +
				"• Or just say 'help' for more info",
			Keyboard: [][]Button{{{Label: "📊 View Last 5", Data: actionViewExpenses}}},
		}}
	}
	return c.saveExpense(ctx, userID, parsed)
}

// saveExpense classifies and persists a freshly parsed expense.
func (c *Controller) saveExpense(ctx context.Context, userID string, parsed parse.Parsed) []Reply {
	result := c.classifier.Classify(ctx, parsed.Description)
	now := c.now()
	id, err := c.store.InsertExpense(models.Expense{
		UserID:      userID,
		Amount:      parsed.Amount,
		Category:    result.Category,
		Subcategory: result.Subcategory,
		Description: parsed.Description,
		Timestamp:   now,
		CreatedAt:   now,
	})
	if err != nil {
		c.logger.WithError(err).WithField("user", userID).Error("Failed to insert expense")
		return []Reply{{Text: "❌ Error saving expense. Please try again."}}
	}
	return []Reply{{
		Text: fmt.Sprintf("✅ Expense saved: $%s on %s",
			parsed.Amount.StringFixed(2), result.String()),
		Keyboard: c.expenseControls(id),
	}}
}

// editAmountText consumes the replacement amount while in edit-amount mode.
// An invalid amount keeps the state so the user can retry.
func (c *Controller) editAmountText(userID string, sess *models.Session, text string) []Reply {
	amount, ok := parse.ParseAmount(text)
	if !ok || !amount.IsPositive() {
		return []Reply{{Text: "❌ Please send a valid number for the amount."}}
	}

	expenseID := sess.EditingExpenseID
	category := sess.OriginalCategory

	changed, err := c.store.UpdateAmount(expenseID, userID, amount)
	if err != nil {
		c.logger.WithError(err).WithField("user", userID).WithField("expense", expenseID).
			Error("Failed to update amount")
		return []Reply{{Text: "❌ Error updating amount. Please try again."}}
	}

	sess.Clear()
	c.saveSession(userID, sess)

	if changed == 0 {
		return []Reply{{Text: "❌ Expense not found."}}
	}
	return []Reply{{
		Text:     fmt.Sprintf("✅ Amount updated: $%s on %s", amount.StringFixed(2), category),
		Keyboard: c.expenseControls(expenseID),
	}}
}

// cancelAll clears every optional session field and confirms.
func (c *Controller) cancelAll(userID string) []Reply {
	if err := c.sessions.Clear(userID); err != nil {
		c.logger.WithError(err).WithField("user", userID).Error("Failed to clear session")
	}
	return []Reply{{Text: "❌ Operation cancelled"}}
}

func (c *Controller) saveSession(userID string, sess *models.Session) {
	if err := c.sessions.Save(userID, *sess); err != nil {
		c.logger.WithError(err).WithField("user", userID).Error("Failed to save session")
	}
}

func (c *Controller) welcomeReply() Reply {
	return Reply{
		Text: "👋 Welcome to Hornerito! I can help you track your expenses.\n\n" +
			"💡 How to use me:\n" +
			"• Send amount and category (e.g. '30 on food')\n" +
			"• View your expenses with the buttons below\n" +
			"• Edit or delete expenses as needed",
		Keyboard: c.welcomeKeyboard(),
	}
}

func (c *Controller) positiveReply() Reply {
	kb := [][]Button{{{Label: "📊 View Last 5", Data: actionViewExpenses}}}
	if c.dashboardURL != "" {
		kb = append(kb, []Button{{Label: "🌐 View Dashboard", URL: c.dashboardURL}})
	}
	return Reply{
		Text: "😊 Glad I could help!\n\n" +
			"If you have any expense to record, just let me know! You can use:\n" +
			"• '30 on food'\n" +
			"• '25 taxi'\n" +
			"• '10 coffee' (simple format works too!)",
		Keyboard: kb,
	}
}

// stopRecurringCommand handles "/stoprecurring <id>".
func (c *Controller) stopRecurringCommand(userID, text string) []Reply {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return []Reply{{Text: "Please provide the expense ID.\nSay 'show recurring' to see all IDs."}}
	}
	id, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return []Reply{{Text: "Please provide a numeric expense ID."}}
	}
	changed, err := c.store.DeactivateRecurring(id, userID)
	if err != nil {
		c.logger.WithError(err).WithField("user", userID).WithField("recurring", id).
			Error("Failed to stop recurring expense")
		return []Reply{{Text: "❌ Error stopping recurring expense."}}
	}
	if changed == 0 {
		return []Reply{{Text: "❌ Expense not found or already stopped."}}
	}
	return []Reply{{Text: "✅ Recurring expense stopped successfully!"}}
}
