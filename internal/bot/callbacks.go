package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"hornerito/internal/boterr"
	"hornerito/internal/models"
	"hornerito/internal/parse"
)

// handleCallback routes an inline-button payload. Exact actions are matched
// before prefixed ones ("DELETE_LAST" would otherwise read as a delete-by-id).
func (c *Controller) handleCallback(ctx context.Context, userID, data string) []Reply {
	switch data {
	case actionCancel:
		return c.cancelAll(userID)
	case actionCancelRecurring:
		if err := c.sessions.Clear(userID); err != nil {
			c.logger.WithError(err).WithField("user", userID).Error("Failed to clear session")
		}
		return []Reply{{Text: "😊 No problem! Let me know if you want to try again later!"}}
	case actionViewExpenses:
		return c.viewExpenses(userID)
	case actionViewStats:
		return c.viewStats(userID)
	case actionShowHelp:
		return []Reply{c.helpReply()}
	case actionDeleteLast:
		return c.deleteLast(userID)
	case actionAddRecurring:
		sess := c.sessions.Load(userID)
		return c.startWizard(userID, &sess)
	case actionRemoveRecurring:
		return c.removeRecurringPicker(userID)
	case actionCatConfirm:
		return c.confirmWizardCategory(userID)
	case actionCatChange:
		return c.changeWizardCategory(userID)
	case actionCatRestart:
		sess := c.sessions.Load(userID)
		if !sess.AddingRecurring {
			return []Reply{{Text: "Nothing to restart. Say 'add recurring expense' to begin!"}}
		}
		sess.StartWizard()
		c.saveSession(userID, &sess)
		return []Reply{{
			Text: "🆕 Let's start fresh!\n\n" +
				"💰 What's the amount for this recurring expense?",
			Keyboard: cancelRecurringKeyboard(),
		}}
	}

	switch {
	case strings.HasPrefix(data, prefixEditCat):
		return c.beginCategoryEdit(userID, data[len(prefixEditCat):])
	case strings.HasPrefix(data, prefixEditAmount):
		return c.beginAmountEdit(userID, data[len(prefixEditAmount):])
	case strings.HasPrefix(data, prefixDelete):
		return c.deleteExpense(userID, data[len(prefixDelete):])
	case strings.HasPrefix(data, prefixRestore):
		return c.restoreExpense(userID, data[len(prefixRestore):])
	case strings.HasPrefix(data, prefixFrequency):
		return c.pickFrequency(userID, data[len(prefixFrequency):])
	case strings.HasPrefix(data, prefixUseCategory):
		return c.useWizardCategory(userID, data[len(prefixUseCategory):])
	case strings.HasPrefix(data, prefixSubcategory):
		return c.pickSubcategory(userID, data[len(prefixSubcategory):])
	case strings.HasPrefix(data, prefixCategory):
		return c.pickMainCategory(userID, data[len(prefixCategory):])
	case strings.HasPrefix(data, prefixRemoveRec):
		return c.removeRecurring(userID, data[len(prefixRemoveRec):])
	}

	c.logger.WithField("user", userID).WithField("data", data).Warn("Unknown callback payload")
	return []Reply{{Text: "🤔 I didn't recognize that button. Try again?"}}
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil
}

func (c *Controller) beginAmountEdit(userID, raw string) []Reply {
	id, ok := parseID(raw)
	if !ok {
		return []Reply{{Text: "❌ Expense not found."}}
	}
	exp, err := c.store.GetExpense(id, userID)
	if err != nil {
		if !boterr.IsNotFound(err) {
			c.logger.WithError(err).WithField("user", userID).WithField("expense", id).
				Error("Failed to load expense")
		}
		return []Reply{{Text: "❌ Expense not found."}}
	}

	sess := c.sessions.Load(userID)
	sess.StartAmountEdit(id, exp.DisplayCategory())
	c.saveSession(userID, &sess)

	return []Reply{{
		Text: fmt.Sprintf("✏️ Current expense: $%s on %s\n\nSend the new amount:",
			exp.Amount.StringFixed(2), exp.DisplayCategory()),
		Keyboard: cancelKeyboard(),
	}}
}

func (c *Controller) beginCategoryEdit(userID, raw string) []Reply {
	id, ok := parseID(raw)
	if !ok {
		return []Reply{{Text: "❌ Expense not found."}}
	}
	exp, err := c.store.GetExpense(id, userID)
	if err != nil {
		if !boterr.IsNotFound(err) {
			c.logger.WithError(err).WithField("user", userID).WithField("expense", id).
				Error("Failed to load expense")
		}
		return []Reply{{Text: "❌ Expense not found."}}
	}

	sess := c.sessions.Load(userID)
	sess.StartCategoryEdit(id, exp.Amount)
	c.saveSession(userID, &sess)

	return []Reply{{
		Text: fmt.Sprintf("Current expense: $%s on %s\n\nSelect new category:",
			exp.Amount.StringFixed(2), exp.DisplayCategory()),
		Keyboard: c.mainCategoryKeyboard(),
	}}
}

// pickMainCategory shows the subcategory picker. It only has effect while a
// category edit is pending.
func (c *Controller) pickMainCategory(userID, main string) []Reply {
	sess := c.sessions.Load(userID)
	if sess.State() != models.StateEditingCategory {
		return []Reply{{Text: "🤔 Nothing selected to categorize. Tap Edit Category on an expense first!"}}
	}
	subs := c.taxonomy.Subcategories(main)
	if subs == nil {
		return []Reply{{Text: "🤔 I don't know that category. Try again?"}}
	}
	return []Reply{{
		Text:     fmt.Sprintf("Select a subcategory for %s:", main),
		Keyboard: c.subcategoryKeyboard(main),
	}}
}

func (c *Controller) pickSubcategory(userID, raw string) []Reply {
	parts := strings.SplitN(raw, "_", 2)
	if len(parts) != 2 {
		return []Reply{{Text: "🤔 I didn't recognize that button. Try again?"}}
	}
	main, sub := parts[0], parts[1]

	sess := c.sessions.Load(userID)
	if sess.State() != models.StateEditingCategory {
		return []Reply{{Text: "🤔 Nothing selected to categorize. Tap Edit Category on an expense first!"}}
	}
	expenseID := sess.EditingCategoryID
	amount := sess.OriginalAmount

	changed, err := c.store.UpdateCategory(expenseID, userID, main, sub)
	if err != nil {
		c.logger.WithError(err).WithField("user", userID).WithField("expense", expenseID).
			Error("Failed to update category")
		return []Reply{{Text: "❌ Error updating category. Please try again."}}
	}

	sess.Clear()
	c.saveSession(userID, &sess)

	if changed == 0 {
		return []Reply{{Text: "❌ Expense not found."}}
	}
	return []Reply{{
		Text: fmt.Sprintf("✅ Category updated: $%s on %s",
			amount.StringFixed(2), models.JoinCategory(main, sub)),
		Keyboard: c.expenseControls(expenseID),
	}}
}

func (c *Controller) deleteExpense(userID, raw string) []Reply {
	id, ok := parseID(raw)
	if !ok {
		return []Reply{{Text: "❌ Expense not found."}}
	}
	exp, err := c.store.GetExpense(id, userID)
	if err != nil {
		if !boterr.IsNotFound(err) {
			c.logger.WithError(err).WithField("user", userID).WithField("expense", id).
				Error("Failed to load expense")
		}
		// A replayed delete lands here and stays a no-op.
		return []Reply{{Text: "❌ Expense not found."}}
	}

	if _, err := c.store.DeleteExpense(id, userID); err != nil {
		c.logger.WithError(err).WithField("user", userID).WithField("expense", id).
			Error("Failed to delete expense")
		return []Reply{{Text: "❌ Error deleting expense. Please try again."}}
	}

	return []Reply{{
		Text: fmt.Sprintf("🗑️ Deleted expense: $%s on %s",
			exp.Amount.StringFixed(2), exp.DisplayCategory()),
		Keyboard: [][]Button{deleteControls(exp)},
	}}
}

// deleteControls builds the post-delete button row. The Undo button is
// omitted when the row's fields cannot fit in a callback payload.
func deleteControls(exp models.Expense) []Button {
	row := []Button{{Label: "📊 View Last 5", Data: actionViewExpenses}}
	if payload, ok := restorePayload(exp); ok {
		row = append([]Button{{Label: "↩️ Undo", Data: prefixRestore + payload}}, row...)
	}
	return row
}

// callbackDataLimit is Telegram's cap on inline-button callback data.
const callbackDataLimit = 64

// restorePayload packs the deleted row's fields into the callback data.
// The description shrinks to whatever fits under the Telegram cap; when the
// category pair alone overflows there is no payload at all.
func restorePayload(exp models.Expense) (string, bool) {
	base := exp.Amount.String() + "|" + exp.Category + "|" + exp.Subcategory + "|"
	budget := callbackDataLimit - len(prefixRestore) - len(base)
	if budget < 0 {
		return "", false
	}
	return base + truncateUTF8(exp.Description, budget), true
}

// truncateUTF8 cuts s to at most limit bytes without splitting a rune.
func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	s = s[:limit]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

// restoreExpense re-inserts a deleted expense from its callback payload.
// The restored row gets a new id and timestamp.
func (c *Controller) restoreExpense(userID, payload string) []Reply {
	parts := strings.SplitN(payload, "|", 4)
	if len(parts) != 4 {
		return []Reply{{Text: "❌ Error restoring expense. Please try again."}}
	}
	amount, ok := parse.ParseAmount(parts[0])
	if !ok {
		return []Reply{{Text: "❌ Error restoring expense. Please try again."}}
	}

	now := c.now()
	id, err := c.store.InsertExpense(models.Expense{
		UserID:      userID,
		Amount:      amount,
		Category:    parts[1],
		Subcategory: parts[2],
		Description: parts[3],
		Timestamp:   now,
		CreatedAt:   now,
	})
	if err != nil {
		c.logger.WithError(err).WithField("user", userID).Error("Failed to restore expense")
		return []Reply{{Text: "❌ Error restoring expense. Please try again."}}
	}

	return []Reply{{
		Text: fmt.Sprintf("✅ Restored expense: $%s on %s",
			amount.StringFixed(2), models.JoinCategory(parts[1], parts[2])),
		Keyboard: [][]Button{{
			{Label: "✏️ Edit", Data: fmt.Sprintf("%s%d", prefixEditAmount, id)},
			{Label: "📊 View Last 5", Data: actionViewExpenses},
		}},
	}}
}

func (c *Controller) deleteLast(userID string) []Reply {
	exp, err := c.store.LastExpense(userID)
	if err != nil {
		if !boterr.IsNotFound(err) {
			c.logger.WithError(err).WithField("user", userID).Error("Failed to load last expense")
		}
		return []Reply{{Text: "📭 No expenses recorded yet."}}
	}
	if _, err := c.store.DeleteExpense(exp.ID, userID); err != nil {
		c.logger.WithError(err).WithField("user", userID).WithField("expense", exp.ID).
			Error("Failed to delete expense")
		return []Reply{{Text: "❌ Error deleting expense. Please try again."}}
	}
	return []Reply{{
		Text: fmt.Sprintf("🗑 Deleted last expense: $%s on %s",
			exp.Amount.StringFixed(2), exp.DisplayCategory()),
		Keyboard: [][]Button{deleteControls(exp)},
	}}
}

func (c *Controller) viewExpenses(userID string) []Reply {
	expenses, err := c.store.ListByUser(userID, 5)
	if err != nil {
		c.logger.WithError(err).WithField("user", userID).Error("Failed to list expenses")
		return []Reply{{Text: "❌ Error viewing expenses. Please try again."}}
	}
	if len(expenses) == 0 {
		return []Reply{{Text: "No expenses recorded yet."}}
	}
	var lines []string
	for _, exp := range expenses {
		lines = append(lines, fmt.Sprintf("📅 %s: $%s on %s",
			exp.Timestamp.Format("2006-01-02"), exp.Amount.StringFixed(2), exp.DisplayCategory()))
	}
	var kb [][]Button
	if c.dashboardURL != "" {
		kb = [][]Button{{{Label: "🌐 View Dashboard", URL: c.dashboardURL}}}
	}
	return []Reply{{Text: strings.Join(lines, "\n"), Keyboard: kb}}
}

func (c *Controller) viewStats(userID string) []Reply {
	totals, err := c.store.SumTotals(userID, c.now())
	if err != nil {
		c.logger.WithError(err).WithField("user", userID).Error("Failed to sum expenses")
		return []Reply{{Text: "❌ Error fetching stats. Please try again."}}
	}
	text := "📊 Expense Statistics\n\n" +
		fmt.Sprintf("💰 Total Expenses: $%s\n", totals.All.StringFixed(2)) +
		fmt.Sprintf("📅 Today: $%s\n", totals.Today.StringFixed(2)) +
		fmt.Sprintf("📆 This Month: $%s", totals.Month.StringFixed(2))
	kb := [][]Button{{
		{Label: "📊 View Last 5", Data: actionViewExpenses},
		{Label: "🔄 Refresh Stats", Data: actionViewStats},
	}}
	if c.dashboardURL != "" {
		kb = append(kb, []Button{{Label: "🌐 View Dashboard", URL: c.dashboardURL}})
	}
	return []Reply{{Text: text, Keyboard: kb}}
}

func (c *Controller) helpReply() Reply {
	return Reply{
		Text: "🤖 Hornerito Help\n\n" +
			"📝 Adding Expenses\n" +
			"• Send: amount on category\n" +
			"• Example: 30 on food\n" +
			"• Example: 25.50 for taxi\n\n" +
			"🔍 Categories\n" +
			"• " + strings.Join(c.taxonomy.MainNames(), "\n• ") + "\n\n" +
			"✏️ Editing\n" +
			"• Tap Edit Amount to change amount\n" +
			"• Tap Edit Category to change category\n\n" +
			"📊 Viewing\n" +
			"• Tap View Last 5 to see recent expenses\n" +
			"• Use the dashboard for detailed analysis",
		Keyboard: [][]Button{
			{
				{Label: "📊 View Last 5", Data: actionViewExpenses},
				{Label: "📈 View Stats", Data: actionViewStats},
			},
			{{Label: "❌ Cancel", Data: actionCancel}},
		},
	}
}

// confirmWizardCategory moves the wizard to the frequency step.
func (c *Controller) confirmWizardCategory(userID string) []Reply {
	sess := c.sessions.Load(userID)
	if !sess.AddingRecurring {
		return []Reply{{Text: "No recurring setup in progress. Say 'add recurring expense' to begin!"}}
	}
	sess.RecurringStep = models.StepFrequency
	c.saveSession(userID, &sess)
	return []Reply{{
		Text:     "⏰ How often should I track this expense?",
		Keyboard: frequencyKeyboard(),
	}}
}

// changeWizardCategory asks for a manual category label.
func (c *Controller) changeWizardCategory(userID string) []Reply {
	sess := c.sessions.Load(userID)
	if !sess.AddingRecurring {
		return []Reply{{Text: "No recurring setup in progress. Say 'add recurring expense' to begin!"}}
	}
	sess.RecurringStep = models.StepManualCategory
	c.saveSession(userID, &sess)
	return []Reply{{
		Text: "📝 What category should we use instead?\n\n" +
			"💡 Examples:\n" +
			"• Food & Drinks > Meals 🍜\n" +
			"• Transport > Public 🚌\n" +
			"• Entertainment > Games 🎮\n" +
			"• Bills & Utilities > Internet & Phone 📱",
		Keyboard: cancelRecurringKeyboard(),
	}}
}

// useWizardCategory resolves the pick-one-of-two reconciliation.
func (c *Controller) useWizardCategory(userID, category string) []Reply {
	sess := c.sessions.Load(userID)
	if !sess.AddingRecurring {
		return []Reply{{Text: "No recurring setup in progress. Say 'add recurring expense' to begin!"}}
	}
	c.learnCategory(sess.RecurringDescription, category)
	sess.RecurringCategory = category
	sess.RecurringStep = models.StepFrequency
	c.saveSession(userID, &sess)
	return []Reply{{
		Text:     fmt.Sprintf("Category set to %q\n\nHow often should this repeat?", category),
		Keyboard: frequencyKeyboard(),
	}}
}

// pickFrequency completes the wizard.
func (c *Controller) pickFrequency(userID, raw string) []Reply {
	freq, ok := models.ParseFrequency(raw)
	if !ok {
		return []Reply{{Text: "🤔 I didn't recognize that button. Try again?"}}
	}
	sess := c.sessions.Load(userID)
	if !sess.AddingRecurring {
		return []Reply{{Text: "No recurring setup in progress. Say 'add recurring expense' to begin!"}}
	}
	return c.completeWizard(userID, &sess, freq)
}

func (c *Controller) removeRecurring(userID, raw string) []Reply {
	id, ok := parseID(raw)
	if !ok {
		return []Reply{{Text: "❌ Expense not found or already stopped."}}
	}
	changed, err := c.store.DeactivateRecurring(id, userID)
	if err != nil {
		c.logger.WithError(err).WithField("user", userID).WithField("recurring", id).
			Error("Failed to deactivate recurring expense")
		return []Reply{{Text: "😅 Oops! Something went wrong while removing the expense.\nPlease try again in a moment! 🔄"}}
	}
	if changed == 0 {
		return []Reply{{Text: "❌ Expense not found or already stopped."}}
	}
	replies := []Reply{{Text: "✨ Recurring expense removed successfully!"}}
	return append(replies, c.showRecurring(userID)...)
}
