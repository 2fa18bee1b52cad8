package bot

import (
	"context"
	"fmt"
	"strings"

	"hornerito/internal/classifier"
	"hornerito/internal/models"
	"hornerito/internal/parse"

	"github.com/shopspring/decimal"
)

// startWizard enters the recurring-expense wizard at the amount step.
func (c *Controller) startWizard(userID string, sess *models.Session) []Reply {
	sess.StartWizard()
	c.saveSession(userID, sess)
	return []Reply{{
		Text: "🎯 Awesome! Let's set up a recurring expense together!\n\n" +
			"💰 First, what's the amount you want to track?\n" +
			"Just send me a number (like 25.99) 👇",
		Keyboard: cancelRecurringKeyboard(),
	}}
}

// wizardText consumes a text message while the wizard is active.
func (c *Controller) wizardText(ctx context.Context, userID string, sess *models.Session, text string) []Reply {
	switch sess.RecurringStep {
	case models.StepAmount:
		return c.wizardAmount(userID, sess, text)
	case models.StepDescription:
		return c.wizardDescription(ctx, userID, sess, text)
	case models.StepManualCategory:
		return c.wizardManualCategory(ctx, userID, sess, text)
	}
	// Frequency is picked via buttons; a stray text message gets the
	// keyboard again.
	return []Reply{{
		Text:     "⏰ How often should I track this expense?",
		Keyboard: frequencyKeyboard(),
	}}
}

func (c *Controller) wizardAmount(userID string, sess *models.Session, text string) []Reply {
	amount, ok := parse.ParseAmount(text)
	if !ok || !amount.IsPositive() {
		return []Reply{{
			Text: "❌ Oops! That doesn't look like a valid amount.\n\n" +
				"🔢 Please send me a number like 25.99 or 100\n" +
				"Let's try again! 😊",
		}}
	}
	sess.RecurringAmount = amount
	sess.RecurringStep = models.StepDescription
	c.saveSession(userID, sess)
	return []Reply{{
		Text: "🌟 Perfect! Now, what is this expense for?\n\n" +
			"💡 Examples:\n" +
			"• Netflix subscription 📺\n" +
			"• Gym membership 🏋️\n" +
			"• Monthly bus pass 🚌\n" +
			"• Phone bill 📱",
		Keyboard: cancelRecurringKeyboard(),
	}}
}

func (c *Controller) wizardDescription(ctx context.Context, userID string, sess *models.Session, text string) []Reply {
	sess.RecurringDescription = text
	result := c.classifier.Classify(ctx, text)
	sess.RecurringCategory = result.String()
	c.saveSession(userID, sess)
	return []Reply{{
		Text: fmt.Sprintf("🤔 I think %q belongs in the %q category!\n\n✨ Did I get that right?",
			text, result.String()),
		Keyboard: categoryConfirmKeyboard(),
	}}
}

// wizardManualCategory takes the user's own category label and reconciles it
// with the classifier's independent suggestion. The mapping is learned only
// once the user settles on a category, so the suggestion cannot echo the
// label just typed.
func (c *Controller) wizardManualCategory(ctx context.Context, userID string, sess *models.Session, text string) []Reply {
	userCategory := strings.TrimSpace(text)
	suggestion := c.classifier.Classify(ctx, sess.RecurringDescription)
	if !strings.EqualFold(suggestion.String(), userCategory) {
		// Stay in the manual step; the pick arrives as a USE_CAT_ callback.
		c.saveSession(userID, sess)
		return []Reply{{
			Text: "🤔 I have two options for categorizing this:\n\n" +
				fmt.Sprintf("1️⃣ Your suggestion: %q\n", userCategory) +
				fmt.Sprintf("2️⃣ My suggestion: %q\n\n", suggestion.String()) +
				"✨ Which one should we use?",
			Keyboard: [][]Button{
				{
					{Label: "1️⃣ Use mine", Data: prefixUseCategory + userCategory},
					{Label: "2️⃣ Use suggestion", Data: prefixUseCategory + suggestion.String()},
				},
				{{Label: "❌ Cancel", Data: actionCancelRecurring}},
			},
		}}
	}

	c.learnCategory(sess.RecurringDescription, userCategory)
	sess.RecurringCategory = userCategory
	sess.RecurringStep = models.StepFrequency
	c.saveSession(userID, sess)
	return []Reply{{
		Text: fmt.Sprintf("🎯 Great! Category set to %q\n\n⏰ How often should I track this expense?",
			userCategory),
		Keyboard: frequencyKeyboard(),
	}}
}

// learnCategory records a settled description-to-category mapping.
func (c *Controller) learnCategory(description, category string) {
	main, sub := models.SplitCategory(category)
	c.classifier.Learn(description, classifier.Result{Category: main, Subcategory: sub})
}

// completeWizard inserts the recurring expense on a frequency pick and
// resets the session to idle.
func (c *Controller) completeWizard(userID string, sess *models.Session, freq models.Frequency) []Reply {
	main, sub := models.SplitCategory(sess.RecurringCategory)
	now := c.now()
	_, err := c.store.InsertRecurring(models.RecurringExpense{
		UserID:      userID,
		Amount:      sess.RecurringAmount,
		Category:    main,
		Subcategory: sub,
		Description: sess.RecurringDescription,
		Frequency:   freq,
		StartDate:   now,
		LastTracked: now,
		Active:      true,
	})
	if err != nil {
		c.logger.WithError(err).WithField("user", userID).Error("Failed to insert recurring expense")
		return []Reply{{
			Text: "😅 Oops! Something went wrong while setting up your recurring expense.\n" +
				"🔄 Could we try that again?",
		}}
	}

	summary := "🎉 Woohoo! Your recurring expense is all set up!\n\n" +
		fmt.Sprintf("💰 Amount: $%s\n", sess.RecurringAmount.StringFixed(2)) +
		fmt.Sprintf("📂 Category: %s\n", sess.RecurringCategory) +
		fmt.Sprintf("📝 Description: %s\n", sess.RecurringDescription) +
		fmt.Sprintf("⏰ Frequency: %s\n\n", freq) +
		"✅ I'll automatically track this for you and let you know each time!\n\n" +
		"💡 Tip: Say 'show recurring' to see all your recurring expenses! 📋"

	sess.Clear()
	c.saveSession(userID, sess)
	return []Reply{{Text: summary}}
}

// showRecurring renders the active recurring expenses grouped by frequency
// with per-group totals and an estimated monthly spend.
func (c *Controller) showRecurring(userID string) []Reply {
	recurring, err := c.store.ListActiveRecurring(userID)
	if err != nil {
		c.logger.WithError(err).WithField("user", userID).Error("Failed to list recurring expenses")
		return []Reply{{
			Text: "😅 Oops! Something went wrong while fetching your recurring expenses.\n" +
				"Please try again in a moment! 🔄",
		}}
	}
	if len(recurring) == 0 {
		return []Reply{{
			Text: "🔍 You don't have any recurring expenses set up yet!\n\n" +
				"💡 Want to add one? Just say 'add recurring expense'!",
			Keyboard: [][]Button{{{Label: "➕ Add Recurring", Data: actionAddRecurring}}},
		}}
	}

	groups := map[models.Frequency][]models.RecurringExpense{}
	for _, r := range recurring {
		groups[r.Frequency] = append(groups[r.Frequency], r)
	}

	var b strings.Builder
	b.WriteString("📋 Here are your recurring expenses:\n\n")
	totals := map[models.Frequency]decimal.Decimal{}
	for _, freq := range []models.Frequency{models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly} {
		items := groups[freq]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "📅 %s:\n", parse.TitleCase(string(freq)))
		total := decimal.Zero
		for _, r := range items {
			fmt.Fprintf(&b, "• $%s - %s (%s) 💰 [#%d]\n",
				r.Amount.StringFixed(2), r.Description, r.DisplayCategory(), r.ID)
			total = total.Add(r.Amount)
		}
		b.WriteString("\n")
		totals[freq] = total
	}

	b.WriteString("💫 Summary:\n")
	for _, freq := range []models.Frequency{models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly} {
		if t, ok := totals[freq]; ok && t.IsPositive() {
			fmt.Fprintf(&b, "%s total: $%s\n", parse.TitleCase(string(freq)), t.StringFixed(2))
		}
	}

	estimated := totals[models.FrequencyMonthly].
		Add(totals[models.FrequencyWeekly].Mul(decimal.NewFromInt(4))).
		Add(totals[models.FrequencyDaily].Mul(decimal.NewFromInt(30)))
	fmt.Fprintf(&b, "\n🎯 Estimated monthly spending: $%s", estimated.StringFixed(2))

	kb := [][]Button{
		{
			{Label: "➕ Add New", Data: actionAddRecurring},
			{Label: "🗑️ Remove One", Data: actionRemoveRecurring},
		},
	}
	if c.dashboardURL != "" {
		kb = append(kb, []Button{{Label: "🌐 View Dashboard", URL: c.dashboardURL}})
	}
	return []Reply{{Text: b.String(), Keyboard: kb}}
}

// removeRecurringPicker lists the active rows as one-tap removal buttons.
func (c *Controller) removeRecurringPicker(userID string) []Reply {
	recurring, err := c.store.ListActiveRecurring(userID)
	if err != nil {
		c.logger.WithError(err).WithField("user", userID).Error("Failed to list recurring expenses")
		return []Reply{{Text: "😅 Oops! Something went wrong. Please try again! 🔄"}}
	}
	if len(recurring) == 0 {
		return []Reply{{Text: "No recurring expenses to remove!"}}
	}
	var rows [][]Button
	for _, r := range recurring {
		rows = append(rows, []Button{{
			Label: fmt.Sprintf("$%s - %s (%s)", r.Amount.StringFixed(2), r.Description, r.Frequency),
			Data:  fmt.Sprintf("%s%d", prefixRemoveRec, r.ID),
		}})
	}
	rows = append(rows, []Button{{Label: "❌ Cancel", Data: actionCancelRecurring}})
	return []Reply{{
		Text:     "🗑️ Which recurring expense would you like to remove?",
		Keyboard: rows,
	}}
}
