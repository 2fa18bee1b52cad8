package bot

import (
	"fmt"

	"hornerito/internal/models"
)

// expenseControls is the standard keyboard attached to a freshly saved or
// edited expense.
func (c *Controller) expenseControls(expenseID int64) [][]Button {
	rows := [][]Button{
		{
			{Label: "✏️ Edit Amount", Data: fmt.Sprintf("%s%d", prefixEditAmount, expenseID)},
			{Label: "🏷️ Edit Category", Data: fmt.Sprintf("%s%d", prefixEditCat, expenseID)},
		},
		{
			{Label: "🗑️ Delete", Data: fmt.Sprintf("%s%d", prefixDelete, expenseID)},
			{Label: "📊 View Last 5", Data: actionViewExpenses},
		},
	}
	if c.dashboardURL != "" {
		rows = append(rows, []Button{{Label: "🌐 View Dashboard", URL: c.dashboardURL}})
	}
	return rows
}

func cancelKeyboard() [][]Button {
	return [][]Button{{{Label: "❌ Cancel", Data: actionCancel}}}
}

func cancelRecurringKeyboard() [][]Button {
	return [][]Button{{{Label: "❌ Cancel", Data: actionCancelRecurring}}}
}

func frequencyKeyboard() [][]Button {
	return [][]Button{
		{
			{Label: "📅 Daily", Data: prefixFrequency + string(models.FrequencyDaily)},
			{Label: "📅 Weekly", Data: prefixFrequency + string(models.FrequencyWeekly)},
			{Label: "📅 Monthly", Data: prefixFrequency + string(models.FrequencyMonthly)},
		},
		{{Label: "❌ Cancel", Data: actionCancelRecurring}},
	}
}

func categoryConfirmKeyboard() [][]Button {
	return [][]Button{
		{
			{Label: "✅ Yes, perfect!", Data: actionCatConfirm},
			{Label: "✏️ Need to change it", Data: actionCatChange},
		},
		{
			{Label: "🔄 Start over", Data: actionCatRestart},
			{Label: "❌ Cancel", Data: actionCancelRecurring},
		},
	}
}

// mainCategoryKeyboard lays the taxonomy's main categories out two per row.
func (c *Controller) mainCategoryKeyboard() [][]Button {
	names := c.taxonomy.MainNames()
	var rows [][]Button
	for i := 0; i < len(names); i += 2 {
		row := []Button{{Label: names[i], Data: prefixCategory + names[i]}}
		if i+1 < len(names) {
			row = append(row, Button{Label: names[i+1], Data: prefixCategory + names[i+1]})
		}
		rows = append(rows, row)
	}
	return append(rows, []Button{{Label: "❌ Cancel", Data: actionCancel}})
}

func (c *Controller) subcategoryKeyboard(main string) [][]Button {
	subs := c.taxonomy.Subcategories(main)
	var rows [][]Button
	for i := 0; i < len(subs); i += 2 {
		row := []Button{{
			Label: subs[i],
			Data:  prefixSubcategory + main + "_" + subs[i],
		}}
		if i+1 < len(subs) {
			row = append(row, Button{
				Label: subs[i+1],
				Data:  prefixSubcategory + main + "_" + subs[i+1],
			})
		}
		rows = append(rows, row)
	}
	return append(rows, []Button{{Label: "❌ Cancel", Data: actionCancel}})
}

func (c *Controller) welcomeKeyboard() [][]Button {
	rows := [][]Button{
		{{Label: "📊 View Expenses", Data: actionViewExpenses}},
		{{Label: "📈 View Stats", Data: actionViewStats}},
		{{Label: "❌ Delete Last Expense", Data: actionDeleteLast}},
	}
	if c.dashboardURL != "" {
		rows = append(rows, []Button{{Label: "🌐 View Dashboard", URL: c.dashboardURL}})
	}
	return rows
}
