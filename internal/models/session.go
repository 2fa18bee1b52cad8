package models

import "github.com/shopspring/decimal"

// WizardStep is the current position inside the recurring-expense wizard.
type WizardStep string

const (
	StepAmount         WizardStep = "amount"
	StepDescription    WizardStep = "description"
	StepManualCategory WizardStep = "manual_category"
	StepFrequency      WizardStep = "frequency"
)

// State is the conversational state derived from the session fields.
// At most one flow is active per user at a time.
type State int

const (
	StateIdle State = iota
	StateEditingAmount
	StateEditingCategory
	StateRecurringWizard
)

// Session is the per-user durable conversational state. All fields are
// optional; a zero Session means idle.
type Session struct {
	EditingExpenseID  int64           `json:"editing_expense_id,omitempty"`
	OriginalCategory  string          `json:"original_category,omitempty"`
	EditingCategoryID int64           `json:"editing_category_id,omitempty"`
	OriginalAmount    decimal.Decimal `json:"original_amount,omitempty"`

	AddingRecurring      bool            `json:"adding_recurring,omitempty"`
	RecurringStep        WizardStep      `json:"recurring_step,omitempty"`
	RecurringAmount      decimal.Decimal `json:"recurring_amount,omitempty"`
	RecurringDescription string          `json:"recurring_description,omitempty"`
	RecurringCategory    string          `json:"recurring_category,omitempty"`
}

// State reports which flow, if any, the session is in. Wizard membership wins
// over edit pointers so a stale pointer can never hijack a wizard reply.
func (s Session) State() State {
	switch {
	case s.AddingRecurring:
		return StateRecurringWizard
	case s.EditingExpenseID != 0:
		return StateEditingAmount
	case s.EditingCategoryID != 0:
		return StateEditingCategory
	}
	return StateIdle
}

// Clear resets every optional field. Used on cancel and on flow completion.
func (s *Session) Clear() {
	*s = Session{}
}

// StartAmountEdit enters edit-amount mode, clearing any conflicting flow first.
func (s *Session) StartAmountEdit(expenseID int64, originalCategory string) {
	s.Clear()
	s.EditingExpenseID = expenseID
	s.OriginalCategory = originalCategory
}

// StartCategoryEdit enters edit-category mode, clearing any conflicting flow first.
func (s *Session) StartCategoryEdit(expenseID int64, originalAmount decimal.Decimal) {
	s.Clear()
	s.EditingCategoryID = expenseID
	s.OriginalAmount = originalAmount
}

// StartWizard enters the recurring wizard at the amount step, clearing any
// conflicting flow first.
func (s *Session) StartWizard() {
	s.Clear()
	s.AddingRecurring = true
	s.RecurringStep = StepAmount
}
