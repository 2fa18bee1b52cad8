package bot

// EventKind distinguishes a typed message from an inline-button press.
type EventKind int

const (
	EventMessage EventKind = iota
	EventCallback
)

// Event is one inbound update from the delivery channel, already reduced to
// the fields the controller needs.
type Event struct {
	Kind   EventKind
	UserID string
	Text   string
	Data   string
}

// Button is one inline control. Data routes back as a callback payload;
// URL buttons open an external link instead.
type Button struct {
	Label string
	Data  string
	URL   string
}

// Reply is an outbound message with an optional inline keyboard.
type Reply struct {
	Text     string
	Keyboard [][]Button
}

// Callback payloads. Prefixed payloads carry an argument after the prefix.
const (
	actionCancel          = "CANCEL"
	actionCancelRecurring = "CANCEL_RECURRING"
	actionViewExpenses    = "VIEW_EXPENSES"
	actionViewStats       = "VIEW_STATS"
	actionShowHelp        = "SHOW_HELP"
	actionDeleteLast      = "DELETE_LAST"
	actionAddRecurring    = "ADD_RECURRING"
	actionRemoveRecurring = "REMOVE_RECURRING"
	actionCatConfirm      = "CAT_CONFIRM"
	actionCatChange       = "CAT_CHANGE"
	actionCatRestart      = "CAT_RESTART"

	prefixEditAmount  = "EDIT_"
	prefixEditCat     = "EDITCAT_"
	prefixDelete      = "DELETE_"
	prefixRestore     = "RESTORE_"
	prefixFrequency   = "FREQ_"
	prefixUseCategory = "USE_CAT_"
	prefixCategory    = "cat_"
	prefixSubcategory = "subcat_"
	prefixRemoveRec   = "REMOVE_REC_"
)
