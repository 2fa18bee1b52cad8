package bot

import (
	"context"
	"strconv"
	"time"

	"hornerito/internal/logging"

	tele "gopkg.in/telebot.v3"
)

// Telegram adapts the controller to the Telegram transport. It owns the
// long-polling loop and converts telebot updates into controller events.
type Telegram struct {
	bot        *tele.Bot
	controller *Controller
	logger     logging.Logger
}

// NewTelegram creates the transport. pollTimeout bounds each long poll.
func NewTelegram(token string, pollTimeout time.Duration, controller *Controller, logger logging.Logger) (*Telegram, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
	})
	if err != nil {
		return nil, err
	}
	t := &Telegram{bot: b, controller: controller, logger: logger}
	t.route()
	return t, nil
}

func (t *Telegram) route() {
	t.bot.Handle("/start", t.onText)
	t.bot.Handle("/cancel", t.onText)
	t.bot.Handle("/stoprecurring", t.onText)
	t.bot.Handle(tele.OnText, t.onText)
	t.bot.Handle(tele.OnCallback, t.onCallback)
}

func (t *Telegram) onText(c tele.Context) error {
	replies := t.controller.Dispatch(context.Background(), Event{
		Kind:   EventMessage,
		UserID: userID(c),
		Text:   c.Text(),
	})
	return t.deliver(c, replies)
}

func (t *Telegram) onCallback(c tele.Context) error {
	// Acknowledge first so the client stops its spinner even when the
	// handler takes the slow AI path.
	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		t.logger.WithError(err).Warn("Failed to answer callback query")
	}
	replies := t.controller.Dispatch(context.Background(), Event{
		Kind:   EventCallback,
		UserID: userID(c),
		Data:   trimCallbackData(c.Callback().Data),
	})
	return t.deliver(c, replies)
}

// trimCallbackData strips telebot's unique-prefix framing ("\f" + data).
func trimCallbackData(data string) string {
	if len(data) > 0 && data[0] == '\f' {
		return data[1:]
	}
	return data
}

func (t *Telegram) deliver(c tele.Context, replies []Reply) error {
	for _, r := range replies {
		if err := c.Send(r.Text, toMarkup(r.Keyboard)); err != nil {
			t.logger.WithError(err).WithField("user", userID(c)).Error("Failed to send reply")
			return err
		}
	}
	return nil
}

// toMarkup converts the controller's keyboard grid into telebot inline markup.
func toMarkup(keyboard [][]Button) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	if len(keyboard) == 0 {
		return markup
	}
	rows := make([][]tele.InlineButton, len(keyboard))
	for i, row := range keyboard {
		rows[i] = make([]tele.InlineButton, len(row))
		for j, btn := range row {
			rows[i][j] = tele.InlineButton{Text: btn.Label, Data: btn.Data, URL: btn.URL}
		}
	}
	markup.InlineKeyboard = rows
	return markup
}

func userID(c tele.Context) string {
	return strconv.FormatInt(c.Sender().ID, 10)
}

// Start begins long polling. Blocks until Stop is called.
func (t *Telegram) Start() {
	t.logger.Info("Telegram bot polling started")
	t.bot.Start()
}

// Stop terminates the polling loop.
func (t *Telegram) Stop() {
	t.bot.Stop()
}

// Notify sends a plain message outside any inbound update, used by the
// recurring sweep to announce materialized expenses.
func (t *Telegram) Notify(userIDStr, text string) error {
	id, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return err
	}
	_, err = t.bot.Send(&tele.User{ID: id}, text)
	return err
}
