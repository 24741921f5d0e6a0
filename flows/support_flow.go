package flows

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/format"
	tghelpers "github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/helpers"
	"github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/keyboard"
	"github.com/sukmine0628/HYPAIKOREA-BOT/support"
)

// SupportStart begins the support flow for approved employees.
func (e *Engine) SupportStart(c tele.Context) error {
	if ok, err := e.requireApproved(c); !ok {
		return err
	}
	uid := c.Sender().ID
	e.states.Clear(uid)
	e.states.SetState(uid, StateSupportSubject)
	return tghelpers.AskReply(c, msgSupportStart)
}

func (e *Engine) handleSupportSubject(c tele.Context) error {
	uid := c.Sender().ID
	e.states.SetTemp(uid, tmpSubject, format.Truncate(strings.TrimSpace(c.Text()), support.MaxSubjectLen))
	e.states.SetState(uid, StateSupportDetail)
	return tghelpers.AskReply(c, msgSupportDetail)
}

func (e *Engine) handleSupportDetail(c tele.Context) error {
	uid := c.Sender().ID
	e.states.SetTemp(uid, tmpDetail, format.Truncate(strings.TrimSpace(c.Text()), support.MaxDetailLen))
	e.states.SetState(uid, StateSupportConfirm)
	return e.sendSupportPreview(c)
}

// handleSupportConfirm re-shows the preview when the user types instead of
// pressing a button.
func (e *Engine) handleSupportConfirm(c tele.Context) error {
	return e.sendSupportPreview(c)
}

func (e *Engine) sendSupportPreview(c tele.Context) error {
	uid := c.Sender().ID
	subject, _ := e.states.GetTempString(uid, tmpSubject)
	detail, _ := e.states.GetTempString(uid, tmpDetail)
	kb := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: btnSupportSubmit, Unique: cbSupportSubmit},
		{Text: btnSupportAbort, Unique: cbSupportAbort},
	})
	return tghelpers.SendKeyboard(c, fmt.Sprintf(msgSupportPreview, subject, detail), kb)
}

// SupportSubmit persists the ticket and notifies managers.
func (e *Engine) SupportSubmit(c tele.Context) error {
	uid := c.Sender().ID
	if e.states.GetState(uid) != StateSupportConfirm {
		return e.Hint(c)
	}
	subject, _ := e.states.GetTempString(uid, tmpSubject)
	detail, _ := e.states.GetTempString(uid, tmpDetail)

	ctx := tghelpers.BuildContext(c)
	id := chatID(c)
	name := e.employees.DisplayName(ctx, id)

	ticket, err := e.support.Submit(ctx, id, name, subject, detail)
	if err != nil {
		return e.fail(c, err)
	}
	e.states.Clear(uid)

	_, _ = e.notifier.BroadcastToManagers(ctx,
		fmt.Sprintf(msgSupportAlert, ticket.ID, name, id, ticket.Subject, ticket.Detail))
	if err := tghelpers.SendText(c, fmt.Sprintf(msgSupportDone, ticket.ID)); err != nil {
		return err
	}
	return e.Menu(c)
}

// SupportAbort drops the drafted ticket.
func (e *Engine) SupportAbort(c tele.Context) error {
	e.states.Clear(c.Sender().ID)
	if err := tghelpers.SendText(c, msgSupportAborted); err != nil {
		return err
	}
	return e.Menu(c)
}
