package flows

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/callbacks"
	"github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/format"
	tghelpers "github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/helpers"
	"github.com/sukmine0628/HYPAIKOREA-BOT/requests"
)

// reqNoFromCallback extracts and canonicalizes the request number payload.
func reqNoFromCallback(c tele.Context) (string, bool) {
	return requests.NormalizeReqNo(callbacks.CallbackPayload(c))
}

// ApproveCallback handles the manager's ✅ button.
func (e *Engine) ApproveCallback(c tele.Context) error {
	reqNo, ok := reqNoFromCallback(c)
	if !ok {
		return tghelpers.SendText(c, msgNotFound)
	}
	if ok, err := e.requireManager(c); !ok {
		return err
	}
	ctx := tghelpers.BuildContext(c)
	actor := e.employees.DisplayName(ctx, chatID(c))

	out, err := e.requests.Approve(ctx, reqNo, actor)
	if err != nil {
		return e.fail(c, err)
	}
	switch out.Kind {
	case requests.OutcomeNotFound:
		return tghelpers.SendText(c, msgNotFound)
	case requests.OutcomeAlreadyCanceled:
		return tghelpers.SendText(c, fmt.Sprintf(msgAlreadyHandled, requests.StatusCanceled))
	case requests.OutcomeAlreadyDecided:
		return tghelpers.SendText(c, fmt.Sprintf(msgAlreadyHandled, out.Status))
	}

	_, _ = e.notifier.BroadcastToManagers(ctx, fmt.Sprintf(msgApprovedNotice, reqNo, actor))
	e.notifier.Notify(ctx, out.Request.RequesterChatID, fmt.Sprintf(msgApprovedResult, reqNo, actor))
	return tghelpers.SendText(c, msgApproved)
}

// RejectCallback handles the manager's ❌ button. The status is checked
// before the reason is asked so a stale button fails fast.
func (e *Engine) RejectCallback(c tele.Context) error {
	reqNo, ok := reqNoFromCallback(c)
	if !ok {
		return tghelpers.SendText(c, msgNotFound)
	}
	if ok, err := e.requireManager(c); !ok {
		return err
	}
	ctx := tghelpers.BuildContext(c)

	out, err := e.requests.Lookup(ctx, reqNo)
	if err != nil {
		return e.fail(c, err)
	}
	switch out.Kind {
	case requests.OutcomeNotFound:
		return tghelpers.SendText(c, msgNotFound)
	case requests.OutcomeAlreadyCanceled:
		return tghelpers.SendText(c, fmt.Sprintf(msgAlreadyHandled, requests.StatusCanceled))
	}
	if out.Status != requests.StatusPending {
		return tghelpers.SendText(c, fmt.Sprintf(msgAlreadyHandled, out.Status))
	}

	uid := c.Sender().ID
	e.states.SetTemp(uid, tmpReqNo, reqNo)
	e.states.SetState(uid, StateRejectReason)
	return tghelpers.AskReply(c, msgRejectPrompt)
}

func (e *Engine) handleRejectReason(c tele.Context) error {
	uid := c.Sender().ID
	reqNo, ok := e.states.GetTempString(uid, tmpReqNo)
	if !ok {
		e.states.Clear(uid)
		return e.Hint(c)
	}

	// Re-check the marker: it may have been withdrawn since the button.
	ctx := tghelpers.BuildContext(c)
	isManager, err := e.employees.IsManager(ctx, chatID(c))
	if err != nil {
		return e.fail(c, err)
	}
	if !isManager {
		e.states.Clear(uid)
		return tghelpers.SendText(c, msgNotManager)
	}

	actor := e.employees.DisplayName(ctx, chatID(c))
	reason := format.Truncate(strings.TrimSpace(c.Text()), requests.MaxReasonLen)

	out, err := e.requests.Reject(ctx, reqNo, actor, reason)
	if err != nil {
		return e.fail(c, err)
	}
	e.states.Clear(uid)
	switch out.Kind {
	case requests.OutcomeNotFound:
		return tghelpers.SendText(c, msgNotFound)
	case requests.OutcomeAlreadyCanceled:
		return tghelpers.SendText(c, fmt.Sprintf(msgAlreadyHandled, requests.StatusCanceled))
	case requests.OutcomeAlreadyDecided:
		return tghelpers.SendText(c, fmt.Sprintf(msgAlreadyHandled, out.Status))
	}

	_, _ = e.notifier.BroadcastToManagers(ctx, fmt.Sprintf(msgRejectedNotice, reqNo, actor, reason))
	e.notifier.Notify(ctx, out.Request.RequesterChatID, fmt.Sprintf(msgRejectedResult, reqNo, actor, reason))
	return tghelpers.SendText(c, msgRejected)
}

// CancelCallback handles the requester's ❌ 취소 button. Ownership and status
// are verified when the reason arrives, matching the button's optimistic UX.
func (e *Engine) CancelCallback(c tele.Context) error {
	reqNo, ok := reqNoFromCallback(c)
	if !ok {
		return tghelpers.SendText(c, msgNotFound)
	}
	uid := c.Sender().ID
	e.states.SetTemp(uid, tmpReqNo, reqNo)
	e.states.SetState(uid, StateCancelReason)
	return tghelpers.AskReply(c, fmt.Sprintf(msgCancelPrompt, reqNo))
}

func (e *Engine) handleCancelReason(c tele.Context) error {
	uid := c.Sender().ID
	reqNo, ok := e.states.GetTempString(uid, tmpReqNo)
	if !ok {
		e.states.Clear(uid)
		return e.Hint(c)
	}
	ctx := tghelpers.BuildContext(c)
	id := chatID(c)
	reason := format.Truncate(strings.TrimSpace(c.Text()), requests.MaxReasonLen)

	out, err := e.requests.Cancel(ctx, reqNo, id, reason)
	if err != nil {
		return e.fail(c, err)
	}
	e.states.Clear(uid)
	switch out.Kind {
	case requests.OutcomeNotFound:
		return tghelpers.SendText(c, msgNotFound)
	case requests.OutcomeNotOwner:
		return tghelpers.SendText(c, msgNotOwner)
	case requests.OutcomeAlreadyCanceled:
		return tghelpers.SendText(c, fmt.Sprintf(msgAlreadyHandled, requests.StatusCanceled))
	case requests.OutcomeAlreadyDecided:
		return tghelpers.SendText(c, fmt.Sprintf(msgAlreadyHandled, out.Status))
	}

	name := e.employees.DisplayName(ctx, id)
	_, _ = e.notifier.BroadcastToManagers(ctx, fmt.Sprintf(msgCanceledNotice, reqNo, name, reason))
	e.notifier.Notify(ctx, id, fmt.Sprintf(msgCanceledResult, reqNo))
	return tghelpers.SendText(c, msgCanceled)
}
