package flows

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/format"
	tghelpers "github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/helpers"
	"github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/keyboard"
	"github.com/sukmine0628/HYPAIKOREA-BOT/requests"
)

const listTimeLayout = "2006-01-02 15:04"

// PurchaseMenu shows the purchase submenu to approved employees.
func (e *Engine) PurchaseMenu(c tele.Context) error {
	if ok, err := e.requireApproved(c); !ok {
		return err
	}
	kb := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: btnPurchaseRequest, Unique: cbPurchaseRequest},
			{Text: btnPurchaseApprove, Unique: cbPurchaseApprove},
		},
		[]keyboard.InlineBtn{
			{Text: btnPurchaseMyList, Unique: cbPurchaseMyList},
			{Text: btnGoBack, Unique: cbGoBack},
		},
	)
	return tghelpers.SendKeyboard(c, msgPurchaseMenu, kb)
}

// PurchaseRequest starts the five-step purchase flow.
func (e *Engine) PurchaseRequest(c tele.Context) error {
	if ok, err := e.requireApproved(c); !ok {
		return err
	}
	uid := c.Sender().ID
	e.states.Clear(uid)
	e.states.SetState(uid, StatePurchaseItem)
	return tghelpers.AskReply(c, msgPurchaseStart)
}

func (e *Engine) handlePurchaseItem(c tele.Context) error {
	uid := c.Sender().ID
	e.states.SetTemp(uid, tmpItem, format.Truncate(strings.TrimSpace(c.Text()), requests.MaxItemLen))
	e.states.SetState(uid, StatePurchaseQty)
	return tghelpers.AskReply(c, msgAskQty)
}

func (e *Engine) handlePurchaseQty(c tele.Context) error {
	uid := c.Sender().ID
	e.states.SetTemp(uid, tmpQty, format.Truncate(strings.TrimSpace(c.Text()), requests.MaxQtyLen))
	e.states.SetState(uid, StatePurchasePrice)
	return tghelpers.AskReply(c, msgAskPrice)
}

func (e *Engine) handlePurchasePrice(c tele.Context) error {
	price, ok := format.NormalizePrice(c.Text())
	if !ok {
		// Stay on the price step until the input is numeric.
		return tghelpers.AskReply(c, msgPriceRetry)
	}
	uid := c.Sender().ID
	e.states.SetTemp(uid, tmpPrice, price)
	e.states.SetState(uid, StatePurchaseReason)
	return tghelpers.AskReply(c, msgAskReason)
}

func (e *Engine) handlePurchaseReason(c tele.Context) error {
	uid := c.Sender().ID
	e.states.SetTemp(uid, tmpReason, format.Truncate(strings.TrimSpace(c.Text()), requests.MaxReasonLen))
	e.states.SetState(uid, StatePurchaseNote)
	return tghelpers.AskReply(c, msgAskNote)
}

func (e *Engine) handlePurchaseNote(c tele.Context) error {
	uid := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	item, _ := e.states.GetTempString(uid, tmpItem)
	qty, _ := e.states.GetTempString(uid, tmpQty)
	price, _ := e.states.GetTempInt64(uid, tmpPrice)
	reason, _ := e.states.GetTempString(uid, tmpReason)
	note := format.Truncate(strings.TrimSpace(c.Text()), requests.MaxNoteLen)

	id := chatID(c)
	name := e.employees.DisplayName(ctx, id)

	r, err := e.requests.Create(ctx, requests.CreateInput{
		RequesterName:   name,
		RequesterChatID: id,
		Item:            item,
		Qty:             qty,
		Price:           price,
		Reason:          reason,
		Note:            note,
	})
	if err != nil {
		return e.fail(c, err)
	}
	e.states.Clear(uid)

	won := format.FormatWon(r.Price)
	if err := tghelpers.SendText(c, fmt.Sprintf(msgAccepted, r.ReqNo, r.Item, r.Qty, won)); err != nil {
		return err
	}

	alert := fmt.Sprintf(msgManagerAlert, r.ReqNo, name, id, r.Item, r.Qty, won, r.Reason, r.Note)
	kb := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: btnApprove, Unique: cbApprove, Data: r.ReqNo},
		{Text: btnReject, Unique: cbReject, Data: r.ReqNo},
	})
	// Best effort: the request is already stored, delivery failures are
	// logged inside the notifier.
	_, _ = e.notifier.BroadcastToManagers(ctx, alert, kb)

	return e.Menu(c)
}

// PurchaseApprove shows managers the pending queue with decision buttons.
// Everyone else gets pointed at the DM notifications.
func (e *Engine) PurchaseApprove(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	isManager, err := e.employees.IsManager(ctx, chatID(c))
	if err != nil {
		return e.fail(c, err)
	}
	if !isManager {
		return tghelpers.SendText(c, msgApproveHint)
	}

	pending, err := e.requests.ListPending(ctx, requests.ListOptions{
		Order: e.cfg.ListOrder,
		Limit: e.cfg.ManagerListLimit,
	})
	if err != nil {
		return e.fail(c, err)
	}
	if len(pending) == 0 {
		return tghelpers.SendText(c, msgPendingEmpty)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf(msgPendingHead, e.cfg.ManagerListLimit))
	rows := make([][]keyboard.InlineBtn, 0, len(pending))
	for _, r := range pending {
		b.WriteString(fmt.Sprintf("\n• %s | %s (%s) | ₩%s | %s",
			r.ReqNo, r.Item, r.Qty, format.FormatWon(r.Price),
			r.RequestedAt.Format(listTimeLayout)))
		rows = append(rows, []keyboard.InlineBtn{
			{Text: "✅ " + r.ReqNo, Unique: cbApprove, Data: r.ReqNo},
			{Text: "❌ " + r.ReqNo, Unique: cbReject, Data: r.ReqNo},
		})
	}
	return tghelpers.SendKeyboard(c, b.String(), keyboard.InlineButtonsRows(rows...))
}

// MyList shows the requester's pending requests, each with a cancel button.
func (e *Engine) MyList(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	mine, err := e.requests.ListMine(ctx, chatID(c), e.cfg.MyListLimit)
	if err != nil {
		return e.fail(c, err)
	}
	if len(mine) == 0 {
		return tghelpers.SendText(c, msgPendingEmpty)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf(msgMyListHead, e.cfg.MyListLimit))
	rows := make([][]keyboard.InlineBtn, 0, len(mine))
	for _, r := range mine {
		b.WriteString(fmt.Sprintf("\n• %s | %s (%s) | ₩%s | %s",
			r.ReqNo, r.Item, r.Qty, format.FormatWon(r.Price),
			r.RequestedAt.Format(listTimeLayout)))
		rows = append(rows, []keyboard.InlineBtn{
			{Text: fmt.Sprintf(btnCancelReq, r.ReqNo), Unique: cbCancel, Data: r.ReqNo},
		})
	}
	return tghelpers.SendKeyboard(c, b.String(), keyboard.InlineButtonsRows(rows...))
}

// GoBack returns to the main menu, abandoning any flow.
func (e *Engine) GoBack(c tele.Context) error {
	return e.Menu(c)
}
