// Package flows implements the bot's conversations: the main menu, employee
// registration, the purchase request flow with manager approval, request
// cancellation and the support flow. Handlers are registered into the core
// registry and bound to FSM states; all user-facing text is Korean.
package flows

import (
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	tg "github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram"
	"github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/commands"
	tghelpers "github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/helpers"
	"github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/keyboard"
	"github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/state"
	"github.com/sukmine0628/HYPAIKOREA-BOT/employees"
	"github.com/sukmine0628/HYPAIKOREA-BOT/notify"
	"github.com/sukmine0628/HYPAIKOREA-BOT/requests"
	"github.com/sukmine0628/HYPAIKOREA-BOT/support"
)

// Config carries the listing policy knobs.
type Config struct {
	ListOrder        string
	MyListLimit      int
	ManagerListLimit int
}

// Engine holds the domain services behind every conversation handler.
type Engine struct {
	employees *employees.Service
	requests  *requests.Service
	support   *support.Service
	notifier  *notify.Notifier
	states    state.Manager
	cfg       Config
}

// New wires the conversation engine.
func New(
	emp *employees.Service,
	req *requests.Service,
	sup *support.Service,
	ntf *notify.Notifier,
	states state.Manager,
	cfg Config,
) *Engine {
	if cfg.MyListLimit <= 0 {
		cfg.MyListLimit = 10
	}
	if cfg.ManagerListLimit <= 0 {
		cfg.ManagerListLimit = 20
	}
	return &Engine{
		employees: emp,
		requests:  req,
		support:   sup,
		notifier:  ntf,
		states:    states,
		cfg:       cfg,
	}
}

// Register installs commands and callbacks into the registry.
func (e *Engine) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     e.Menu,
		Description: "메인 메뉴",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     e.CancelCommand,
		Description: "진행 중인 작업 취소",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     e.StatsCommand,
		Description: "대기중 요청 수",
		AdminOnly:   true,
		Hidden:      true,
	})

	_ = reg.RegisterCallback(cbRegisterStart, e.RegisterStart)
	_ = reg.RegisterCallback(cbPurchaseMenu, e.PurchaseMenu)
	_ = reg.RegisterCallback(cbPurchaseRequest, e.PurchaseRequest)
	_ = reg.RegisterCallback(cbPurchaseApprove, e.PurchaseApprove)
	_ = reg.RegisterCallback(cbPurchaseMyList, e.MyList)
	_ = reg.RegisterCallback(cbGoBack, e.GoBack)
	_ = reg.RegisterCallback(cbApprove, e.ApproveCallback)
	_ = reg.RegisterCallback(cbReject, e.RejectCallback)
	_ = reg.RegisterCallback(cbCancel, e.CancelCallback)
	_ = reg.RegisterCallback(cbSupportStart, e.SupportStart)
	_ = reg.RegisterCallback(cbSupportSubmit, e.SupportSubmit)
	_ = reg.RegisterCallback(cbSupportAbort, e.SupportAbort)
}

// BindStates associates every FSM state with its handler.
func (e *Engine) BindStates() {
	state.RegisterHandler(StateRegisterName, e.handleRegisterName)
	state.RegisterHandler(StatePurchaseItem, e.handlePurchaseItem)
	state.RegisterHandler(StatePurchaseQty, e.handlePurchaseQty)
	state.RegisterHandler(StatePurchasePrice, e.handlePurchasePrice)
	state.RegisterHandler(StatePurchaseReason, e.handlePurchaseReason)
	state.RegisterHandler(StatePurchaseNote, e.handlePurchaseNote)
	state.RegisterHandler(StateRejectReason, e.handleRejectReason)
	state.RegisterHandler(StateCancelReason, e.handleCancelReason)
	state.RegisterHandler(StateSupportSubject, e.handleSupportSubject)
	state.RegisterHandler(StateSupportDetail, e.handleSupportDetail)
	state.RegisterHandler(StateSupportConfirm, e.handleSupportConfirm)
}

// Interrupt resolves global phrases that win over any in-progress flow:
// the menu trigger and the bare cancel command.
func (e *Engine) Interrupt(text string) (tele.HandlerFunc, bool) {
	t := strings.TrimSpace(text)
	switch {
	case cancelRe.MatchString(t):
		return e.CancelCommand, true
	case triggerRe.MatchString(t):
		return e.Menu, true
	}
	return nil, false
}

// Menu clears any in-progress flow and shows the main menu.
func (e *Engine) Menu(c tele.Context) error {
	e.states.Clear(c.Sender().ID)
	kb := keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: btnRegister, Unique: cbRegisterStart},
			{Text: btnPurchaseMenu, Unique: cbPurchaseMenu},
		},
		[]keyboard.InlineBtn{
			{Text: btnSupport, Unique: cbSupportStart},
		},
	)
	return tghelpers.SendKeyboard(c, msgMenu, kb)
}

// CancelCommand clears the chat's flow state and acknowledges.
func (e *Engine) CancelCommand(c tele.Context) error {
	e.states.Clear(c.Sender().ID)
	return tghelpers.SendText(c, msgCancelAck)
}

// Hint answers text that matched nothing.
func (e *Engine) Hint(c tele.Context) error {
	return tghelpers.SendText(c, msgHintStart)
}

// UnknownText implements ui.FallbackProvider.
func (e *Engine) UnknownText() tele.HandlerFunc {
	return e.Hint
}

// UnknownCallback implements ui.FallbackProvider; stale buttons from old
// messages land here.
func (e *Engine) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, msgUnknownAction)
	}
}

// StatsCommand reports the pending request count.
func (e *Engine) StatsCommand(c tele.Context) error {
	n, err := e.requests.PendingCount(tghelpers.BuildContext(c))
	if err != nil {
		return e.fail(c, err)
	}
	return tghelpers.SendText(c, fmt.Sprintf(msgPendingStats, n))
}

// RegisterStart begins the employee registration flow.
func (e *Engine) RegisterStart(c tele.Context) error {
	uid := c.Sender().ID
	e.states.Clear(uid)
	e.states.SetState(uid, StateRegisterName)
	return tghelpers.AskReply(c, msgRegisterPrompt)
}

func (e *Engine) handleRegisterName(c tele.Context) error {
	name := strings.TrimSpace(c.Text())
	if name == "" {
		return nil
	}
	ctx := tghelpers.BuildContext(c)
	if err := e.employees.Register(ctx, chatID(c), name); err != nil {
		return e.fail(c, err)
	}
	e.states.Clear(c.Sender().ID)
	if err := tghelpers.SendText(c, fmt.Sprintf(msgRegisterDone, name)); err != nil {
		return err
	}
	return e.Menu(c)
}

// fail answers with the generic retry message and surfaces the error to the
// router for logging. Flow state is deliberately left as it was.
func (e *Engine) fail(c tele.Context, err error) error {
	_ = tghelpers.SendText(c, msgErrGeneric)
	return err
}

// chatID renders the sender's ID the way it is stored in the directory.
func chatID(c tele.Context) string {
	return strconv.FormatInt(c.Sender().ID, 10)
}

// requireApproved gates a handler on the approval marker. It returns false
// after answering the user when access is denied.
func (e *Engine) requireApproved(c tele.Context) (bool, error) {
	ok, err := e.employees.IsApproved(tghelpers.BuildContext(c), chatID(c))
	if err != nil {
		return false, e.fail(c, err)
	}
	if !ok {
		return false, tghelpers.SendText(c, msgNotApproved)
	}
	return true, nil
}

// requireManager gates a handler on the manager marker.
func (e *Engine) requireManager(c tele.Context) (bool, error) {
	ok, err := e.employees.IsManager(tghelpers.BuildContext(c), chatID(c))
	if err != nil {
		return false, e.fail(c, err)
	}
	if !ok {
		return false, tghelpers.SendText(c, msgNotManager)
	}
	return true, nil
}
