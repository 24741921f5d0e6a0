package router

import (
	"time"

	tg "github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram"
	"github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// FSM defines the minimal interface for an FSM manager.
type FSM interface {
	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}

// TextOptions controls text-update routing.
//
// Interrupt is consulted before the FSM so that global phrases (menu
// triggers, a bare cancel command) win over an in-progress conversation.
type TextOptions struct {
	Interrupt   func(text string) (tele.HandlerFunc, bool)
	UnknownText tele.HandlerFunc
}

// TextRoutes builds the handler for incoming text updates.
// Dispatch order: global interrupts, active FSM state, registered commands,
// registry text fallback, unknown-text handler.
func TextRoutes(fsmMgr FSM, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if opts.Interrupt != nil {
			if h, ok := opts.Interrupt(text); ok && h != nil {
				return handleWithSummary(c, "interrupt", start, "", "", func() error {
					return h(c)
				})
			}
		}

		if fsmMgr != nil && fsmMgr.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "fsm", start, "", "", func() error {
				return fsmMgr.ManagerHandler(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}
