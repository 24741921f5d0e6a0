// Package notify delivers outbound messages to chats other than the one the
// bot is currently replying to, most importantly the manager broadcast for
// new purchase requests.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/hashicorp/go-multierror"
	tele "gopkg.in/telebot.v4"

	"github.com/sukmine0628/HYPAIKOREA-BOT/core/logger"
	"github.com/sukmine0628/HYPAIKOREA-BOT/employees"
)

// Sender is the outbound half of the bot API. *tele.Bot satisfies it.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Directory lists the employees eligible for manager broadcasts.
type Directory interface {
	ListManagers(ctx context.Context) ([]employees.Employee, error)
}

// Notifier fans messages out synchronously so failures can be aggregated and
// reported to the caller. The sender is injected after the bot connects.
type Notifier struct {
	mu     sync.RWMutex
	sender Sender
	dir    Directory
}

// New constructs a Notifier over the employee directory. SetSender must be
// called before any delivery is attempted.
func New(dir Directory) *Notifier {
	return &Notifier{dir: dir}
}

// SetSender installs the outbound bot handle.
func (n *Notifier) SetSender(s Sender) {
	n.mu.Lock()
	n.sender = s
	n.mu.Unlock()
}

func (n *Notifier) getSender() Sender {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.sender
}

// Notify sends text to a single chat. Failures are logged and swallowed, so
// a dead chat never breaks the flow that triggered the notification.
func (n *Notifier) Notify(ctx context.Context, chatID string, text string, opts ...interface{}) {
	if err := n.send(chatID, text, opts...); err != nil {
		logger.Warn(ctx, "notify", "send",
			slog.String("status", "failed"),
			slog.String("chat_id", chatID),
			slog.String("err", err.Error()),
		)
	}
}

// BroadcastToManagers sends text to every manager in the directory. It keeps
// going past individual failures and returns the delivered count together
// with the aggregated error, so a partially failed broadcast still reaches
// whoever it can.
func (n *Notifier) BroadcastToManagers(ctx context.Context, text string, opts ...interface{}) (int, error) {
	managers, err := n.dir.ListManagers(ctx)
	if err != nil {
		return 0, fmt.Errorf("notify: list managers: %w", err)
	}
	if len(managers) == 0 {
		logger.Warn(ctx, "notify", "broadcast",
			slog.String("status", "skipped"),
			slog.String("cause", "no managers"),
		)
		return 0, nil
	}

	var result *multierror.Error
	delivered := 0
	for _, m := range managers {
		if err := n.send(m.ChatID, text, opts...); err != nil {
			result = multierror.Append(result, fmt.Errorf("chat %s: %w", m.ChatID, err))
			continue
		}
		delivered++
	}

	logger.Info(ctx, "notify", "broadcast",
		slog.String("status", "done"),
		slog.Int("recipients", len(managers)),
		slog.Int("delivered", delivered),
		slog.Int("failed", len(managers)-delivered),
	)
	return delivered, result.ErrorOrNil()
}

func (n *Notifier) send(chatID string, text string, opts ...interface{}) error {
	s := n.getSender()
	if s == nil {
		return fmt.Errorf("notify: sender not ready")
	}
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("notify: bad chat id %q: %w", chatID, err)
	}
	_, err = s.Send(tele.ChatID(id), text, opts...)
	return err
}
