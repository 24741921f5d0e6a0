// Package app assembles the purchase-approval bot from the core framework
// and the domain services.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sukmine0628/HYPAIKOREA-BOT/core/bootstrap"
	tg "github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram"
	"github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/router"
	"github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/state"
	"github.com/sukmine0628/HYPAIKOREA-BOT/core/telegram/ui"
	"github.com/sukmine0628/HYPAIKOREA-BOT/employees"
	"github.com/sukmine0628/HYPAIKOREA-BOT/flows"
	"github.com/sukmine0628/HYPAIKOREA-BOT/notify"
	"github.com/sukmine0628/HYPAIKOREA-BOT/requests"
	"github.com/sukmine0628/HYPAIKOREA-BOT/support"
)

// App carries the bot's wired components.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	states   state.Manager
	engine   *flows.Engine
	registry *tg.Registry
	notifier *notify.Notifier
}

// New runs the bootstrap pipeline and wires the domain services.
func New(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config")
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	empSvc := employees.NewService(employees.NewPostgresStore(res.DB))
	reqSvc := requests.NewService(requests.NewPostgresStore(res.DB))
	supSvc := support.NewService(support.NewPostgresStore(res.DB))
	notifier := notify.New(empSvc)
	states := state.NewMemoryManager()

	engine := flows.New(empSvc, reqSvc, supSvc, notifier, states, flows.Config{
		ListOrder:        cfg.Ledger.ListOrder,
		MyListLimit:      cfg.Ledger.MyListLimit,
		ManagerListLimit: cfg.Ledger.ManagerListLimit,
	})

	registry := tg.NewRegistry()
	engine.Register(registry)
	engine.BindStates()

	var fallbacks ui.FallbackProvider = engine
	registry.SetCallbackNotFound(fallbacks.UnknownCallback())
	registry.SetTextFallback(fallbacks.UnknownText())

	return &App{
		cfg:      cfg,
		db:       res.DB,
		states:   states,
		engine:   engine,
		registry: registry,
		notifier: notifier,
	}, nil
}

// TelegramRunOptions builds the runtime wiring for core/cmd.Run.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	core := a.cfg.CoreConfig()

	routes := router.CommandRoutes(a.registry, router.CommandRouteOptions{
		AdminID: core.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a.states, a.registry, router.TextOptions{
		Interrupt: a.engine.Interrupt,
	})...)
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{}))

	return tg.RunOptions{
		Config:      core,
		Registry:    a.registry,
		Middlewares: tg.DefaultMiddlewares(core, nil),
		Routes:      routes,
		OnStart: func(_ context.Context, rt tg.Runtime) error {
			// The notifier needs the live bot handle for DMs to managers
			// and requesters.
			a.notifier.SetSender(rt.Bot)
			return nil
		},
		OnStop: func(_ context.Context, _ tg.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
