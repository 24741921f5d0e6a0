package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/sukmine0628/HYPAIKOREA-BOT/app"
	corecmd "github.com/sukmine0628/HYPAIKOREA-BOT/core/cmd"
)

func main() {
	// Local development convenience; production sets real env vars.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return app.LoadConfig(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			appCfg, ok := cfg.(*app.Config)
			if !ok {
				log.Fatalf("unexpected config type %T", cfg)
			}
			return app.New(appCfg)
		},
	})
	if err != nil {
		log.Fatalf("bot exited: %v", err)
	}
}
