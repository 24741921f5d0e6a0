package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/sukmine0628/HYPAIKOREA-BOT/core/config"
	coredatabase "github.com/sukmine0628/HYPAIKOREA-BOT/core/database"
	"github.com/sukmine0628/HYPAIKOREA-BOT/requests"
)

// LedgerConfig tunes the pending request listings.
type LedgerConfig struct {
	ListOrder        string `yaml:"list_order" envconfig:"LEDGER_LIST_ORDER"`
	MyListLimit      int    `yaml:"my_list_limit" envconfig:"LEDGER_MY_LIST_LIMIT"`
	ManagerListLimit int    `yaml:"manager_list_limit" envconfig:"LEDGER_MANAGER_LIST_LIMIT"`
}

// Config aggregates core settings with the app-specific sections.
type Config struct {
	Core     coreconfig.Config   `yaml:",inline"`
	Database coredatabase.Config `yaml:"database"`
	Ledger   LedgerConfig        `yaml:"ledger"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Core
}

// LoadConfig reads the YAML file, applies environment overrides and
// validates both the core and app sections.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Core); err != nil {
		return nil, err
	}
	if err := normalizeLedger(&cfg.Ledger); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalizeLedger(cfg *LedgerConfig) error {
	order := strings.ToLower(strings.TrimSpace(cfg.ListOrder))
	switch order {
	case "":
		order = requests.OrderDesc
	case requests.OrderAsc, requests.OrderDesc:
	default:
		return fmt.Errorf("invalid ledger.list_order %q; allowed: asc, desc", cfg.ListOrder)
	}
	cfg.ListOrder = order

	if cfg.MyListLimit < 0 || cfg.ManagerListLimit < 0 {
		return fmt.Errorf("ledger limits must be >= 0")
	}
	if cfg.MyListLimit == 0 {
		cfg.MyListLimit = 10
	}
	if cfg.ManagerListLimit == 0 {
		cfg.ManagerListLimit = 20
	}
	return nil
}
