package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
)

// Config holds the boostd daemon configuration.
type Config struct {
	ListenAddress      string `toml:"ListenAddress"`
	DataDir            string `toml:"DataDir"`
	Owner              string `toml:"Owner"`
	Ledger             string `toml:"Ledger"`
	Beneficiary        string `toml:"Beneficiary"`
	PrizeToken         string `toml:"PrizeToken"`
	PrizePool          string `toml:"PrizePool"`
	PeriodOffset       uint64 `toml:"PeriodOffset"`
	PeriodSeconds      uint64 `toml:"PeriodSeconds"`
	PeriodQuantization bool   `toml:"PeriodQuantization"`
}

// Load reads the configuration from the given path, writing a commented
// default file when none exists yet.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.ListenAddress) == "" {
		c.ListenAddress = ":8671"
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = "./boostd-data"
	}
	if c.PeriodSeconds == 0 {
		c.PeriodSeconds = 3600
	}
}

// Validate checks that every configured identity is a well-formed, non-zero
// hex address.
func (c *Config) Validate() error {
	for _, field := range []struct {
		name  string
		value string
	}{
		{"Owner", c.Owner},
		{"Ledger", c.Ledger},
		{"Beneficiary", c.Beneficiary},
		{"PrizeToken", c.PrizeToken},
		{"PrizePool", c.PrizePool},
	} {
		trimmed := strings.TrimSpace(field.value)
		if trimmed == "" {
			return fmt.Errorf("config: %s is required", field.name)
		}
		if !common.IsHexAddress(trimmed) {
			return fmt.Errorf("config: %s is not a hex address: %q", field.name, field.value)
		}
		if common.HexToAddress(trimmed) == (common.Address{}) {
			return fmt.Errorf("config: %s must not be the zero address", field.name)
		}
	}
	return nil
}

// OwnerAddress returns the parsed owner identity.
func (c *Config) OwnerAddress() common.Address { return common.HexToAddress(c.Owner) }

// LedgerAddress returns the custody account identity of the ledger itself.
func (c *Config) LedgerAddress() common.Address { return common.HexToAddress(c.Ledger) }

// BeneficiaryAddress returns the parsed beneficiary vault identity.
func (c *Config) BeneficiaryAddress() common.Address { return common.HexToAddress(c.Beneficiary) }

// PrizeTokenAddress returns the parsed reference token identity.
func (c *Config) PrizeTokenAddress() common.Address { return common.HexToAddress(c.PrizeToken) }

// PrizePoolAddress returns the parsed contribution sink identity.
func (c *Config) PrizePoolAddress() common.Address { return common.HexToAddress(c.PrizePool) }

func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("config: wrote default configuration to %s; fill in the ledger identities and restart", path)
}
