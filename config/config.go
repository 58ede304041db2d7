package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// StakeDisposition controls what happens to the winning bid's tickets
// at settlement.
const (
	StakeBurn    = "burn"
	StakeForward = "forward"
)

type Config struct {
	Ticket TicketConfig `toml:"ticket"`
	Sweep  SweepConfig  `toml:"sweep"`
}

type TicketConfig struct {
	// ExchangeRate is how many tickets one unit of the backing asset
	// mints. Redemption applies the same rate in reverse.
	ExchangeRate uint64 `toml:"exchange_rate"`
	// StakeDisposition is "burn" or "forward" (to the seller).
	StakeDisposition string `toml:"stake_disposition"`
}

type SweepConfig struct {
	Interval Duration `toml:"interval"`
}

// Duration decodes TOML strings like "90s" or "1m30s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func Default() Config {
	return Config{
		Ticket: TicketConfig{
			ExchangeRate:     1,
			StakeDisposition: StakeBurn,
		},
		Sweep: SweepConfig{
			Interval: Duration(30 * time.Second),
		},
	}
}

func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := Default()
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return Config{}, err
	}

	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Ticket.ExchangeRate == 0 {
		return fmt.Errorf("ticket exchange rate must be positive")
	}
	switch c.Ticket.StakeDisposition {
	case StakeBurn, StakeForward:
	default:
		return fmt.Errorf("unknown stake disposition %q", c.Ticket.StakeDisposition)
	}
	if c.Sweep.Interval <= 0 {
		return fmt.Errorf("sweep interval must be positive")
	}
	return nil
}
