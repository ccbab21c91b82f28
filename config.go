package bankreg

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"gopkg.in/yaml.v3"
)

const (
	IDGeneratorCounter   = "counter"
	IDGeneratorSnowflake = "snowflake"
)

type Config struct {
	Server struct {
		Addr            string        `yaml:"addr"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	IDs struct {
		Generator string `yaml:"generator"`
		Node      int64  `yaml:"node"`
	} `yaml:"ids"`
	Limits struct {
		InFlight       int64         `yaml:"in_flight"`
		AcquireTimeout time.Duration `yaml:"acquire_timeout"`
	} `yaml:"limits"`
	Breaker struct {
		MaxRequests uint32        `yaml:"max_requests"`
		Interval    time.Duration `yaml:"interval"`
		Timeout     time.Duration `yaml:"timeout"`
		MaxFailures uint32        `yaml:"max_failures"`
	} `yaml:"breaker"`
	SeedAccounts []float64 `yaml:"seed_accounts"`

	envProblems []string
}

// LoadConfig reads the YAML file at path, fills in defaults and applies
// BANKREG_* environment overrides. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err = yaml.NewDecoder(f).Decode(cfg); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}
	cfg.setDefaults()
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 5 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.IDs.Generator == "" {
		c.IDs.Generator = IDGeneratorCounter
	}
	if c.Limits.InFlight == 0 {
		c.Limits.InFlight = 64
	}
	if c.Limits.AcquireTimeout == 0 {
		c.Limits.AcquireTimeout = 500 * time.Millisecond
	}
	if c.Breaker.MaxRequests == 0 {
		c.Breaker.MaxRequests = 1
	}
	if c.Breaker.Interval == 0 {
		c.Breaker.Interval = time.Minute
	}
	if c.Breaker.Timeout == 0 {
		c.Breaker.Timeout = 30 * time.Second
	}
	if c.Breaker.MaxFailures == 0 {
		c.Breaker.MaxFailures = 5
	}
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("BANKREG_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("BANKREG_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("BANKREG_ID_GENERATOR"); v != "" {
		c.IDs.Generator = v
	}
	if v := getenv("BANKREG_ID_NODE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.envProblems = append(c.envProblems, fmt.Sprintf("invalid BANKREG_ID_NODE '%s': must be an integer", v))
		} else {
			c.IDs.Node = n
		}
	}
}

func (c *Config) Validate() error {
	problems := append([]string(nil), c.envProblems...)

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level '%s'", c.Log.Level))
	}
	switch c.IDs.Generator {
	case IDGeneratorCounter:
	case IDGeneratorSnowflake:
		// snowflake's default layout reserves 10 bits for the node
		if c.IDs.Node < 0 || c.IDs.Node > 1023 {
			problems = append(problems, fmt.Sprintf("invalid snowflake node %d: must be between 0 and 1023", c.IDs.Node))
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid id generator '%s': must be one of [%s %s]",
			c.IDs.Generator, IDGeneratorCounter, IDGeneratorSnowflake))
	}
	if c.Limits.InFlight < 1 {
		problems = append(problems, fmt.Sprintf("invalid in-flight limit %d: must be at least 1", c.Limits.InFlight))
	}
	if c.Limits.AcquireTimeout < 0 {
		problems = append(problems, "acquire timeout must not be negative")
	}
	for i, b := range c.SeedAccounts {
		if b < 0 {
			problems = append(problems, fmt.Sprintf("seed account %d has negative balance %s", i, FormatAmount(b)))
		} else if !isFinite(b) {
			problems = append(problems, fmt.Sprintf("seed account %d has non-finite balance %s", i, FormatAmount(b)))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func (c *Config) Logger(w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func (c *Config) IDGenerator() (IDGenerator, error) {
	if c.IDs.Generator == IDGeneratorSnowflake {
		return NewSnowflakeIDs(c.IDs.Node)
	}
	return processIDs, nil
}

func (c *Config) ServiceLimits() *ServiceLimits {
	return NewServiceLimits(c.Limits.InFlight, c.Limits.AcquireTimeout)
}

func (c *Config) ServiceBreaker(log *zerolog.Logger) *ServiceBreaker {
	maxFailures := c.Breaker.MaxFailures
	return NewServiceBreaker(gobreaker.Settings{
		Name:        "bankreg",
		MaxRequests: c.Breaker.MaxRequests,
		Interval:    c.Breaker.Interval,
		Timeout:     c.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})
}
