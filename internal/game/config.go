package game

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries every tunable the server reads at startup. Values come from
// the environment with defaults suitable for a local game; main wires flag
// overrides for the addresses and data paths.
type Config struct {
	Addr   string `env:"ECHO_ADDR" envDefault:":2323"`
	WSAddr string `env:"ECHO_WS_ADDR"`

	DataPath   string `env:"ECHO_DATA" envDefault:"data"`
	SavePath   string `env:"ECHO_SAVES" envDefault:"data/players"`
	BackupPath string `env:"ECHO_BACKUPS" envDefault:"backups"`
	BackupKeep int    `env:"ECHO_BACKUP_KEEP" envDefault:"10"`

	TickRate     int           `env:"ECHO_TICK_RATE" envDefault:"10"`
	RegenPeriod  time.Duration `env:"ECHO_REGEN_PERIOD" envDefault:"10s"`
	SaveInterval time.Duration `env:"ECHO_SAVE_INTERVAL" envDefault:"5m"`

	CommandCooldown time.Duration `env:"ECHO_COMMAND_COOLDOWN" envDefault:"100ms"`
	ChatCooldown    time.Duration `env:"ECHO_CHAT_COOLDOWN" envDefault:"1s"`
	AttackCooldown  time.Duration `env:"ECHO_ATTACK_COOLDOWN" envDefault:"2s"`
	SkillCooldown   time.Duration `env:"ECHO_SKILL_COOLDOWN" envDefault:"5s"`

	MaxPlayers        int `env:"ECHO_MAX_PLAYERS" envDefault:"100"`
	MaxChannels       int `env:"ECHO_MAX_CHANNELS" envDefault:"20"`
	MaxChannelMembers int `env:"ECHO_MAX_CHANNEL_MEMBERS" envDefault:"50"`
	MaxChatHistory    int `env:"ECHO_MAX_CHAT_HISTORY" envDefault:"1000"`
	MaxMessageLength  int `env:"ECHO_MAX_MESSAGE_LENGTH" envDefault:"500"`

	StartRoom string `env:"ECHO_START_ROOM" envDefault:"dock"`
	LogLevel  string `env:"ECHO_LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", c.TickRate)
	}
	if c.MaxPlayers <= 0 {
		return fmt.Errorf("max players must be positive, got %d", c.MaxPlayers)
	}
	if c.MaxChannels <= 0 {
		return fmt.Errorf("max channels must be positive, got %d", c.MaxChannels)
	}
	if c.MaxChatHistory <= 0 {
		return fmt.Errorf("max chat history must be positive, got %d", c.MaxChatHistory)
	}
	if c.MaxMessageLength <= 0 {
		return fmt.Errorf("max message length must be positive, got %d", c.MaxMessageLength)
	}
	return nil
}

// TickInterval converts the configured rate into the ticker period.
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}
