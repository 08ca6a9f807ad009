package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultPath is used when BABAGO_CONFIG is unset.
const DefaultPath = "config/babago.toml"

type Config struct {
	Engine    EngineConfig    `toml:"engine"`
	Levels    LevelsConfig    `toml:"levels"`
	Keys      KeysConfig      `toml:"keys"`
	Logging   LoggingConfig   `toml:"logging"`
	Scripting ScriptingConfig `toml:"scripting"`
	Database  DatabaseConfig  `toml:"database"`
}

type EngineConfig struct {
	MaxMoveAttempts   int  `toml:"max_move_attempts"`   // bounce retries per mover per tick
	EliminateOnHazard bool `toml:"eliminate_on_hazard"` // destroy entities that touch DEFEAT/SINK
}

type LevelsConfig struct {
	Pack     string `toml:"pack"`
	Tiles    string `toml:"tiles"`    // empty = built-in legend
	Encoding string `toml:"encoding"` // htmlindex name, empty = UTF-8
	First    string `toml:"first"`
}

// KeysConfig binds terminal key names to actions.
type KeysConfig struct {
	Up    string `toml:"up"`
	Down  string `toml:"down"`
	Left  string `toml:"left"`
	Right string `toml:"right"`
	Undo  string `toml:"undo"`
	Reset string `toml:"reset"`
	Quit  string `toml:"quit"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // empty = stderr, except under play
}

type ScriptingConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty disables progress records
	MaxOpenConns    int           `toml:"max_open_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

// Path returns BABAGO_CONFIG or DefaultPath.
func Path() string {
	if p := os.Getenv("BABAGO_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path, falling back to Defaults when the file does not
// exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Defaults(), nil
	}
	return Load(path)
}

func (c *Config) validate() error {
	if c.Engine.MaxMoveAttempts < 1 {
		return fmt.Errorf("engine.max_move_attempts must be at least 1, got %d", c.Engine.MaxMoveAttempts)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format %q: want console or json", c.Logging.Format)
	}
	return nil
}

// Keymap returns the movement bindings as key name to direction name.
func (k KeysConfig) Keymap() map[string]string {
	return map[string]string{
		k.Up:    "up",
		k.Down:  "down",
		k.Left:  "left",
		k.Right: "right",
	}
}

func Defaults() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxMoveAttempts: 2,
		},
		Levels: LevelsConfig{
			Pack:  "data/levels/levels-all.bbiy",
			Tiles: "data/yaml/tile_list.yaml",
			First: "Level-1",
		},
		Keys: KeysConfig{
			Up:    "Up",
			Down:  "Down",
			Left:  "Left",
			Right: "Right",
			Undo:  "z",
			Reset: "r",
			Quit:  "Esc",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			ConnMaxLifetime: 30 * time.Minute,
		},
	}
}
