package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/babago/babago/internal/config"
	"github.com/babago/babago/internal/data"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "babago",
		Usage: "rule-derived grid puzzles in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the TOML config (default $BABAGO_CONFIG or " + config.DefaultPath + ")",
			},
			&cli.StringFlag{
				Name:  "pack",
				Usage: "level pack, overrides levels.pack",
			},
		},
		Commands: []*cli.Command{
			playCommand(),
			runCommand(),
			rulesCommand(),
			levelsCommand(),
			migrateCommand(),
		},
	}
}

// env is what every command needs after startup.
type env struct {
	cfg   *config.Config
	log   *zap.Logger
	tiles *data.TileTable
	pack  *data.Pack
}

// playLogFile receives the log while the terminal UI owns the screen and no
// logging.file is configured.
const playLogFile = "babago.log"

// setup loads config, logger, tile legend and level pack. interactive is set
// by commands that draw on the terminal.
func setup(cmd *cli.Command, interactive bool) (*env, error) {
	path := cmd.String("config")
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p := cmd.String("pack"); p != "" {
		cfg.Levels.Pack = p
	}

	log, err := newLogger(cfg.Logging, interactive)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	tiles := data.DefaultTileTable()
	if _, err := os.Stat(cfg.Levels.Tiles); err == nil {
		if tiles, err = data.LoadTileTable(cfg.Levels.Tiles); err != nil {
			return nil, fmt.Errorf("load tiles: %w", err)
		}
	}

	pack, err := data.LoadPack(cfg.Levels.Pack, cfg.Levels.Encoding, tiles)
	if err != nil {
		return nil, fmt.Errorf("load levels: %w", err)
	}
	log.Info("levels loaded", zap.String("pack", cfg.Levels.Pack), zap.Int("count", pack.Count()))
	return &env{cfg: cfg, log: log, tiles: tiles, pack: pack}, nil
}

// logOutputs picks the zap sink. Grid output and the tcell screen both own
// stdout, so logs never go there.
func logOutputs(cfg config.LoggingConfig, interactive bool) []string {
	switch {
	case cfg.File != "":
		return []string{cfg.File}
	case interactive:
		return []string{playLogFile}
	}
	return []string{"stderr"}
}

func newLogger(cfg config.LoggingConfig, interactive bool) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.OutputPaths = logOutputs(cfg, interactive)
	zapCfg.ErrorOutputPaths = zapCfg.OutputPaths
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
