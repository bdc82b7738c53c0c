package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ecoquiz-duel/internal/config"
	"ecoquiz-duel/internal/server"
)

type flags struct {
	config string
	port   int
}

func newCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:     "duel-server",
		Short:   "Real-time two-player eco quiz duels over websockets.",
		Args:    cobra.NoArgs,
		Version: releaseVersion,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadConfig(cmd.Flags(), f)
			if err != nil {
				return err
			}

			slog.SetDefault(newLogger(c.Log))
			return run(c)
		},
	}

	fs := cmd.Flags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&f.config, "config", "c", os.Getenv("CONFIG_PATH"), "path to a yaml, json or toml config file (env: CONFIG_PATH)")
	fs.IntVarP(&f.port, "port", "p", 0, "port to listen on, overrides http.port (env: DUEL_HTTP_PORT)")

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("duel-server v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

func loadConfig(fs *pflag.FlagSet, f flags) (config.Config, error) {
	c := config.Default()
	if err := config.Load(f.config, &c); err != nil {
		return c, fmt.Errorf("load config: %w", err)
	}

	if fs.Changed("port") {
		c.HTTP.Port = f.port
	}

	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid config: %w", err)
	}

	return c, nil
}

func newLogger(c config.Log) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func run(c config.Config) error {
	if c.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	s, err := server.Init(c)
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGTERM, os.Interrupt)

	errc := make(chan error, 1)
	go func() {
		errc <- s.Start()
	}()

	select {
	case sig := <-shutdown:
		slog.Info("server: signal received", "signal", sig.String())
		s.Shutdown()
		return <-errc
	case err := <-errc:
		s.Shutdown()
		return err
	}
}
