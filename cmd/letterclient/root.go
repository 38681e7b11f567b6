package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/NATON4/letter-game-frontend/internal/game"
	"github.com/NATON4/letter-game-frontend/internal/httpapi"
	"github.com/NATON4/letter-game-frontend/internal/session"
	"github.com/NATON4/letter-game-frontend/internal/transport"
	"github.com/NATON4/letter-game-frontend/internal/ui"
)

type Config struct {
	server      string
	nickname    string
	room        string
	scoreToWin  int
	debugListen string
	verbose     bool
}

func (c *Config) validate() error {
	if c.server == "" {
		return errors.New("--server must not be empty")
	}
	if c.scoreToWin != 0 && !slices.Contains(game.AllowedWinningScores, c.scoreToWin) {
		return fmt.Errorf("invalid --score-to-win (must be one of %v): %d", game.AllowedWinningScores, c.scoreToWin)
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("LETTERGAME")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "letterclient",
		Short:         "Terminal client for the type-the-letter party game.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.server, "server", "s", "ws://localhost:4000/ws", "game server websocket url (env: LETTERGAME_SERVER)")
	fs.StringVarP(&cfg.nickname, "nickname", "n", "", "preset nickname (env: LETTERGAME_NICKNAME)")
	fs.StringVarP(&cfg.room, "room", "r", "", "room to join on startup, requires --nickname (env: LETTERGAME_ROOM)")
	fs.IntVar(&cfg.scoreToWin, "score-to-win", 0, "preset winning score, one of 2/10/20/50 (env: LETTERGAME_SCORE_TO_WIN)")
	fs.StringVar(&cfg.debugListen, "debug-listen", "", "address for the local debug api, disabled when empty (env: LETTERGAME_DEBUG_LISTEN)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display debug logging (env: LETTERGAME_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("letterclient v{{.Version}}\n")

	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func run(parent context.Context, cfg *Config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, err := newLogger(cfg.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	tr, err := transport.Dial(ctx, cfg.server, log)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", cfg.server, err)
	}
	defer tr.Close()

	s := session.New(ctx, tr, log)

	if cfg.debugListen != "" {
		srv := &http.Server{
			Addr:              cfg.debugListen,
			Handler:           httpapi.SetupRoutes(s),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Info("debug api listening", zap.String("addr", cfg.debugListen))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("debug api failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// Presets from flags run through the same command path the UI uses, so
	// they are validated like any other input.
	if cfg.nickname != "" {
		s.Inbox() <- session.FromUser{Cmd: game.Command{Type: game.CmdSubmitNickname, Nickname: cfg.nickname}}
	}
	if cfg.scoreToWin != 0 {
		s.Inbox() <- session.FromUser{Cmd: game.Command{Type: game.CmdSetWinningScore, Score: cfg.scoreToWin}}
	}
	if cfg.room != "" {
		s.Inbox() <- session.FromUser{Cmd: game.Command{Type: game.CmdJoinRoom, RoomID: cfg.room}}
	}

	ui.Run(ctx, s, os.Stdin, os.Stdout)

	s.Inbox() <- session.Shutdown{}
	return nil
}
