package command

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-sweeper/internal/api"
	"github/chapool/go-sweeper/internal/api/router"
	"github/chapool/go-sweeper/internal/config"
	"golang.org/x/term"
)

const (
	ShutdownTimeout = 10 * time.Second
)

// SetupLogger applies the logger configuration to the global zerolog logger.
// Logs always go to stderr so stdout stays usable for tables and CSV output.
func SetupLogger(cfg config.Logger) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.PrettyPrintConsole || term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = os.Stderr
			w.TimeFormat = "15:04:05"
		}))
	} else {
		log.Logger = log.Output(os.Stderr)
	}
}

// WithServer initializes all server components, runs f and shuts the server down afterwards.
// The HTTP endpoint is started in the background if a listen address is configured.
func WithServer(ctx context.Context, cfg config.Sweep, f func(ctx context.Context, s *api.Server) error) error {
	SetupLogger(cfg.Logger)

	s, err := api.InitNewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	router.Init(s)

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if errs := s.Shutdown(ctx); len(errs) > 0 {
			log.Error().Errs("shutdownErrors", errs).Msg("Failed to gracefully shut down server")
		}
	}()

	if cfg.Server.ListenAddress != "" {
		go func() {
			log.Info().Str("address", cfg.Server.ListenAddress).Msg("Starting HTTP endpoint")

			if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("HTTP endpoint stopped")
			}
		}()
	}

	return f(ctx, s)
}

// NewSubcommandGroup returns a command that only groups the given subcommands.
func NewSubcommandGroup(name string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("%s related subcommands", name),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(subcommands...)

	return cmd
}
