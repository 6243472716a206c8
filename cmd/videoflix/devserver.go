package main

import (
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/videoflix/videoflix-client/devserver"
	"github.com/videoflix/videoflix-client/internal/config"
)

// NewDevserverCmd creates the devserver subcommand.
func NewDevserverCmd() *cobra.Command {
	var seedEmail, seedPassword string

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run a local stand-in backend",
		Long: `Run a local in-memory backend serving the auth and catalog
endpoints, for developing against without real infrastructure.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.New()

			log := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()

			server := devserver.New(devserver.WithLogger(log))
			if seedEmail != "" {
				if err := seedAccount(server, seedEmail, seedPassword); err != nil {
					return err
				}
				log.Info().Str("email", seedEmail).Msg("seeded active account")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log.Info().Str("addr", cfg.GetPort()).Msg("devserver listening")
			return server.ListenAndServe(ctx, cfg.GetPort())
		},
	}

	cmd.Flags().StringVar(&seedEmail, "seed-email", "", "create an active account at startup")
	cmd.Flags().StringVar(&seedPassword, "seed-password", "Videoflix1", "password for the seeded account")
	return cmd
}

func seedAccount(server *devserver.Server, email, password string) error {
	hash, err := devserver.HashPassword(password)
	if err != nil {
		return err
	}
	return server.Accounts().Upsert(&devserver.Account{
		Email:        email,
		Username:     email,
		PasswordHash: hash,
		Active:       true,
	})
}
