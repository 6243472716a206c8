package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/videoflix/videoflix-client/api"
	"github.com/videoflix/videoflix-client/internal/config"
	"github.com/videoflix/videoflix-client/session"
)

// Global flags available to all subcommands.
var (
	apiBaseURL string
	verbose    bool
)

// NewRootCmd creates the root command for the Videoflix CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "videoflix",
		Short: "Videoflix - command line client for the Videoflix backend",
		Long: `Videoflix drives the backend's account and catalog endpoints from
the command line: register, activate, log in, reset passwords, and
browse the video catalog. The devserver subcommand runs a local
stand-in backend for development.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&apiBaseURL, "api", config.New().GetAPIBaseURL(), "API base URL")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(NewLoginCmd())
	cmd.AddCommand(NewRegisterCmd())
	cmd.AddCommand(NewActivateCmd())
	cmd.AddCommand(NewForgotPasswordCmd())
	cmd.AddCommand(NewResetPasswordCmd())
	cmd.AddCommand(NewVideosCmd())
	cmd.AddCommand(NewDevserverCmd())

	return cmd
}

// printNavigator prints the path a browser client would be redirected to.
type printNavigator struct {
	cmd *cobra.Command
}

func (n printNavigator) Navigate(path string) {
	n.cmd.Printf("-> %s\n", path)
}

func cliLogger(cmd *cobra.Command) zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
}

// newManager builds a session manager against the configured API base.
func newManager(cmd *cobra.Command) (*session.Manager, *api.Client, error) {
	cfg := config.New()
	client, err := api.New(apiBaseURL,
		api.WithLogger(cliLogger(cmd)),
		api.WithTimeout(cfg.GetRequestTimeout()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("building API client: %w", err)
	}

	manager, err := session.NewManager(client, printNavigator{cmd: cmd},
		session.WithLogger(cliLogger(cmd)),
		session.WithRefreshInterval(cfg.GetTokenRefreshInterval()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("building session manager: %w", err)
	}
	return manager, client, nil
}
