package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/videoflix/videoflix-client/session"
	"github.com/videoflix/videoflix-client/videos"
)

// NewLoginCmd creates the login subcommand.
func NewLoginCmd() *cobra.Command {
	var hold bool

	cmd := &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Log in and verify the credentials",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, _, err := newManager(cmd)
			if err != nil {
				return err
			}
			defer manager.Close()

			user, err := manager.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			cmd.Printf("Logged in as %s (id %d)\n", user.Email, user.ID)

			if hold {
				cmd.Println("Holding session open, refresh task running. Ctrl-C to log out.")
				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				<-ctx.Done()
				return manager.Logout(cmd.Context())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&hold, "hold", false, "keep the session alive until interrupted")
	return cmd
}

// NewRegisterCmd creates the register subcommand.
func NewRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <email> <password>",
		Short: "Register a new account",
		Long: `Register a new account. The account stays inactive until the
activation link from the confirmation email is followed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, _, err := newManager(cmd)
			if err != nil {
				return err
			}
			defer manager.Close()

			err = manager.Register(cmd.Context(), session.RegisterRequest{
				Email:             args[0],
				Password:          args[1],
				ConfirmedPassword: args[1],
			})
			if err != nil {
				return err
			}
			cmd.Println("Registered. Check the account's inbox for the activation link.")
			return nil
		},
	}
}

// NewActivateCmd creates the activate subcommand.
func NewActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <uid> <token>",
		Short: "Activate an account with the emailed link parameters",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, _, err := newManager(cmd)
			if err != nil {
				return err
			}
			defer manager.Close()

			message, err := manager.ActivateAccount(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			cmd.Println(message)
			return nil
		},
	}
}

// NewForgotPasswordCmd creates the forgot-password subcommand.
func NewForgotPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, _, err := newManager(cmd)
			if err != nil {
				return err
			}
			defer manager.Close()

			if err := manager.RequestPasswordReset(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Println("Password reset email sent! Please check your inbox.")
			return nil
		},
	}
}

// NewResetPasswordCmd creates the reset-password subcommand.
func NewResetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <uid> <token> <new-password>",
		Short: "Set a new password with the emailed reset link parameters",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, _, err := newManager(cmd)
			if err != nil {
				return err
			}
			defer manager.Close()

			err = manager.ConfirmPasswordReset(cmd.Context(), args[0], args[1], session.PasswordResetConfirm{
				NewPassword:     args[2],
				ConfirmPassword: args[2],
			})
			if err != nil {
				return err
			}
			cmd.Println("Your password has been reset successfully!")
			return nil
		},
	}
}

// NewVideosCmd creates the videos subcommand.
func NewVideosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "videos <email> <password>",
		Short: "Log in and list the video catalog by category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, client, err := newManager(cmd)
			if err != nil {
				return err
			}
			defer manager.Close()

			if _, err := manager.Login(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}

			catalog, err := videos.NewService(client, videos.WithLogger(cliLogger(cmd)))
			if err != nil {
				return err
			}
			groups, err := catalog.ByCategory(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, group := range groups {
				fmt.Fprintf(w, "%s\n", group.DisplayName)
				for _, video := range group.Videos {
					fmt.Fprintf(w, "  %d\t%s\t%s\n", video.ID, video.Title, catalog.HLSURL(video.ID, videos.DefaultResolution))
				}
			}
			return w.Flush()
		},
	}
}
