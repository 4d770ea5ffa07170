package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
)

func newRegisterCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register [username]",
		Short: "Create an account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			username, err := usernameArg(cmd, in, args)
			if err != nil {
				return err
			}
			password, err := GetPassword(in, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			user, err := a.client().Register(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
}

// The token goes to stdout alone so it can be captured:
//
//	export MEDIACTL_TOKEN=$(mediactl login alice)
func newLoginCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login [username]",
		Short: "Log in and print an access token",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			username, err := usernameArg(cmd, in, args)
			if err != nil {
				return err
			}
			password, err := GetPassword(in, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			tok, err := a.client().Login(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.AccessToken)
			fmt.Fprintf(cmd.ErrOrStderr(), "Token expires at %s\n", tok.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}
