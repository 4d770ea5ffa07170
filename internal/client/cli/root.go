// Package cli implements mediactl, a command-line client for the postmedia
// HTTP API.
//
// Global settings come from persistent flags or MEDIACTL_* environment
// variables:
//
//	--server  MEDIACTL_SERVER  base URL of the API (default http://127.0.0.1:8080)
//	--token   MEDIACTL_TOKEN   access token printed by "mediactl login"
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/postmedia/internal/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	envPrefix     = "MEDIACTL"
	serverFlag    = "server"
	tokenFlag     = "token"
	defaultServer = "http://127.0.0.1:8080"
)

// apiClient is the part of client.Client the commands use.
type apiClient interface {
	SetToken(token string)
	Register(ctx context.Context, username, password string) (*client.User, error)
	Login(ctx context.Context, username, password string) (*client.Token, error)
	Upload(ctx context.Context, username, title string, description *string, filename string, body io.Reader) (*client.Post, error)
	Fetch(ctx context.Context, username string, postID int64, format string, w io.Writer) (*client.Media, error)
}

var newAPIClient = func(server string) apiClient {
	return client.New(server, nil)
}

type app struct {
	v *viper.Viper
}

// client builds an API client from the resolved server and token settings.
func (a *app) client() apiClient {
	c := newAPIClient(a.v.GetString(serverFlag))
	if tok := a.v.GetString(tokenFlag); tok != "" {
		c.SetToken(tok)
	}
	return c
}

func NewRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "mediactl",
		Short:         "Upload and fetch postmedia videos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String(serverFlag, defaultServer, "postmedia API base URL")
	root.PersistentFlags().String(tokenFlag, "", "access token from \"mediactl login\"")
	_ = v.BindPFlag(serverFlag, root.PersistentFlags().Lookup(serverFlag))
	_ = v.BindPFlag(tokenFlag, root.PersistentFlags().Lookup(tokenFlag))

	a := &app{v: v}
	root.AddCommand(
		newRegisterCommand(a),
		newLoginCommand(a),
		newUploadCommand(a),
		newFetchCommand(a),
	)
	return root
}

// usernameArg returns args[0] or prompts for it.
func usernameArg(cmd *cobra.Command, in *bufio.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return GetSimpleText(in, "Enter user name", cmd.ErrOrStderr())
}

// Execute runs mediactl with os.Args until it finishes or is interrupted and
// returns the process exit status.
func Execute(stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}
