// Package cli implements the healthlog command-line client: session
// commands (register, login, logout), the launch status check, and the
// active-profile selection.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/healthlog/internal/client/api"
	"github.com/dmitrijs2005/healthlog/internal/client/config"
	"github.com/dmitrijs2005/healthlog/internal/client/session"
)

// App bundles the client collaborators behind the commands. It is created
// at process start and torn down at exit.
type App struct {
	config *config.Config
	api    *api.Client
	store  *session.Store
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(cfg *config.Config, store *session.Store, in io.Reader, out io.Writer) *App {
	return &App{
		config: cfg,
		api:    api.NewClient(cfg.ServerBaseURL),
		store:  store,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run dispatches a single command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return fmt.Errorf("no command given")
	}

	switch args[0] {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "status":
		return a.Status(ctx)
	case "use-profile":
		if len(args) < 2 {
			return fmt.Errorf("usage: use-profile <profile-id>")
		}
		return a.UseProfile(ctx, args[1])
	default:
		a.usage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.out, `Usage: healthlog-client [flags] <command>

Commands:
  register              create an account and start a session
  login                 sign in and store the session
  logout                revoke the stored session
  status                check whether the stored session is still usable
  use-profile <id>      remember the active profile`)
}
