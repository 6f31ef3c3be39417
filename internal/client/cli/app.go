// Package cli implements the microauth command-line client: register,
// sign-in, and check subcommands against a running service.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dmitrijs2005/microauth/internal/client"
)

type App struct {
	client *client.Client
	in     *bufio.Reader
	out    io.Writer
}

func NewApp(c *client.Client, in io.Reader, out io.Writer) *App {
	return &App{client: c, in: bufio.NewReader(in), out: out}
}

// Run dispatches a subcommand. Usage:
//
//	register [username]   sign up a new user
//	sign-in  [username]   authenticate and print the token
//	check    [username]   report whether the username is taken
//
// When username is omitted, it is prompted for; the password is always
// prompted without echo.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: register|sign-in|check [username]")
	}

	cmd := args[0]
	var username string
	if len(args) > 1 {
		username = args[1]
	}

	switch cmd {
	case "register":
		return a.register(ctx, username)
	case "sign-in":
		return a.signIn(ctx, username)
	case "check":
		return a.check(ctx, username)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *App) promptUsername(username string) (string, error) {
	if username != "" {
		return username, nil
	}
	return getSimpleText(a.in, "Username", a.out)
}

func (a *App) register(ctx context.Context, username string) error {
	username, err := a.promptUsername(username)
	if err != nil {
		return err
	}
	pw, err := getPassword(a.out)
	if err != nil {
		return err
	}

	view, err := a.client.Register(ctx, username, pw)
	if err != nil {
		return err
	}
	return a.printView(view)
}

func (a *App) signIn(ctx context.Context, username string) error {
	username, err := a.promptUsername(username)
	if err != nil {
		return err
	}
	pw, err := getPassword(a.out)
	if err != nil {
		return err
	}

	view, err := a.client.SignIn(ctx, username, pw)
	if err != nil {
		return err
	}
	return a.printView(view)
}

func (a *App) check(ctx context.Context, username string) error {
	username, err := a.promptUsername(username)
	if err != nil {
		return err
	}

	exists, err := a.client.CheckUsername(ctx, username)
	if err != nil {
		return err
	}

	if exists {
		fmt.Fprintf(a.out, "username '%s' is taken\n", username)
	} else {
		fmt.Fprintf(a.out, "username '%s' is available\n", username)
	}
	return nil
}

func (a *App) printView(view map[string]any) error {
	b, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, string(b))
	return nil
}
