// Command taskctl is a terminal front end for the TaskMaster API.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/user/taskmaster-go/auth"
	"github.com/user/taskmaster-go/client"
	"github.com/user/taskmaster-go/tasks"
)

const defaultAPI = "http://localhost:8080"

func main() {
	// a missing .env is normal for a CLI
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "taskctl",
		Usage: "manage your TaskMaster tasks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Value:   defaultAPI,
				EnvVars: []string{"TASKMASTER_API"},
				Usage:   "base URL of the TaskMaster API",
			},
			&cli.StringFlag{
				Name:    "token-file",
				EnvVars: []string{"TASKMASTER_TOKEN_FILE"},
				Usage:   "where the session token is kept (default: user config dir)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "register",
				Usage: "create an account and log in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "password-confirmation", Usage: "defaults to --password"},
				},
				Action: register,
			},
			{
				Name:  "login",
				Usage: "log in and store the token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: login,
			},
			{Name: "logout", Usage: "revoke the stored token", Action: logout},
			{Name: "profile", Usage: "show the logged-in user", Action: profile},
			{Name: "list", Aliases: []string{"ls"}, Usage: "list tasks, newest first", Action: list},
			{Name: "show", Usage: "show one task", ArgsUsage: "ID", Action: show},
			{
				Name:   "add",
				Usage:  "create a task",
				Flags:  taskFlags(true),
				Action: add,
			},
			{
				Name:      "edit",
				Usage:     "change fields of a task",
				ArgsUsage: "ID",
				Flags:     taskFlags(false),
				Action:    edit,
			},
			{Name: "toggle", Usage: "flip a task between pending and completed", ArgsUsage: "ID", Action: toggle},
			{Name: "rm", Usage: "delete a task", ArgsUsage: "ID", Action: remove},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func taskFlags(create bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Required: create},
		&cli.StringFlag{Name: "description", Usage: "empty string clears it"},
		&cli.StringFlag{Name: "due", Usage: "due date as YYYY-MM-DD, empty string clears it"},
		&cli.StringFlag{Name: "status", Usage: "pending or completed"},
	}
}

// env is what every command needs.
type env struct {
	client  *client.Client
	tokens  client.TokenStore
	session *client.Session
}

func newEnv(c *cli.Context) (*env, error) {
	path := c.String("token-file")
	if path == "" {
		var err error
		path, err = client.DefaultTokenPath()
		if err != nil {
			return nil, fmt.Errorf("locate token file: %w", err)
		}
	}
	tokens := &client.FileTokenStore{Path: path}
	api := client.New(c.String("api"), tokens)
	return &env{client: api, tokens: tokens, session: client.NewSession(api, tokens)}, nil
}

func (e *env) board() *client.Board {
	return client.NewBoard(e.client, e.tokens)
}

func register(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	confirmation := c.String("password-confirmation")
	if !c.IsSet("password-confirmation") {
		confirmation = c.String("password")
	}
	user, err := e.session.Register(c.Context, auth.RegisterRequest{
		Name:                 c.String("name"),
		Email:                c.String("email"),
		Password:             c.String("password"),
		PasswordConfirmation: confirmation,
	})
	if err != nil {
		return e.fail(err)
	}
	fmt.Fprintf(c.App.Writer, "Registered and logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func login(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	user, err := e.session.Login(c.Context, c.String("email"), c.String("password"))
	if err != nil {
		return e.fail(err)
	}
	fmt.Fprintf(c.App.Writer, "Logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func logout(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	if err := e.session.Logout(c.Context); err != nil && !errors.Is(err, client.ErrUnauthenticated) {
		return e.fail(err)
	}
	fmt.Fprintln(c.App.Writer, auth.MsgLoggedOut)
	return nil
}

func profile(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	user, err := e.client.Profile(c.Context)
	if err != nil {
		return e.fail(err)
	}
	fmt.Fprintf(c.App.Writer, "%s <%s>\nmember since %s\n", user.Name, user.Email, user.CreatedAt.Format("2006-01-02"))
	return nil
}

func list(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	board := e.board()
	if err := board.Mount(c.Context); err != nil {
		return e.fail(err)
	}
	if len(board.Tasks) == 0 {
		fmt.Fprintln(c.App.Writer, "No tasks.")
		return nil
	}
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tDUE\tTITLE")
	for _, t := range board.Tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.ID, t.Status, dueString(t), t.Title)
	}
	return tw.Flush()
}

func show(c *cli.Context) error {
	e, id, err := envWithID(c)
	if err != nil {
		return err
	}
	task, err := e.client.GetTask(c.Context, id)
	if err != nil {
		return e.fail(err)
	}
	printTask(c, task)
	return nil
}

func add(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	board := e.board()
	applyTaskFlags(c, &board.Draft)
	if err := board.Save(c.Context); err != nil {
		return e.fail(err)
	}
	fmt.Fprintln(c.App.Writer, "Task created successfully")
	return nil
}

func edit(c *cli.Context) error {
	e, id, err := envWithID(c)
	if err != nil {
		return err
	}
	task, err := e.client.GetTask(c.Context, id)
	if err != nil {
		return e.fail(err)
	}
	board := e.board()
	board.Edit(*task)
	applyTaskFlags(c, &board.Draft)
	if err := board.Save(c.Context); err != nil {
		return e.fail(err)
	}
	if updated, ok := board.Find(id); ok {
		printTask(c, &updated)
	}
	return nil
}

func toggle(c *cli.Context) error {
	e, id, err := envWithID(c)
	if err != nil {
		return err
	}
	task, err := e.client.GetTask(c.Context, id)
	if err != nil {
		return e.fail(err)
	}
	board := e.board()
	if err := board.ToggleStatus(c.Context, *task); err != nil {
		return e.fail(err)
	}
	fmt.Fprintf(c.App.Writer, "Task %d is now %s\n", id, task.Status.Toggle())
	return nil
}

func remove(c *cli.Context) error {
	e, id, err := envWithID(c)
	if err != nil {
		return err
	}
	if err := e.board().Delete(c.Context, id); err != nil {
		return e.fail(err)
	}
	fmt.Fprintln(c.App.Writer, "Task deleted successfully")
	return nil
}

func envWithID(c *cli.Context) (*env, int64, error) {
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return nil, 0, cli.Exit("a positive task ID is required", 2)
	}
	e, err := newEnv(c)
	if err != nil {
		return nil, 0, err
	}
	return e, id, nil
}

// applyTaskFlags copies the flags that were given onto req.
func applyTaskFlags(c *cli.Context, req *tasks.TaskRequest) {
	if c.IsSet("title") {
		req.Title = c.String("title")
	}
	if c.IsSet("description") {
		req.Description = optional(c.String("description"))
	}
	if c.IsSet("due") {
		req.DueDate = optional(c.String("due"))
	}
	if c.IsSet("status") {
		req.Status = c.String("status")
	}
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// fail turns API errors into readable exit errors. Unauthenticated failures
// also drop the stored token.
func (e *env) fail(err error) error {
	if errors.Is(err, client.ErrUnauthenticated) {
		_ = e.tokens.Clear()
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Message == auth.MsgInvalidCredentials {
			return cli.Exit(apiErr.Message, 1)
		}
		return cli.Exit("Not logged in or session expired; log in again with `taskctl login`.", 1)
	}

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	var b strings.Builder
	b.WriteString(apiErr.Message)
	fields := make([]string, 0, len(apiErr.Errors))
	for field := range apiErr.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		for _, msg := range apiErr.Errors[field] {
			fmt.Fprintf(&b, "\n  %s: %s", field, msg)
		}
	}
	return cli.Exit(b.String(), 1)
}

func dueString(t tasks.Task) string {
	if t.DueDate == nil {
		return "-"
	}
	return t.DueDate.String()
}

func printTask(c *cli.Context, t *tasks.Task) {
	w := c.App.Writer
	fmt.Fprintf(w, "#%d %s\n", t.ID, t.Title)
	fmt.Fprintf(w, "status:  %s\n", t.Status)
	fmt.Fprintf(w, "due:     %s\n", dueString(*t))
	if t.Description != nil {
		fmt.Fprintf(w, "\n%s\n", *t.Description)
	}
}
