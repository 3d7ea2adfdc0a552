package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"taskManager/internal/client/api"
	"taskManager/internal/client/session"
	"taskManager/internal/client/storage"
	"taskManager/internal/client/tasks"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"
)

const usage = `usage: tasks [flags] <command> [args]

commands:
  signup                     create an account (--username, --password)
  login                      sign in (--username, --password)
  logout                     sign out and forget the session
  whoami                     show the current session
  list                       list tasks (--status all|active|done, --search text)
  add <title>                add a task (--deadline RFC3339)
  toggle <id>                flip a task between active and done
  edit <id> <title>          rename a task
  deadline <id> <RFC3339|none>
  rm <id>                    delete a task

flags:
`

type options struct {
	apiURL   string
	state    string
	username string
	password string
	status   string
	search   string
	deadline string
}

func main() {
	var opts options
	fs := pflag.NewFlagSet("tasks", pflag.ContinueOnError)
	fs.StringVar(&opts.apiURL, "api", envOr("TASKMANAGER_API", "http://localhost:5000"), "API base URL")
	fs.StringVar(&opts.state, "state", envOr("TASKMANAGER_STATE", defaultStatePath()), "path of the local state file")
	fs.StringVarP(&opts.username, "username", "u", "", "username for signup/login")
	fs.StringVarP(&opts.password, "password", "p", os.Getenv("TASKMANAGER_PASSWORD"), "password for signup/login")
	fs.StringVar(&opts.status, "status", "all", "status filter for list")
	fs.StringVar(&opts.search, "search", "", "title search for list")
	fs.StringVar(&opts.deadline, "deadline", "", "deadline for add (RFC3339)")
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdout, opts, fs.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, opts options, args []string) error {
	store, err := storage.NewFile(opts.state)
	if err != nil {
		return err
	}
	client := api.New(opts.apiURL)
	sessions := session.NewManager(store, client)

	command, params := args[0], args[1:]
	switch command {
	case "signup", "login":
		if opts.username == "" || opts.password == "" {
			return errors.New("--username and --password are required")
		}
		var s session.Session
		if command == "signup" {
			s, err = sessions.Signup(ctx, opts.username, opts.password)
		} else {
			s, err = sessions.Login(ctx, opts.username, opts.password)
		}
		if err != nil {
			return err
		}
		printSession(out, s)
		return nil
	case "logout":
		return sessions.Logout(ctx)
	case "whoami":
		s, ok := sessions.Current()
		if !ok {
			return session.ErrNoSession
		}
		printSession(out, s)
		return nil
	}

	s, ok := sessions.Current()
	if !ok {
		return session.ErrNoSession
	}

	var remote tasks.Remote = client
	if s.Local {
		remote = tasks.NewLocalRemote(store, s.Username)
	}
	list := tasks.NewStore(remote)
	if err := list.Load(ctx); err != nil {
		return err
	}

	switch command {
	case "list":
		all := list.Tasks()
		printTasks(out, tasks.Visible(all, opts.status, opts.search), tasks.Remaining(all))
		return nil
	case "add":
		if len(params) == 0 {
			return errors.New("add needs a title")
		}
		var deadline *time.Time
		if opts.deadline != "" {
			d, err := time.Parse(time.RFC3339, opts.deadline)
			if err != nil {
				return fmt.Errorf("parse --deadline: %w", err)
			}
			deadline = &d
		}
		created, err := list.Add(ctx, strings.Join(params, " "), deadline)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, created.ID)
		return nil
	case "toggle":
		if len(params) != 1 {
			return errors.New("toggle needs a task id")
		}
		return list.Toggle(ctx, params[0])
	case "edit":
		if len(params) < 2 {
			return errors.New("edit needs a task id and a title")
		}
		return list.Edit(ctx, params[0], strings.Join(params[1:], " "))
	case "deadline":
		if len(params) != 2 {
			return errors.New("deadline needs a task id and a time or none")
		}
		var deadline *time.Time
		if params[1] != "none" {
			d, err := time.Parse(time.RFC3339, params[1])
			if err != nil {
				return fmt.Errorf("parse deadline: %w", err)
			}
			deadline = &d
		}
		return list.SetDeadline(ctx, params[0], deadline)
	case "rm":
		if len(params) != 1 {
			return errors.New("rm needs a task id")
		}
		return list.Delete(ctx, params[0])
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func printSession(out io.Writer, s session.Session) {
	mode := "server"
	if s.Local {
		mode = "local (offline)"
	}
	fmt.Fprintf(out, "%s (%s)\n", s.Username, mode)
}

func printTasks(out io.Writer, list []api.Task, remaining int) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tTITLE\tDEADLINE")
	for _, t := range list {
		deadline := "-"
		if t.Deadline != nil {
			deadline = t.Deadline.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Title, deadline)
	}
	tw.Flush()
	fmt.Fprintf(out, "%d remaining\n", remaining)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".taskmanager.json"
	}
	return filepath.Join(dir, "taskmanager", "state.json")
}
