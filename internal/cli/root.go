// Package cli is the taskboard command line: scriptable commands over the
// dashboard controller plus the local dashboard service.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"taskboard/internal/app"
	"taskboard/internal/client"
	"taskboard/internal/config"
	"taskboard/internal/logger"
	"taskboard/internal/render"
	"taskboard/internal/session"

	"github.com/spf13/cobra"
)

// Env carries the global flags and everything derived from them.
type Env struct {
	ConfigPath string
	Format     string
	BaseURL    string
	Debug      bool

	cfg    *config.Config
	format render.Format
}

func NewRootCmd() *cobra.Command {
	env := &Env{}

	cmd := &cobra.Command{
		Use:          "taskboard",
		Short:        "Task board client: list, calendar, review and comments",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Sign in once; the session is kept between runs
  taskboard login --username alice

  # What is due, and what can I do with it
  taskboard tasks list --mine assigned
  taskboard calendar --month 2025-06

  # Serve the dashboard API for the browser page
  taskboard serve
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return env.setup()
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		logger.Sync()
	}

	cmd.PersistentFlags().StringVar(&env.ConfigPath, "config", envOr("TASKBOARD_CONFIG", ""), "Config file (default: <user config dir>/taskboard/config.yaml)")
	cmd.PersistentFlags().StringVar(&env.Format, "format", envOr("TASKBOARD_FORMAT", "table"), "Output format (table|json|yaml)")
	cmd.PersistentFlags().StringVar(&env.BaseURL, "base-url", "", "Backend base URL (overrides backend.base_url)")
	cmd.PersistentFlags().BoolVar(&env.Debug, "debug", false, "Log requests and internals to stderr")

	cmd.AddCommand(newLoginCmd(env))
	cmd.AddCommand(newRegisterCmd(env))
	cmd.AddCommand(newLogoutCmd(env))
	cmd.AddCommand(newMeCmd(env))
	cmd.AddCommand(newTasksCmd(env))
	cmd.AddCommand(newSummaryCmd(env))
	cmd.AddCommand(newCalendarCmd(env))
	cmd.AddCommand(newCommentsCmd(env))
	cmd.AddCommand(newNotificationsCmd(env))
	cmd.AddCommand(newServeCmd(env))
	cmd.AddCommand(newConfigCmd(env))

	return cmd
}

func (env *Env) setup() error {
	cfg, err := config.Load(env.ConfigPath)
	if err != nil {
		return err
	}
	if env.BaseURL != "" {
		cfg.Backend.BaseURL = env.BaseURL
	}
	env.cfg = cfg

	format, err := render.ParseFormat(env.Format)
	if err != nil {
		return err
	}
	env.format = format

	if env.Debug || cfg.Logging.Development {
		return env.initLogger()
	}
	return nil
}

func (env *Env) initLogger() error {
	if err := logger.Init(env.Debug || env.cfg.Logging.Development); err != nil {
		return fmt.Errorf("initialising logger: %w", err)
	}
	return nil
}

// connect builds a backend client carrying the stored session.
func (env *Env) connect() (*client.Client, error) {
	c, err := client.New(env.cfg.Backend.BaseURL,
		client.WithTimeout(env.cfg.Backend.Timeout),
		client.WithRateLimit(env.cfg.Backend.RateLimit, env.cfg.Backend.Burst))
	if err != nil {
		return nil, err
	}
	cookies, err := session.Load(env.cfg.Session.Path, c.BaseURL())
	if err != nil {
		return nil, err
	}
	c.SetCookies(cookies)
	return c, nil
}

func (env *Env) saveSession(c *client.Client) error {
	return session.Save(env.cfg.Session.Path, c.BaseURL(), c.Cookies())
}

// dashboard returns an initialised controller for the signed-in user.
func (env *Env) dashboard(ctx context.Context) (*app.App, error) {
	c, err := env.connect()
	if err != nil {
		return nil, err
	}
	loc, err := env.cfg.Location()
	if err != nil {
		return nil, err
	}
	a := app.New(c,
		app.WithLocation(loc),
		app.WithCommentWorkers(env.cfg.Refresh.CommentWorkers))
	if err := a.Init(ctx); err != nil {
		return nil, notLoggedIn(err)
	}
	return a, nil
}

func notLoggedIn(err error) error {
	if errors.Is(err, app.ErrNotLoggedIn) || client.IsUnauthorized(err) {
		return fmt.Errorf("%w: run `taskboard login` first", app.ErrNotLoggedIn)
	}
	return err
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut prints v as JSON/YAML, or the table rendering for the table format.
func writeOut(cmd *cobra.Command, env *Env, v any, table func() string) error {
	if env.format == render.FormatTable {
		out := table()
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		_, err := fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	}
	return render.Write(cmd.OutOrStdout(), env.format, v)
}
