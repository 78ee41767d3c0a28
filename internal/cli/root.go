// Package cli implements kzadmin, the command line client of the KickZone
// admin API. It shares the API client, permission model and resource services
// with the web console and keeps its session in a JSON file.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
	"github.com/kickzone/kickzone-admin/internal/app"
	"github.com/kickzone/kickzone-admin/internal/rbac"
)

const defaultAPI = "http://localhost:8000/api"

var (
	errNotLoggedIn = errors.New("not logged in; run `kzadmin login`")
	errNeedsYes    = errors.New("refusing to continue without confirmation; pass --yes")
	errAborted     = errors.New("aborted")
)

// Streams are the standard streams of one invocation.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

type options struct {
	api       string
	session   string
	logLevel  string
	logFormat string
	timeout   time.Duration
	debug     bool
	yes       bool
	json      bool
}

// runtime carries what every command needs once flags are parsed.
type runtime struct {
	opts    options
	streams Streams
	logger  *slog.Logger
	store   *FileStore
	client  *apiclient.Client
	input   *bufio.Reader
}

// NewRootCmd builds the kzadmin command tree.
func NewRootCmd(streams Streams) *cobra.Command {
	rt := &runtime{streams: streams}

	root := &cobra.Command{
		Use:   "kzadmin",
		Short: "KickZone platform administration",
		Long:  "kzadmin manages KickZone users, managers, staff, categories, events and popular grounds through the admin API.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if rt.store != nil {
				return rt.store.Err()
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)

	flags := root.PersistentFlags()
	flags.StringVar(&rt.opts.api, "api", defaultAPIURL(), "Backend API base URL (or API_BASE_URL env)")
	flags.StringVar(&rt.opts.session, "session", "", "Session file (default ~/.kickzone/session.json)")
	flags.StringVar(&rt.opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringVar(&rt.opts.logFormat, "log-format", "text", "Log format (text, json)")
	flags.DurationVar(&rt.opts.timeout, "timeout", 15*time.Second, "Backend request timeout")
	flags.BoolVar(&rt.opts.debug, "debug", false, "Enable debug logging")
	flags.BoolVarP(&rt.opts.yes, "yes", "y", false, "Do not ask for confirmation")
	flags.BoolVar(&rt.opts.json, "json", false, "Print JSON instead of tables")

	root.AddCommand(
		newLoginCmd(rt),
		newLogoutCmd(rt),
		newWhoamiCmd(rt),
		newDashboardCmd(rt),
		newUsersCmd(rt),
		newManagersCmd(rt),
		newStaffCmd(rt),
		newCategoriesCmd(rt),
		newEventsCmd(rt),
		newGroundsCmd(rt),
		newBroadcastCmd(rt),
		newImageCmd(rt),
	)
	return root
}

// Execute runs kzadmin with args and returns the process exit code.
func Execute(ctx context.Context, args []string, streams Streams) int {
	root := NewRootCmd(streams)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(streams.Err, "Error:", describe(err))
		return 1
	}
	return 0
}

func describe(err error) string {
	switch {
	case errors.Is(err, apiclient.ErrSessionExpired):
		return "session expired; run `kzadmin login`"
	case errors.Is(err, rbac.ErrUnauthenticated):
		return errNotLoggedIn.Error()
	}
	var ce *commandError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	return message(err)
}

// commandError names the action that failed, e.g. "failed to delete
// category: Category is in use".
type commandError struct {
	action string
	err    error
}

func (e *commandError) Error() string { return "failed to " + e.action + ": " + message(e.err) }

func (e *commandError) Unwrap() error { return e.err }

func failed(action string, err error) error {
	if err == nil {
		return nil
	}
	return &commandError{action: action, err: err}
}

// message prefers the backend's own explanation of an API error.
func message(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("backend answered %d %s", apiErr.StatusCode, http.StatusText(apiErr.StatusCode))
	}
	return err.Error()
}

func defaultAPIURL() string {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		return v
	}
	return defaultAPI
}

func (rt *runtime) init() error {
	level := app.ParseLevel(rt.opts.logLevel)
	if rt.opts.debug {
		level = slog.LevelDebug
	}
	rt.logger = app.NewLoggerWithWriter(rt.streams.Err, rt.opts.logFormat, level, false)

	path := rt.opts.session
	if path == "" {
		var err error
		if path, err = DefaultSessionPath(); err != nil {
			return err
		}
	}
	store, err := OpenFileStore(path)
	if err != nil {
		return err
	}
	rt.store = store
	rt.client = apiclient.New(rt.opts.api, rt.opts.timeout, apiclient.WithLogger(rt.logger.With("component", "apiclient")))
	rt.logger.Debug("kzadmin ready", slog.String("api", rt.opts.api), slog.String("session", path))
	return nil
}

// ctx binds the session file to the command context so API calls carry the
// stored bearer token.
func (rt *runtime) ctx(cmd *cobra.Command) context.Context {
	return apiclient.ContextWithTokens(cmd.Context(), rt.store)
}

// require loads the signed-in profile and checks it holds at least one of
// perms. Without perms only system administrators pass.
func (rt *runtime) require(perms ...rbac.Permission) (rbac.Profile, error) {
	profile, err := rbac.LoadProfile(rt.store)
	if err != nil {
		return rbac.Profile{}, errNotLoggedIn
	}
	if len(perms) == 0 {
		if !profile.IsSystemAdmin() {
			return profile, errors.New("permission denied: system administrators only")
		}
		return profile, nil
	}
	if !profile.HasAny(perms...) {
		labels := make([]string, 0, len(perms))
		for _, p := range perms {
			labels = append(labels, p.Label())
		}
		return profile, fmt.Errorf("permission denied: requires %s", strings.Join(labels, " or "))
	}
	return profile, nil
}

// interactive reports whether prompts can be answered. Non-file readers are
// treated as interactive so scripted input works.
func (rt *runtime) interactive() bool {
	f, ok := rt.streams.In.(*os.File)
	if !ok {
		return true
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
