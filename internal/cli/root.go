// Package cli provides the command-line interface for sshmark.
package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/treykane/sshmark/internal/appconfig"
	"github.com/treykane/sshmark/internal/bookmark"
	"github.com/treykane/sshmark/internal/history"
	"github.com/treykane/sshmark/internal/journal"
	"github.com/treykane/sshmark/internal/launch"
)

// app carries the per-invocation state shared by every command. It is
// filled in by the root command's PersistentPreRunE.
type app struct {
	launcher launch.Launcher
	cfg      appconfig.Config
	paths    appconfig.Paths
	journal  *journal.Store
	verbose  bool
}

type connectOptions struct {
	wait   bool
	dryRun bool
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(launch.New())
}

func newRootCommand(l launch.Launcher) *cobra.Command {
	a := &app{launcher: l}
	var opts connectOptions

	root := &cobra.Command{
		Use:   "sshmark <key>",
		Short: "Bookmarks for ssh logins",
		Long: `sshmark maps short keys to ssh login targets plus extra ssh arguments.

Running "sshmark <key>" replaces sshmark with ssh, passing the stored
arguments followed by the stored address. A key that is also a command
name (list, add, help, ...) is reached with "sshmark -- <key>".`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.connect(cmd, args[0], opts)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging on stderr")
	root.Flags().BoolVar(&opts.wait, "wait", false, "run ssh as a child process and wait for it instead of replacing sshmark")
	root.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the ssh command line instead of running it")

	root.AddCommand(newListCmd(a))
	root.AddCommand(newAddCmd(a))
	root.AddCommand(newRemoveCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newPickCmd(a))
	root.AddCommand(newDoctorCmd(a))
	root.AddCommand(newLogCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := appconfig.Load()
	if err != nil {
		return err
	}
	level := cfg.Level()
	if a.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	paths, err := cfg.Paths()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.paths = paths
	a.journal = journal.NewStore(paths, cfg.Journal)
	slog.Debug("resolved data paths", "data_home", paths.DataHome, "data_dirs", paths.DataDirs)
	return nil
}

func (a *app) loadStore() (*bookmark.Store, error) {
	return bookmark.Load(a.paths)
}

// connect takes the bookmark out of the in-memory store and hands its argv
// to the launcher. The store is not saved: the document on disk keeps the
// bookmark.
func (a *app) connect(cmd *cobra.Command, key string, opts connectOptions) error {
	store, err := a.loadStore()
	if err != nil {
		return err
	}
	entry, ok := store.Remove(key)
	if !ok {
		return &bookmark.NotFoundError{Key: key}
	}
	argv, err := entry.Argv()
	if err != nil {
		return fmt.Errorf("bookmark %q: %w", key, err)
	}
	if opts.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), shellJoin(launch.Command(argv)))
		return nil
	}

	if err := history.Touch(a.paths, key); err != nil {
		slog.Warn("failed to record history", "key", key, "error", err)
	}
	a.record(journal.Event{Key: key, Action: journal.ActionConnected, Addr: entry.Addr})

	slog.Debug("launching client", "key", key, "argv", argv, "wait", opts.wait)
	if opts.wait {
		return a.launcher.Spawn(cmd.Context(), argv)
	}
	return a.launcher.Exec(argv)
}

func (a *app) record(evt journal.Event) {
	if err := a.journal.Append(evt); err != nil {
		slog.Warn("failed to append journal event", "key", evt.Key, "action", evt.Action, "error", err)
	}
}

// shellJoin renders argv for display, single-quoting words a POSIX shell
// would split or expand.
func shellJoin(argv []string) string {
	out := make([]string, len(argv))
	for i, s := range argv {
		if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`*?[]{}()<>|&;#~!") {
			out[i] = s
			continue
		}
		out[i] = "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return strings.Join(out, " ")
}
