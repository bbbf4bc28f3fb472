package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/treykane/sshmark/internal/doctor"
	"github.com/treykane/sshmark/internal/history"
	"github.com/treykane/sshmark/internal/journal"
	"github.com/treykane/sshmark/internal/ui"
	"github.com/treykane/sshmark/internal/util"
)

func newPickCmd(a *app) *cobra.Command {
	var opts connectOptions
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose a bookmark interactively and connect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadStore()
			if err != nil {
				return err
			}
			if store.Len() == 0 {
				return errors.New("no bookmarks yet; add one with `sshmark add`")
			}
			lastUsed, err := history.LastUsed(a.paths)
			if err != nil {
				return err
			}
			key, err := ui.Pick(store, history.SortKeysRecent(store.Keys(), lastUsed))
			if err != nil {
				return err
			}
			if key == "" {
				return nil
			}
			return a.connect(cmd, key, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.wait, "wait", false, "run ssh as a child process and wait for it")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the ssh command line instead of running it")
	return cmd
}

func newDoctorCmd(a *app) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the ssh client, the bookmarks document and file permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := doctor.Run(a.paths)
			out := cmd.OutOrStdout()
			if jsonOut {
				if report.Issues == nil {
					report.Issues = []doctor.Issue{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			if len(report.Issues) == 0 {
				fmt.Fprintln(out, "no issues found")
				return nil
			}
			for _, issue := range report.Issues {
				fmt.Fprintf(out, "[%s] %s %s: %s\n", strings.ToUpper(string(issue.Severity)), issue.Check, issue.Target, issue.Message)
				fmt.Fprintf(out, "    -> %s\n", issue.Recommendation)
			}
			if report.ExposedFiles {
				fmt.Fprintln(out, "\nother users can modify sshmark files; a changed bookmark runs ssh with their arguments")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}

func newLogCmd(a *app) *cobra.Command {
	var (
		key     string
		action  string
		limit   int
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent bookmark changes and connections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := a.journal.Read(journal.Query{Key: key, Action: journal.Action(action), Limit: limit})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOut {
				if events == nil {
					events = []journal.Event{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(events)
			}
			for _, evt := range events {
				fmt.Fprintf(out, "%-19s %-12s %-16s %s\n", evt.Timestamp.Local().Format(time.DateTime), evt.Action, evt.Key, util.EmptyDash(evt.Addr))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "only events for this bookmark")
	cmd.Flags().StringVar(&action, "action", "", "only events with this action (added, overwritten, removed, connected, imported)")
	cmd.Flags().IntVar(&limit, "limit", 20, "show at most this many of the latest events (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}
