package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/treykane/sshmark/internal/bookmark"
	"github.com/treykane/sshmark/internal/history"
	"github.com/treykane/sshmark/internal/journal"
	"github.com/treykane/sshmark/internal/sshconfig"
)

func newListCmd(a *app) *cobra.Command {
	var recent, jsonOut bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List bookmarks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(store.Entries())
			}
			keys := store.Keys()
			if recent {
				lastUsed, err := history.LastUsed(a.paths)
				if err != nil {
					return err
				}
				keys = history.SortKeysRecent(keys, lastUsed)
			}
			fmt.Fprintln(out, store.Format(keys))
			return nil
		},
	}
	cmd.Flags().BoolVar(&recent, "recent", false, "order by last connection instead of key")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "add <key> <user@host> [ssh-args]",
		Short: "Add a bookmark",
		Long: `Add a bookmark. The optional ssh-args string is split on whitespace and
passed to ssh before the address, e.g.

  sshmark add db bob@10.0.0.9 "-i ~/.ssh/id_rsa -p 2222"`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, addr := args[0], args[1]
			entry := bookmark.NewEntry(addr, args[2:]...)
			if err := bookmark.Validate(key, entry); err != nil {
				return err
			}
			store, err := a.loadStore()
			if err != nil {
				return err
			}
			action := journal.ActionAdded
			if existing, ok := store.Get(key); ok {
				action = journal.ActionOverwritten
				if !yes {
					msg := fmt.Sprintf("A bookmark named %q already exists. Overwrite it?\n%s\n[y/n]: ", key, existing)
					ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), msg)
					if err != nil {
						return err
					}
					if !ok {
						slog.Debug("overwrite declined", "key", key)
						return nil
					}
				}
			}
			store.Put(key, entry)
			if err := store.Save(); err != nil {
				return err
			}
			a.record(journal.Event{Key: key, Action: action, Addr: addr})
			if name := shadowingCommand(cmd.Root(), key); name != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %q is also the %s command; connect with \"sshmark -- %s\"\n", key, name, key)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "overwrite an existing bookmark without asking")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <key>",
		Aliases: []string{"rm"},
		Short:   "Remove a bookmark",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			store, err := a.loadStore()
			if err != nil {
				return err
			}
			entry, ok := store.Remove(key)
			if !ok {
				return &bookmark.NotFoundError{Key: key}
			}
			if err := store.Save(); err != nil {
				return err
			}
			a.record(journal.Event{Key: key, Action: journal.ActionRemoved, Addr: entry.Addr})
			if err := history.Forget(a.paths, key); err != nil {
				slog.Warn("failed to forget history", "key", key, "error", err)
			}
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	var file string
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create bookmarks from the hosts in an OpenSSH config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := file
			if path == "" {
				var err error
				if path, err = sshconfig.DefaultPath(); err != nil {
					return err
				}
			}
			res, err := sshconfig.ImportFile(path)
			if err != nil {
				return err
			}
			store, err := a.loadStore()
			if err != nil {
				return err
			}

			var imported []bookmark.Entry
			var keys []string
			skipped := 0
			for _, h := range res.Hosts {
				if _, exists := store.Get(h.Alias); exists && !overwrite {
					skipped++
					continue
				}
				e := bookmark.Entry{Addr: h.LoginTarget(), Args: h.ClientArgs()}
				if err := bookmark.Validate(h.Alias, e); err != nil {
					res.Warnings = append(res.Warnings, err.Error())
					skipped++
					continue
				}
				store.Put(h.Alias, e)
				imported = append(imported, e)
				keys = append(keys, h.Alias)
			}
			if len(imported) > 0 {
				if err := store.Save(); err != nil {
					return err
				}
			}
			for i, key := range keys {
				a.record(journal.Event{Key: key, Action: journal.ActionImported, Addr: imported[i].Addr, Message: path})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d bookmarks from %s (%d skipped)\n", len(imported), path, skipped)
			if len(res.Warnings) > 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "warnings:")
				for _, w := range res.Warnings {
					fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", w)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "ssh config to read (default ~/.ssh/config)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace bookmarks whose key matches a host alias")
	return cmd
}

// shadowingCommand returns the name of the subcommand that key would run
// instead of connecting, or "" when there is none.
func shadowingCommand(root *cobra.Command, key string) string {
	c, _, err := root.Find([]string{key})
	if err != nil || c == root {
		return ""
	}
	return c.Name()
}

// confirm prints msg and reads one line. Only "y" or "Y" confirms; an empty
// line or end of input declines.
func confirm(in io.Reader, out io.Writer, msg string) (bool, error) {
	if _, err := io.WriteString(out, msg); err != nil {
		return false, err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	return line == "y" || line == "Y", nil
}
