package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rdo34/phonebook/internal/app"
	"github.com/rdo34/phonebook/internal/config"
	"github.com/rdo34/phonebook/internal/logger"
	"github.com/rdo34/phonebook/internal/model"
	"github.com/rdo34/phonebook/internal/session"
	"github.com/rdo34/phonebook/internal/store"
	"github.com/rdo34/phonebook/internal/ui"
)

// env is what every subcommand runs against, built once flags are parsed.
type env struct {
	cfg  *config.Config
	log  *zap.Logger
	book *app.Book
}

func newRootCmd(in io.Reader) *cobra.Command {
	var (
		configFile string
		e          env
	)

	root := &cobra.Command{
		Use:          "phonebook",
		Short:        "Contact book kept in a CSV file",
		Long:         "Run without arguments to start the interactive menu.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsBook(cmd) {
				return nil
			}
			v := config.New(configFile)
			for _, name := range []string{"file", "page_size"} {
				if err := v.BindPFlag(name, cmd.Flags().Lookup(strings.ReplaceAll(name, "_", "-"))); err != nil {
					return err
				}
			}
			if err := v.BindPFlag("log.level", cmd.Flags().Lookup("log-level")); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			st, err := store.NewCSVStore(cfg.File)
			if err != nil {
				return err
			}
			book := app.New(st, log)
			if err := book.Load(); err != nil {
				return err
			}
			e = env{cfg: cfg, log: log, book: book}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.log != nil {
				_ = e.log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return session.New(e.book, e.cfg.PageSize, in, cmd.OutOrStdout(), e.log).Run()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default: ./config.yaml or ~/.config/phonebook/config.yaml)")
	pf.String("file", "", "phonebook CSV file (default: <data dir>/phonebook.csv)")
	pf.Int("page-size", 10, "records per page")
	pf.String("log-level", "warn", "debug|info|warn|error")

	root.AddCommand(
		newAddCmd(&e),
		newListCmd(&e),
		newEditCmd(&e),
		newSearchCmd(&e),
		newTUICmd(&e),
	)
	return root
}

// needsBook is false for cobra's own help and completion commands, which must
// not touch the data file.
func needsBook(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		name := c.Name()
		if name == "help" || name == "completion" || strings.HasPrefix(name, "__complete") {
			return false
		}
	}
	return true
}

func flagName(field string) string { return strings.ReplaceAll(field, "_", "-") }

func newAddCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := make(map[string]string, len(model.Fields))
			for _, f := range model.Fields {
				v, _ := cmd.Flags().GetString(flagName(f))
				fields[f] = model.Sanitize(v)
			}
			e.book.Add(fields)
			if err := e.book.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", e.book.Len(), e.book.Records[e.book.Len()-1])
			return nil
		},
	}
	for _, f := range model.Fields {
		cmd.Flags().String(flagName(f), "", model.Label(f))
	}
	return cmd
}

func newListCmd(e *env) *cobra.Command {
	var (
		page    int
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of records (--page 0 prints all)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows []app.Row
			if page == 0 {
				for i, r := range e.book.Records {
					rows = append(rows, app.Row{Index: i + 1, Record: r})
				}
			} else {
				p, err := e.book.Paginate(e.cfg.PageSize, page)
				if err == app.ErrEmpty {
					fmt.Fprintln(cmd.OutOrStdout(), "No data in the phonebook.")
					return nil
				}
				if err != nil {
					return fmt.Errorf("page %d: %w (pages: 1-%d)", page, err, p.Total)
				}
				rows = p.Rows
			}
			if jsonOut {
				type J struct {
					Index int `json:"index"`
					model.Record
				}
				out := make([]J, 0, len(rows))
				for _, r := range rows {
					out = append(out, J{Index: r.Index, Record: r.Record})
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			for _, r := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", r.Index, r.Record)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}

func newEditCmd(e *env) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Edit fields of the record at a 1-based index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			if len(sets) == 0 {
				return fmt.Errorf("--set is required")
			}
			values := make(map[string]string, len(sets))
			for _, s := range sets {
				field, value, ok := strings.Cut(s, "=")
				if !ok {
					return fmt.Errorf("invalid --set %q, expected field=value", s)
				}
				values[strings.TrimSpace(field)] = model.Sanitize(value)
			}
			if err := e.book.EditFields(idx, values); err != nil {
				return fmt.Errorf("edit %d: %w", idx, err)
			}
			return e.book.Save()
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value (repeatable); fields: "+strings.Join(model.Fields, ", "))
	return cmd
}

func newSearchCmd(e *env) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Case-insensitive substring search over every field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := e.book.Search(args[0])
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Record not found")
				return nil
			}
			for _, r := range results {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}

func newTUICmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Full-screen browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ui.New(e.book, e.cfg.PageSize, e.log).Run()
		},
	}
}
