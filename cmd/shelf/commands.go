package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/five82/shelf/internal/app"
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/config"
)

const checkoutLayout = "Jan 02 2006 03:04 PM"

type rootFlags struct {
	configPath string
	apiURL     string
	refresh    int
	prefsPath  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "shelf",
		Short:         "Terminal client for a book-lending catalog",
		Long:          "shelf browses and edits a remote book-lending catalog. Run without a subcommand for the interactive view.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("stdout is not a terminal; use `shelf list` for plain output")
			}
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), app.Options{Config: cfg, PrefsPath: flags.prefsPath})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to config.toml (default ~/.config/shelf/config.toml)")
	pf.StringVar(&flags.apiURL, "api-url", "", "lending API base URL")
	pf.IntVar(&flags.refresh, "refresh", 0, "auto refresh interval in seconds, 0 disables")
	root.Flags().StringVar(&flags.prefsPath, "prefs", "", "path to prefs.toml (default ~/.config/shelf/prefs.toml)")

	root.AddCommand(
		newListCmd(flags),
		newAddCmd(flags),
		newCheckoutCmd(flags),
		newDeleteCmd(flags),
		newCleanCmd(flags),
	)
	return root
}

// loadConfig reads the config file and applies flags the user set explicitly.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("api-url") {
		cfg.APIURL = strings.TrimSpace(flags.apiURL)
	}
	if cmd.Flags().Changed("refresh") {
		cfg.RefreshSeconds = flags.refresh
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func withSession(cmd *cobra.Command, flags *rootFlags, fn func(ctx context.Context, s *app.Session) error) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	session, err := app.Open(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()
	return fn(cmd.Context(), session)
}

func newListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, flags, func(ctx context.Context, s *app.Session) error {
				if err := s.Refresh(ctx); err != nil {
					return err
				}
				printBooks(cmd.OutOrStdout(), s.Manager().Snapshot().Books)
				return nil
			})
		},
	}
}

func newAddCmd(flags *rootFlags) *cobra.Command {
	var book catalog.NewBook

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			book = catalog.NewBook{
				Title:      strings.TrimSpace(book.Title),
				Author:     strings.TrimSpace(book.Author),
				Publisher:  strings.TrimSpace(book.Publisher),
				Categories: strings.TrimSpace(book.Categories),
			}
			if missing := missingFields(book); len(missing) > 0 {
				return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
			}
			return withSession(cmd, flags, func(ctx context.Context, s *app.Session) error {
				created, err := s.Add(ctx, book)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added book %d: %s\n", created.ID, created.Title)
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&book.Title, "title", "", "book title")
	f.StringVar(&book.Author, "author", "", "book author")
	f.StringVar(&book.Publisher, "publisher", "", "book publisher")
	f.StringVar(&book.Categories, "categories", "", "comma separated tags")
	return cmd
}

func newCheckoutCmd(flags *rootFlags) *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "checkout <id>",
		Short: "Check out a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			name := strings.TrimSpace(by)
			if name == "" {
				return errors.New("missing required flag: by")
			}
			return withSession(cmd, flags, func(ctx context.Context, s *app.Session) error {
				if err := s.Refresh(ctx); err != nil {
					return err
				}
				updated, err := s.CheckoutByID(ctx, id, name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Checked out book %d to %s\n", updated.ID, name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "name of the borrower")
	return cmd
}

func newDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, flags, func(ctx context.Context, s *app.Session) error {
				if err := s.Refresh(ctx); err != nil {
					return err
				}
				if err := s.DeleteByID(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted book %d\n", id)
				return nil
			})
		},
	}
}

func newCleanCmd(flags *rootFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete every book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure to delete all books?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}
			return withSession(cmd, flags, func(ctx context.Context, s *app.Session) error {
				if err := s.DeleteAll(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All books deleted")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// confirm asks a yes/no question on a terminal. Without one it refuses so
// scripts must pass --yes.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return false, errors.New("refusing to delete all books without a terminal; pass --yes")
	}
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func printBooks(w io.Writer, books []catalog.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books.")
		return
	}

	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{
			strconv.Itoa(b.ID),
			b.Title,
			b.Author,
			b.Publisher,
			b.Categories,
			status(b),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TITLE", "AUTHOR", "PUBLISHER", "TAGS", "STATUS").
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

func status(b catalog.Book) string {
	if b.Available() {
		return "available"
	}
	return fmt.Sprintf("%s @ %s", b.LastCheckout.By, b.LastCheckout.At.Local().Format(checkoutLayout))
}

func missingFields(b catalog.NewBook) []string {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"title", b.Title},
		{"author", b.Author},
		{"publisher", b.Publisher},
		{"categories", b.Categories},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid book id %q", raw)
	}
	return id, nil
}
