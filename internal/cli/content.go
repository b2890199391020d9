package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/itsuki/garden/pkg/config"
	"github.com/itsuki/garden/pkg/content"
	"github.com/itsuki/garden/pkg/errors"
)

// contentCommand groups the content collection subcommands.
func (c *CLI) contentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Validate and query content collections",
		Long: `Validate and query the site's content collections.

A content directory holds one subdirectory per collection (blog, photos,
videos, now, archive, about, study, tools). Markdown files carry YAML front
matter; YAML and JSON files are the whole document. Files starting with an
underscore are ignored.`,
	}
	cmd.AddCommand(c.contentValidateCommand())
	cmd.AddCommand(c.contentListCommand())
	cmd.AddCommand(c.contentShowCommand())
	return cmd
}

func (c *CLI) contentValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dir]",
		Short: "Check every collection against its schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runContentValidate(cmd.Context(), c.contentDir(args))
		},
	}
}

// contentDir is the first argument or the server's configured content root.
func (c *CLI) contentDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return c.Config.Server.Content
}

func (c *CLI) runContentValidate(ctx context.Context, dir string) error {
	prog := newProgress(c.Logger)
	lib, err := content.LoadAll(ctx, dir)
	if lib == nil {
		return err
	}

	failures := splitErrors(err)
	for _, f := range failures {
		printFailure(f)
	}
	if len(failures) > 0 {
		printNewline()
	}

	for _, col := range content.Collections {
		printKeyValue(string(col), fmt.Sprintf("%d", len(lib[col])))
	}
	printNewline()
	prog.done(fmt.Sprintf("Validated %d entries", lib.Count()))

	if len(failures) > 0 {
		return errors.New(errors.ErrCodeInvalidSchema, "%d content files failed validation", len(failures))
	}
	printSuccess("All content in %s is valid", dir)
	return nil
}

// splitErrors flattens joined errors into one error per failed file.
func splitErrors(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range j.Unwrap() {
			out = append(out, splitErrors(e)...)
		}
		return out
	}
	return []error{err}
}

// printFailure prints a file's schema issues one per line.
func printFailure(err error) {
	var issues *errors.Issues
	if !errors.As(err, &issues) {
		printError("%s", err)
		return
	}
	printError("%s", issues.Source)
	for _, msg := range issues.List {
		printDetail("%s", msg)
	}
}

// =============================================================================
// Listing
// =============================================================================

type listFlags struct {
	lang     string
	featured bool
	asJSON   bool
}

func (c *CLI) contentListCommand() *cobra.Command {
	var f listFlags

	cmd := &cobra.Command{
		Use:   "list [collection] [dir]",
		Short: "List the valid entries of a collection, newest first",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := content.ParseCollection(args[0])
			if err != nil {
				return err
			}
			return c.runContentList(cmd.Context(), c.contentDir(args[1:]), col, f)
		},
	}

	cmd.Flags().StringVar(&f.lang, "lang", "", "only entries in this language (ja, en)")
	cmd.Flags().BoolVar(&f.featured, "featured", false, "only featured entries")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print entries as JSON")

	return cmd
}

func (c *CLI) runContentList(ctx context.Context, dir string, col content.Collection, f listFlags) error {
	if f.lang != "" && !config.ValidLang(f.lang) {
		return errors.New(errors.ErrCodeInvalidInput, "unsupported language %q", f.lang)
	}

	entries, err := content.LoadCollection(ctx, dir, col)
	for _, e := range splitErrors(err) {
		c.Logger.Warn("skipping invalid entry", "error", e)
	}
	if f.lang != "" {
		entries = content.Filter(entries, content.ByLang(f.lang))
	}
	if f.featured {
		entries = content.Filter(entries, content.IsFeatured)
	}
	content.SortByDate(entries)

	if f.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		printInfo("No %s entries", col)
		return nil
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		lang := e.Lang()
		if lang == "" {
			lang = "—"
		}
		rows[i] = []string{e.Slug, e.Title(f.lang), e.Date(), lang}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Slug", "Title", "Date", "Lang").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 2 || col == 3 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	fmt.Println(t.Render())
	printDetail("%d %s entries", len(entries), col)
	return nil
}

func (c *CLI) contentShowCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "show [collection] [slug] [dir]",
		Short: "Render an entry's Markdown body to HTML",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := content.ParseCollection(args[0])
			if err != nil {
				return err
			}
			return c.runContentShow(cmd.Context(), c.contentDir(args[2:]), col, args[1], noCache)
		},
	}
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func (c *CLI) runContentShow(ctx context.Context, dir string, col content.Collection, slug string, noCache bool) error {
	if err := errors.ValidateSlug(slug); err != nil {
		return err
	}
	entries, err := content.LoadCollection(ctx, dir, col)
	e, ok := content.Find(entries, slug)
	if !ok {
		if err != nil {
			c.Logger.Warn("some entries failed validation", "error", err)
		}
		return errors.New(errors.ErrCodeNotFound, "%s/%s not found", col, slug)
	}

	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	html, err := content.NewRenderer(ch, c.newKeyer(), c.Logger).Render(ctx, e)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(html)
	return err
}
