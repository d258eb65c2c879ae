package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/daybook/internal/importer"
)

func newImportCommand(g *globalFlags) *cobra.Command {
	var (
		format string
		date   string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Record the CSV files waiting in import/",
		Long: "Parses every CSV in import/ with the chosen format and adds each row as an\n" +
			"uploaded entry. Rows without a date go on --date. Parsed files move to\n" +
			"import/processed/; rejected rows are listed for manual entry.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := importer.DefaultRegistry()
			parser := registry.Get(format)
			if parser == nil {
				return fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(registry.Formats(), ", "))
			}

			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			target, err := a.resolveDate(date)
			if err != nil {
				return err
			}
			files, err := importer.Scan(a.root)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				a.printf("No files to import\n")
				return nil
			}

			for _, fi := range files {
				f, err := os.Open(fi.Path)
				if err != nil {
					return fmt.Errorf("opening %s: %w", fi.Name, err)
				}
				drafts, err := parser.Parse(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("parsing %s: %w", fi.Name, err)
				}

				res, err := importer.Apply(cmd.Context(), a.svc, target, drafts)
				if err != nil {
					return err
				}
				a.printf("%s: %d added, %d rejected\n", fi.Name, len(res.Added), len(res.Failed))
				for _, rowErr := range res.Failed {
					a.printf("  row %d: %v\n", rowErr.Row, rowErr.Err)
				}

				if err := importer.MarkProcessed(a.root, fi.Name); err != nil {
					return err
				}
				a.logger.Info("imported file",
					slog.String("file", fi.Name),
					slog.String("format", parser.Format()),
					slog.Int("added", len(res.Added)),
					slog.Int("rejected", len(res.Failed)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "documents", "file format (documents, chase)")
	cmd.Flags().StringVar(&date, "date", "today", "date for rows that carry none")
	return cmd
}
