package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/DjordjeVuckovic/news-desk/internal/collector"
	"github.com/DjordjeVuckovic/news-desk/internal/domain"
	"github.com/DjordjeVuckovic/news-desk/internal/ingest"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		dryRun   bool
		featured bool
	)

	cmd := &cobra.Command{
		Use:   "generate <url>",
		Short: "Generate an article from a source URL and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ingest.ValidateSourceURL(args[0]); err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			if dryRun {
				gen, err := a.svc.Preview(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(gen)
			}

			res, err := a.svc.IngestURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !res.Stored {
				_ = printJSON(res.Generated)
				return fmt.Errorf("article generated but not stored: %w", res.StoreErr)
			}
			if featured {
				if res.Article, err = markFeatured(cmd, a, res.Article.ID); err != nil {
					return err
				}
			}
			return printJSON(res.Article)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the generated article without storing it")
	cmd.Flags().BoolVar(&featured, "featured", false, "Mark the stored article as featured")
	return cmd
}

func newBatchCmd() *cobra.Command {
	var (
		file        string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate articles for every URL in a batch file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bf, err := ingest.LoadBatchFile(file)
			if err != nil {
				return err
			}
			if concurrency > 0 {
				bf.Concurrency = concurrency
			}

			a, err := newApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			outcomes := a.svc.RunBatch(cmd.Context(), bf)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "URL\tSTATUS\tID")
			failed := 0
			for _, o := range outcomes {
				switch {
				case o.Err != nil:
					failed++
					fmt.Fprintf(w, "%s\tfailed: %v\t-\n", o.URL, o.Err)
				case !o.Result.Stored:
					failed++
					fmt.Fprintf(w, "%s\tnot stored: %v\t-\n", o.URL, o.Result.StoreErr)
				default:
					fmt.Fprintf(w, "%s\tstored\t%s\n", o.URL, o.Result.Article.ID)
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d items failed", failed, len(outcomes))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the batch YAML file")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Override the file's concurrency")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newImportCmd() *cobra.Command {
	var bulk int

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import articles from JSON, NDJSON or JSONL files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := []ingest.PipelineOption{ingest.WithPipelineName("news-writer-import")}
			if bulk > 0 {
				opts = append(opts, ingest.WithBulk(bulk))
			}
			p := ingest.NewImportPipeline(collector.NewJSONFileCollector(args...), a.svc, opts...)

			stats, err := p.Run(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "stored=%d invalid=%d failed=%d\n", stats.Stored, stats.Invalid, stats.Failed)
			return err
		},
	}

	cmd.Flags().IntVar(&bulk, "bulk", 0, "Write in batches of this size when the store supports it")
	return cmd
}

func newListCmd() *cobra.Command {
	var (
		limit    int
		featured bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored articles, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			articles, err := a.stores.Reader.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			articles = selectArticles(articles, featured, limit)

			if asJSON {
				return printJSON(articles)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tCATEGORY\tFEATURED\tTITLE")
			for _, art := range articles {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
					art.ID, art.CreatedAt.Format("2006-01-02 15:04"), art.Category, art.Featured, art.Title)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many articles")
	cmd.Flags().BoolVar(&featured, "featured", false, "Only featured articles")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid article id %q: %w", args[0], err)
			}
			a, err := newApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.svc.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			return nil
		},
	}
}

func markFeatured(cmd *cobra.Command, a *app, id uuid.UUID) (*domain.Article, error) {
	featured := true
	return a.svc.Update(cmd.Context(), id, domain.ArticlePatch{Featured: &featured})
}

func selectArticles(articles []domain.Article, featuredOnly bool, limit int) []domain.Article {
	out := make([]domain.Article, 0, len(articles))
	for _, art := range articles {
		if featuredOnly && !art.Featured {
			continue
		}
		out = append(out, art)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
