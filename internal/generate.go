package internal

import (
	"fmt"

	"github.com/MrSnakeDoc/sitemapgen/internal/config"
	"github.com/MrSnakeDoc/sitemapgen/internal/errs"
	"github.com/MrSnakeDoc/sitemapgen/internal/logger"
	"github.com/MrSnakeDoc/sitemapgen/internal/middleware"
	"github.com/MrSnakeDoc/sitemapgen/internal/run"
	"github.com/MrSnakeDoc/sitemapgen/internal/sitemap"
	"github.com/MrSnakeDoc/sitemapgen/internal/utils"

	"github.com/spf13/cobra"
)

func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the sitemaps and the sitemap index",
		Long: `Generate runs every configured provider for one store, writes the group
sitemaps into output_dir and finishes with the index file named by filename.

Examples:
  sitemapgen generate
  sitemapgen generate --store-id 2
  sitemapgen generate --metrics-file /var/lib/node_exporter/sitemapgen.prom`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}

			var opts run.Options
			if cmd.Flags().Changed("store-id") {
				id, _ := cmd.Flags().GetInt("store-id")
				if id < 0 {
					return errs.Wrap(errs.ConfigInvalid, "--store-id", fmt.Errorf("must be >= 0, got %d", id))
				}
				opts.StoreID = &id
			}
			opts.MetricsFile, _ = cmd.Flags().GetString("metrics-file")

			res, err := run.Generate(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}

			if err := printFiles(res.Files); err != nil {
				return err
			}
			logger.Success("Generated %s with %d sitemap(s) at %s", res.Record.Filename, len(res.Record.Files), res.Record.GeneratedAt)
			return nil
		},
	}

	cmd.Flags().Int("store-id", 0, "Store to generate for (default: store_id from the config)")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics in textfile format to this path")
	return cmd
}

func printFiles(files []sitemap.FileStat) error {
	table := logger.CreateTable([]string{"File", "Group", "URLs", "Size"})
	for _, f := range files {
		group := f.Group
		if group == "" {
			group = "(index)"
		}
		if err := table.Append([]string{f.Name, group, fmt.Sprint(f.Rows), utils.HumanSize(f.Bytes)}); err != nil {
			return err
		}
	}
	return table.Render()
}
