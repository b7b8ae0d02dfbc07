package internal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/sitemapgen/internal/config"
	"github.com/MrSnakeDoc/sitemapgen/internal/errs"
	"github.com/MrSnakeDoc/sitemapgen/internal/logger"
	"github.com/MrSnakeDoc/sitemapgen/internal/middleware"
	"github.com/MrSnakeDoc/sitemapgen/internal/models"
	"github.com/MrSnakeDoc/sitemapgen/internal/store"
	"github.com/MrSnakeDoc/sitemapgen/internal/utils"

	"github.com/spf13/cobra"
)

func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the recorded generation runs, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := middleware.Get[*config.Config](cmd, middleware.CtxKeyConfig)
			if err != nil {
				return err
			}

			limit, _ := cmd.Flags().GetInt("limit")
			if limit < 1 {
				return middleware.FlagComboError(errs.InvalidLimit, limit)
			}

			st, err := store.Open(cfg.Metadata.Driver, cfg.MetadataPath())
			if err != nil {
				return errs.Wrap(errs.StoreFailure, cfg.MetadataPath(), err)
			}
			defer utils.Close(st)

			recs, err := st.History(cmd.Context(), limit)
			if err != nil {
				return errs.Wrap(errs.StoreFailure, cfg.MetadataPath(), err)
			}
			if len(recs) == 0 {
				logger.Info("No generation recorded yet. Run 'sitemapgen generate' first.")
				return nil
			}

			return printHistory(recs)
		},
	}

	cmd.Flags().IntP("limit", "n", 10, "Number of runs to show")
	return cmd
}

func printHistory(recs []models.Record) error {
	table := logger.CreateTable([]string{"Generated (UTC)", "Store", "Index", "Files", "Groups", "Run ID"})
	for _, r := range recs {
		row := []string{
			r.GeneratedAt,
			fmt.Sprint(r.StoreID),
			r.Filename,
			fmt.Sprint(len(r.Files)),
			formatGroups(r.Groups),
			r.ID,
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func formatGroups(groups map[string]int) string {
	keys := utils.Keys(groups)
	sort.Strings(keys)
	return strings.Join(utils.Map(keys, func(k string) string {
		return fmt.Sprintf("%s:%d", k, groups[k])
	}), " ")
}
