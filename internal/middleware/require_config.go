package middleware

import (
	"context"

	"github.com/MrSnakeDoc/sitemapgen/internal/config"
	"github.com/MrSnakeDoc/sitemapgen/internal/logger"

	"github.com/spf13/cobra"
)

// RequireConfig loads and validates the configuration named by --config (or
// its fallbacks) and stores it under CtxKeyConfig.
func RequireConfig(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error {
	flagPath, _ := cmd.Flags().GetString("config")
	path := config.Locate(flagPath)

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	logger.Debug("config: loaded %s (output=%s, %d providers)", path, cfg.OutputDir, len(cfg.Providers))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, CtxKeyConfigPath, path)
	ctx = context.WithValue(ctx, CtxKeyConfig, cfg)
	cmd.SetContext(ctx)

	return next(cmd, args)
}
