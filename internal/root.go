package internal

import (
	"os"
	"strings"

	"github.com/MrSnakeDoc/sitemapgen/internal/logger"
	"github.com/MrSnakeDoc/sitemapgen/internal/version"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitemapgen",
		Short: "Split sitemap and sitemap index generator",
		Long: `Sitemapgen collects URLs from the configured item providers, writes one
sitemap file per provider group (split into numbered files when a group
exceeds the line or size limit) and a sitemap index listing them all.`,
		Example: `sitemapgen init
sitemapgen generate --store-id 1
sitemapgen status`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			loadDotEnv()
			logger.ConfigureLoggerFromFlags()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				version.Print(cmd.OutOrStdout())
				return nil
			}
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().BoolP("version", "v", false, "Print version information")

	pf := cmd.PersistentFlags()
	pf.String("config", "", "Path to sitemapgen.yml (default $SITEMAPGEN_CONFIG or ./sitemapgen.yml)")
	pf.CountVarP(&logger.FlagVerboseCount, "verbose", "V", "Verbose output (-V for debug)")
	pf.BoolVarP(&logger.FlagQuiet, "quiet", "q", false, "Only print errors")
	pf.BoolVarP(&logger.FlagSilent, "silent", "s", false, "Print nothing")
	pf.BoolVar(&logger.FlagJSON, "json", false, "JSON log lines")
	pf.StringVar(&logger.FlagLogFile, "log-file", "", "Also write JSON logs to this file (rotated)")

	RegisterSubCommands(cmd)

	return cmd
}

// loadDotEnv loads .env from the working directory without overriding
// variables already set.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Debug("dotenv: %v", err)
	}
}

func Execute() error {
	root := NewRootCmd()
	defer logger.Sync()

	if os.Getenv("COMP_LINE") != "" ||
		(len(os.Args) > 1 && strings.HasPrefix(os.Args[1], "__complete")) {
		return root.Execute()
	}

	if err := root.Execute(); err != nil {
		logger.Debug("Failed to execute root command: %v", err)
		return err
	}
	return nil
}
