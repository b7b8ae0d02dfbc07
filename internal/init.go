package internal

import (
	"github.com/MrSnakeDoc/sitemapgen/internal/initiator"
	"github.com/MrSnakeDoc/sitemapgen/internal/logger"
	"github.com/MrSnakeDoc/sitemapgen/internal/prompter"

	"github.com/spf13/cobra"
)

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter sitemapgen.yml",
		Long: `Initialize sitemapgen configuration.
This command will:
- Create sitemapgen.yml (or the file named by --config)
- Create the ./public output directory next to it`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			force, _ := cmd.Flags().GetBool("force")

			i := initiator.New(path, force, prompter.New(cmd.InOrStdin(), cmd.OutOrStdout()))
			if err := i.Execute(); err != nil {
				return err
			}

			logger.Success("Created %s", i.ConfigPath)
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing configuration")
	return cmd
}
