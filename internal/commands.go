package internal

import (
	"github.com/MrSnakeDoc/sitemapgen/internal/middleware"

	"github.com/spf13/cobra"
)

var defaultCommands = []middleware.CommandFactory{
	NewInitCmd,
	middleware.UseMiddlewareChain(middleware.RequireConfig)(NewGenerateCmd),
	middleware.UseMiddlewareChain(middleware.RequireConfig)(NewStatusCmd),
}

func RegisterSubCommands(cmd *cobra.Command) {
	for _, factory := range defaultCommands {
		cmd.AddCommand(factory())
	}
}
