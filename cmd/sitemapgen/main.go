package main

import (
	"errors"
	"os"

	cmd "github.com/MrSnakeDoc/sitemapgen/internal"
	"github.com/MrSnakeDoc/sitemapgen/internal/logger"
	"github.com/MrSnakeDoc/sitemapgen/internal/middleware"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, middleware.ErrLogged) {
			logger.LogError("%v", err)
		}
		os.Exit(1)
	}
}
