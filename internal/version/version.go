package version

import (
	"fmt"
	"io"
	"runtime"
)

// Set at build time with -ldflags "-X .../internal/version.Version=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

func Print(w io.Writer) {
	_, _ = fmt.Fprintln(w, "sitemapgen - split sitemap and sitemap index generator")
	_, _ = fmt.Fprintf(w, "  %-11s %s\n", "Version:", Version)
	_, _ = fmt.Fprintf(w, "  %-11s %s\n", "Go Version:", GoVersion)
	_, _ = fmt.Fprintf(w, "  %-11s %s\n", "Git Commit:", Commit)
	_, _ = fmt.Fprintf(w, "  %-11s %s\n", "Built:", Date)
	_, _ = fmt.Fprintf(w, "  %-11s %s/%s\n", "OS/Arch:", runtime.GOOS, runtime.GOARCH)
}
