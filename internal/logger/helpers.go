package logger

import (
	"io"
	"os"
)

var (
	FlagVerboseCount int    // -V, -VV
	FlagQuiet        bool   // --quiet/-q
	FlagSilent       bool   // --silent/-s
	FlagJSON         bool   // machine output for CI
	FlagLogFile      string // --log-file, rotated by size
)

const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
)

func ConfigureLoggerFromFlags() {
	var out io.Writer = os.Stdout
	level := "info"
	switch {
	case FlagSilent:
		level = "error"
		out = io.Discard
	case FlagQuiet:
		level = "error"
	case FlagVerboseCount > 0:
		level = "debug"
	}

	opts := Options{
		Level: level,
		JSON:  FlagJSON,
		Color: !FlagJSON,
		Out:   out,
	}
	if FlagLogFile != "" {
		opts.File = &FileOptions{
			Path:       FlagLogFile,
			MaxSizeMB:  logFileMaxSizeMB,
			MaxBackups: logFileMaxBackups,
		}
	}

	Configure(opts)
}
