package logger

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/MrSnakeDoc/sitemapgen/internal/printer"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level string    // "debug","info","warn","error"
	JSON  bool      // JSON output (CI)
	Color bool      // colorize (console)
	Out   io.Writer // default os.Stdout
	File  *FileOptions
}

// FileOptions tees every log line into a size-rotated file.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
}

var (
	mu       sync.RWMutex
	zlog     *zap.SugaredLogger
	out      io.Writer = os.Stdout
	p        *printer.ColorPrinter
	curLevel = zapcore.InfoLevel
	rotator  *lumberjack.Logger
	ready    atomic.Bool
)

// Configure sets up the global logger.
func Configure(opts Options) {
	mu.Lock()
	defer mu.Unlock()
	configure(opts)
}

func configure(opts Options) {
	if opts.Out != nil {
		out = opts.Out
	}

	var enc zapcore.Encoder
	if opts.JSON {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = ""
		encCfg.CallerKey = ""
		encCfg.MessageKey = "msg"
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(zapcore.EncoderConfig{MessageKey: "msg"})
	}

	level := parseLevel(opts.Level)
	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.AddSync(writerAdapter{out}), level)}

	if opts.File != nil && opts.File.Path != "" {
		if rotator != nil {
			_ = rotator.Close()
		}
		rotator = &lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    opts.File.MaxSizeMB,
			MaxBackups: opts.File.MaxBackups,
			LocalTime:  true,
		}
		fileEnc := zap.NewProductionEncoderConfig()
		fileEnc.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEnc), zapcore.AddSync(rotator), level))
	}

	zlog = zap.New(zapcore.NewTee(cores...)).Sugar()

	p = printer.NewColorPrinter(opts.Color)

	ready.Store(true)
}

// SetLevel adjusts current level at runtime ("debug","info","warn","error").
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	configure(Options{Level: level, Out: out, Color: true})
}

// SetOutput replaces the logger writer (use io.Discard in tests).
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	configure(Options{Level: curLevel.String(), Out: w})
}

// UseTestMode silences logs during tests.
func UseTestMode() {
	Configure(Options{
		Level: "error",
		Out:   io.Discard,
	})
}

// Out returns the current output writer (for tables).
func Out() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return out
}

// Sync flushes the zap core and closes the rotated file, if any.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if zlog != nil {
		_ = zlog.Sync()
	}
	if rotator != nil {
		_ = rotator.Close()
		rotator = nil
	}
}

// ---- Public logging API ----

func Info(msg string, args ...interface{}) {
	if !ensureReady() {
		return
	}
	mu.RLock()
	zlog.Info(p.Info("✨ "+msg, args...))
	mu.RUnlock()
}

func Success(msg string, args ...interface{}) {
	if !ensureReady() {
		return
	}
	mu.RLock()
	zlog.Info(p.Success("✅ "+msg, args...))
	mu.RUnlock()
}

func LogError(msg string, args ...interface{}) {
	if !ensureReady() {
		return
	}
	mu.RLock()
	zlog.Error(p.Error("❌ "+msg, args...))
	mu.RUnlock()
}

func Warn(msg string, args ...interface{}) {
	if !ensureReady() {
		return
	}
	mu.RLock()
	zlog.Warn(p.Warning("⚠️ "+msg, args...))
	mu.RUnlock()
}

func Debug(msg string, args ...interface{}) {
	if !ensureReady() {
		return
	}
	mu.RLock()
	zlog.Debug(p.Debug("🛠️ "+msg, args...))
	mu.RUnlock()
}

// ---- Tables ----

func CreateTable(headers []string) *tablewriter.Table {
	mu.RLock()
	defer mu.RUnlock()
	t := tablewriter.NewTable(out)
	t.Header(headers)
	return t
}

// ---- internals ----

type writerAdapter struct{ w io.Writer }

func (wa writerAdapter) Write(p []byte) (int, error) { return wa.w.Write(p) }

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		curLevel = zapcore.DebugLevel
	case "warn":
		curLevel = zapcore.WarnLevel
	case "error":
		curLevel = zapcore.ErrorLevel
	default:
		curLevel = zapcore.InfoLevel
	}
	return curLevel
}

func ensureReady() bool {
	if !ready.Load() {
		return false
	}
	return p != nil && zlog != nil
}
