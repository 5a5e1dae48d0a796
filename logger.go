package main

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/lmittmann/tint"
)

var logOnce sync.Once

type LogOptions struct {
	Level      slog.Leveler // slog.LevelInfo, slog.LevelDebug, etc.
	Writer     io.Writer    // default: os.Stderr
	TimeFormat string       // default: 15:04:05
}

// InitLogger installs a tint handler as the default slog logger. Only the first call has effect.
func InitLogger(opts LogOptions) {
	logOnce.Do(func() {
		w := opts.Writer
		if w == nil {
			w = os.Stderr
		}
		format := opts.TimeFormat
		if format == "" {
			format = "15:04:05"
		}
		slog.SetDefault(slog.New(tint.NewHandler(w, &tint.Options{
			Level:      opts.Level,
			TimeFormat: format,
		})))
	})
}
