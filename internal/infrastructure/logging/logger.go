package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"affiliate-dashboard/internal/infrastructure/config"

	"github.com/rs/zerolog"
)

// New 依設定建立 logger，format 為 json 時輸出結構化 JSON，否則輸出人類可讀格式。
func New(cfg config.LogConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter 同 New，但輸出到指定 writer。
func NewWithWriter(cfg config.LogConfig, w io.Writer) zerolog.Logger {
	out := w
	if !strings.EqualFold(cfg.Format, "json") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(out).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
}

// Component 建立帶 component 欄位的子 logger。
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

func parseLevel(s string) zerolog.Level {
	if s == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
