package app

import (
	"os"

	"github.com/EdilKulzhabay/courier/internal/config"
	"github.com/EdilKulzhabay/courier/internal/logx"
)

// NewLogger builds the JSON logger writing to stdout at the configured level.
func NewLogger(cfg *config.Config) logx.Logger {
	return logx.NewJSON(os.Stdout, cfg.LogLevel).With(logx.String("service", "courier-agent"))
}
