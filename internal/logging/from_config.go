package logging

import (
	"io"
	"log/slog"

	"animelens/internal/config"
)

// NewFromConfig creates a logger using application config defaults. The
// log file under cfg.Paths.LogDir receives a copy of every record.
func NewFromConfig(cfg *config.Config, output io.Writer) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Output: output})
	}
	return New(Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  output,
		LogFile: cfg.LogFilePath(),
	})
}
