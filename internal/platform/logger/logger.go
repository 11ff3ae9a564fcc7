package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. JSON on stdout keeps demo
// deployments greppable.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
