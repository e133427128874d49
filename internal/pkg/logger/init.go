package logger

import (
	"io"
	log "log/slog"
	"os"
)

var LogWriter io.Writer

func InitLogger() {
	hStdout := log.NewJSONHandler(os.Stdout, &log.HandlerOptions{Level: log.LevelInfo})
	LogWriter = os.Stdout

	logger := log.New(&ContextHandler{hStdout})
	log.SetDefault(logger)
}
