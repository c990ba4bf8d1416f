package logging

import (
	"log/slog"
	"os"
)

// Setup installs the bootstrap JSON logger. It carries startup logging
// until the database is up, after which main swaps in a MultiHandler that
// adds the system_logs sink.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}
