package cmdutil

import (
	"log/slog"
	"os"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/lmittmann/tint"
	sloggraylog "github.com/samber/slog-graylog/v2"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	logLevel    = new(slog.LevelVar)
	logHandlers []slog.Handler
)

// SetupConsoleLogger installs a colored console logger on stderr as default
// logger. Colors are disabled, if stderr is no terminal (eg in CI logs).
// Additional handlers from other options receive the same records.
func SetupConsoleLogger() {
	console := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.TimeOnly,
		NoColor:    !term.IsTerminal(int(os.Stderr.Fd())),
	})

	handlers := append([]slog.Handler{console}, logHandlers...)
	slog.SetDefault(slog.New(slogmulti.Fanout(handlers...)))
}

func WithLogVerboseFlag() Option {
	var (
		enabled bool
	)

	return func(cmd *cobra.Command) error {
		cmd.PersistentFlags().BoolVarP(
			&enabled, "verbose", "v", false,
			"prints debug log messages")

		cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
			logLevel.Set(slog.LevelInfo)
			if enabled {
				logLevel.Set(slog.LevelDebug)
			}
			SetupConsoleLogger()
		}

		return nil
	}
}

func WithLogToGraylog() Option {
	var (
		gelfAddress string
	)

	return func(cmd *cobra.Command) error {
		cmd.PersistentFlags().StringVar(
			&gelfAddress, "gelf-address", "",
			`Address to Graylog for logging (format: "ip:port").`)

		cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
			if gelfAddress == "" {
				return
			}

			writer, err := gelf.NewWriter(gelfAddress)
			if err != nil {
				slog.Warn("failed to connect to Graylog", "address", gelfAddress, "error", err)
				return
			}

			handler := sloggraylog.Option{
				Level:  slog.LevelDebug,
				Writer: writer,
			}.NewGraylogHandler().WithAttrs([]slog.Attr{
				slog.String("facility", Name),
				slog.String("version", Version),
				slog.String("commit-sha", CommitHash),
			})

			logHandlers = append(logHandlers, handler)
			SetupConsoleLogger()
		}

		return nil
	}
}
