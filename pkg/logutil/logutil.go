package logutil

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrInvalidLogLevel = errors.New("invalid log level")

// ParseLevel maps the CLI log-level values onto zerolog levels. "warning"
// and "critical" keep their upstream spellings.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case zerolog.LevelDebugValue:
		return zerolog.DebugLevel, nil
	case zerolog.LevelInfoValue:
		return zerolog.InfoLevel, nil
	case "warning", zerolog.LevelWarnValue:
		return zerolog.WarnLevel, nil
	case zerolog.LevelErrorValue:
		return zerolog.ErrorLevel, nil
	case "critical", zerolog.LevelFatalValue:
		return zerolog.FatalLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("%w: %s", ErrInvalidLogLevel, level)
}

// InitZeroLog configures the global zerolog logger and attaches it to the
// returned context, so components can log via log.Ctx(ctx).
func InitZeroLog(ctx context.Context, level zerolog.Level) context.Context {
	// use unix time
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	zerolog.SetGlobalLevel(level)

	// show caller: github.com/rs/zerolog#add-file-and-line-number-to-log
	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		short := file
		for i := len(file) - 1; i > 0; i-- {
			if file[i] == '/' {
				short = file[i+1:]
				break
			}
		}
		return fmt.Sprintf("%s:%d", short, line)
	}
	log.Logger = log.With().Caller().Logger()

	return log.Logger.WithContext(ctx)
}
