package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const logTimeFormat = "15:04:05.00"

// newLogger writes timestamped logs to w, e.g. "14:32:01.45 DEBU overlay state
// cycle=… from=closed to=opening". Overlay state changes get emphasised values.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
	styles := log.DefaultStyles()
	styles.Keys["cycle"] = StyleDim
	styles.Values["cycle"] = StyleDim
	styles.Values["to"] = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	l.SetStyles(styles)
	return l
}

// openLogFile appends logs at level to path. Callers must run the returned
// close func. An empty path discards everything.
func openLogFile(path string, level log.Level) (*log.Logger, func() error, error) {
	if path == "" {
		return log.New(io.Discard), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return newLogger(f, level), f.Close, nil
}

// stopwatch logs how long a step took once it finishes.
type stopwatch struct {
	logger *log.Logger
	start  time.Time
	now    func() time.Time
}

func startStopwatch(l *log.Logger) *stopwatch {
	return &stopwatch{logger: l, start: time.Now(), now: time.Now}
}

// done logs msg at info with an elapsed field appended to keyvals.
func (s *stopwatch) done(msg string, keyvals ...any) {
	elapsed := s.now().Sub(s.start).Round(time.Millisecond)
	s.logger.Info(msg, append(keyvals, "elapsed", elapsed)...)
}

type loggerKey struct{}

func contextWithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFrom returns the logger attached by the root command, or
// log.Default() outside a command.
func loggerFrom(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
