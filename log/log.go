// Package log provides logging utilities.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"braces.dev/errtrace"
	"github.com/golang-cz/devslog"
	"github.com/phsym/console-slog"
	slogformatter "github.com/samber/slog-formatter"

	"github.com/ghettovoice/sipreg/internal/errorutil"
)

var newHandler = slogformatter.NewFormatterHandler(
	slogformatter.ErrorFormatter("error"),
	slogformatter.FormatByType(func(c net.Conn) slog.Value {
		return slog.GroupValue(
			slog.String("type", fmt.Sprintf("%T", c)),
			slog.String("ptr", fmt.Sprintf("%p", c)),
			slog.Any("local_addr", c.LocalAddr()),
			slog.Any("remote_addr", c.RemoteAddr()),
		)
	}),
	slogformatter.FormatByType(func(ip net.IP) slog.Value {
		return slog.StringValue(ip.String())
	}),
)

// Format is a log output format.
type Format string

const (
	FormatConsole Format = "console"
	FormatDev     Format = "dev"
	FormatText    Format = "text"
	FormatJSON    Format = "json"
)

// ParseFormat parses a log format name. Empty string means [FormatConsole].
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatConsole, nil
	case FormatConsole, FormatDev, FormatText, FormatJSON:
		return f, nil
	default:
		return "", errtrace.Wrap(errorutil.NewInvalidArgumentError("unknown log format %q", s))
	}
}

// ParseLevel parses a log level name: debug, info, warn (warning) or error.
// Empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, errtrace.Wrap(errorutil.NewInvalidArgumentError("unknown log level %q", s))
	}
}

// New creates a new logger writing to w with the given level and format.
func New(w io.Writer, lvl slog.Leveler, f Format) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	var h slog.Handler
	switch f {
	case FormatDev:
		h = devslog.NewHandler(w, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     lvl,
			},
			SortKeys:   true,
			TimeFormat: time.RFC3339Nano,
		})
	case FormatJSON:
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	case FormatText:
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	default:
		h = console.NewHandler(w, &console.HandlerOptions{
			Level:      lvl,
			TimeFormat: time.RFC3339Nano,
		})
	}
	return slog.New(newHandler(h))
}

// Console is a human friendly logger writing to stderr.
var Console = New(os.Stderr, slog.LevelDebug, FormatConsole)

// Dev is a developer logger.
var Dev = New(os.Stdout, slog.LevelDebug, FormatDev)

// Noop is a noop logger.
var Noop = slog.New(slog.DiscardHandler)

var def atomic.Pointer[slog.Logger]

// Default returns the package default logger.
// Unless overridden with [SetDefault], it is [slog.Default].
func Default() *slog.Logger {
	if l := def.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// SetDefault overrides the package default logger.
// Passing nil restores [slog.Default].
func SetDefault(l *slog.Logger) { def.Store(l) }
