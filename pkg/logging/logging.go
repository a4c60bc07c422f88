// Package logging builds the console logger the yurinview binaries use.
// Library packages never configure loggers; they log through
// zerolog.Ctx(ctx) and inherit whatever the binary attached.
package logging

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

type Options struct {
	Debug bool
	Color bool
}

var setCallerMarshal sync.Once

// New returns a console logger writing to w at info level, or debug level
// when opts.Debug is set. Every entry carries its caller as
// package:file:line.
func New(w io.Writer, opts Options) zerolog.Logger {
	setCallerMarshal.Do(func() {
		zerolog.CallerMarshalFunc = MarshalCaller
	})

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !opts.Color,
		TimeFormat: "15:04:05.0000",
		FormatCaller: func(i interface{}) string {
			s, ok := i.(string)
			if !ok || s == "" {
				return ""
			}
			if opts.Color {
				s = colorCaller(s)
			}
			return fmt.Sprintf("%s >", s)
		},
	}

	return zerolog.New(out).
		Level(level).
		Hook(CustomTimeHook{WithColor: opts.Color}).
		With().
		Caller().
		Logger()
}

// WithContext attaches a logger built by New to ctx.
func WithContext(ctx context.Context, w io.Writer, opts Options) context.Context {
	return New(w, opts).WithContext(ctx)
}

type CustomTimeHook struct {
	WithColor bool
	Format    string
}

func (t CustomTimeHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	if t.Format == "" {
		// millisecond precision with no timezone
		e.Str("time", time.Now().Format("2006-01-02T15:04:05.0000Z"))
	} else {
		e.Str("time", time.Now().Format(t.Format))
	}
}

// MarshalCaller is a zerolog.CallerMarshalFunc rendering the caller as
// package:file:line.
func MarshalCaller(pc uintptr, file string, line int) string {
	pkg := ""
	if fn := runtime.FuncForPC(pc); fn != nil {
		pkg, _ = GetPackageAndFuncFromFuncName(fn.Name())
	}
	return FormatCaller(pkg, file, line, false)
}

// colorCaller recolors a caller produced by MarshalCaller.
func colorCaller(s string) string {
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return s
	}
	j := strings.LastIndexByte(s[:i], ':')
	if j < 0 {
		return s
	}
	n, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return s
	}
	return FormatCaller(s[:j], s[j+1:i], n, true)
}

// GetPackageAndFuncFromFuncName splits a runtime function name such as
// "github.com/walteh/yurinview/pkg/highlight.(*Engine).Highlight" into its
// package path and function part.
func GetPackageAndFuncFromFuncName(pc string) (pkg, function string) {
	funcName := pc
	lastSlash := strings.LastIndexByte(funcName, '/')
	if lastSlash < 0 {
		lastSlash = 0
	}

	firstDot := strings.IndexByte(funcName[lastSlash:], '.') + lastSlash
	if firstDot < lastSlash {
		return funcName, ""
	}

	pkg = funcName[:firstDot]
	fname := funcName[firstDot+1:]

	if strings.Contains(pkg, ".(") {
		splt := strings.Split(pkg, ".(")
		pkg = splt[0]
		fname = "(" + splt[1] + "." + fname
	}

	return pkg, fname
}

func FormatCaller(pkg, path string, number int, colorize bool) string {
	p := FileNameOfPath(path)
	if colorize {
		p = color.New(color.Bold).Sprint(p)
		num := color.New(color.FgHiRed, color.Bold).Sprintf("%d", number)
		sep := color.New(color.Faint).Sprint(":")

		return fmt.Sprintf("%s%s%s%s%s", pkg, sep, p, sep, num)
	}

	return fmt.Sprintf("%s:%s:%d", pkg, p, number)
}

func FileNameOfPath(path string) string {
	tot := strings.Split(path, "/")
	if len(tot) > 1 {
		return tot[len(tot)-1]
	}

	return path
}
