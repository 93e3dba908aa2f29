// Package logger configura zerolog para el servidor y billingctl.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Env     string // development: consola legible; cualquier otro: JSON
	Level   string // trace, debug, info, warn, error; vacío o inválido = info
	Service string
	// Global reemplaza también zerolog/log.Logger.
	Global bool
}

// Logger envuelve zerolog.Logger; el valor cero descarta todo.
type Logger struct {
	zl zerolog.Logger
}

// New crea el logger del proceso escribiendo en stdout.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}
	l := build(w, cfg)
	if cfg.Global {
		log.Logger = l.zl
	}
	return l
}

// NewWithWriter logger JSON sobre w con el nivel indicado.
func NewWithWriter(w io.Writer, level string) *Logger {
	return build(w, Config{Level: level})
}

func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func build(w io.Writer, cfg Config) *Logger {
	ctx := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	return &Logger{zl: ctx.Logger()}
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Debug() *zerolog.Event { zl := l.Zerolog(); return zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { zl := l.Zerolog(); return zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { zl := l.Zerolog(); return zl.Warn() }
func (l *Logger) Error() *zerolog.Event { zl := l.Zerolog(); return zl.Error() }

// Fatal escribe el evento y termina el proceso con os.Exit(1).
func (l *Logger) Fatal() *zerolog.Event { zl := l.Zerolog(); return zl.Fatal() }

// Component sublogger con el campo component fijo.
func (l *Logger) Component(name string) *Logger {
	return &Logger{zl: l.Zerolog().With().Str("component", name).Logger()}
}

// Zerolog logger interno para las capas que reciben zerolog.Logger.
func (l *Logger) Zerolog() zerolog.Logger {
	if l == nil {
		return zerolog.Nop()
	}
	return l.zl
}
