// Package logger provides a zerolog wrapper with opinionated defaults and
// request-scoped logging support
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"safeharbor/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Output targets accepted by LOG_OUTPUT
const (
	OutputStdout = "stdout"
	OutputStderr = "stderr"
)

// Options configures the logger
type Options struct {
	Level        string
	Format       string // console | json
	Output       string // stdout | stderr; ignored when Writer is set
	NoColor      bool
	Service      string
	Component    string
	Writer       io.Writer
	WithCaller   bool
	SampleEvery  int
	StaticFields map[string]string
}

// Profile holds the per-binary defaults that LOG_* variables override
type Profile struct {
	Level   string
	Format  string
	Output  string
	Service string
}

var (
	// ServiceProfile suits long-running servers: info, console, stdout
	ServiceProfile = Profile{Level: "info", Format: "console", Output: OutputStdout, Service: "safeharbor"}

	// CLIProfile keeps stdout free for reports and stays quiet unless asked
	CLIProfile = Profile{Level: "warn", Format: "console", Output: OutputStderr, Service: "safeharbor-scan"}
)

// FromEnv reads LOG_* over the service defaults
func FromEnv() Options { return ServiceProfile.FromEnv() }

// ForCLI reads LOG_* over the command-line defaults
func ForCLI() Options { return CLIProfile.FromEnv() }

// FromEnv builds Options from LOG_* using the logger-free raw reader; unset
// keys keep the profile's values. NO_COLOR is honored for console output
func (p Profile) FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:       strings.ToLower(rc.Get("LEVEL", p.Level)),
		Format:      strings.ToLower(rc.Get("FORMAT", p.Format)),
		Output:      strings.ToLower(rc.Get("OUTPUT", p.Output)),
		NoColor:     rc.GetBool("NO_COLOR", raw.New().Get("NO_COLOR", "") != ""),
		Service:     rc.Get("SERVICE", p.Service),
		Component:   rc.Get("COMPONENT", ""),
		WithCaller:  rc.GetBool("CALLER", false),
		SampleEvery: rc.GetInt("SAMPLE_EVERY", 0),
	}
}

var (
	once   sync.Once
	root   atomic.Pointer[zerolog.Logger]
	inited atomic.Bool
)

// Logger is the project-wide logging type
type Logger = zerolog.Logger

// Get returns the process-wide root logger, initializing it from the
// service profile when no binary called Init first
func Get() *Logger {
	if !inited.Load() {
		Init(FromEnv())
	}
	return root.Load()
}

// Init sets the process-wide root logger. Only the first call wins
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		log := New(opt)
		root.Store(&log)
		inited.Store(true)
	})
}

// New builds a standalone logger from opt without touching the root
func New(opt Options) Logger {
	ctx := zerolog.New(writerFor(opt)).Level(parseLevel(opt.Level)).With().Timestamp()

	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		ctx = ctx.Str("go_version", bi.GoVersion)
	}
	if opt.Service != "" {
		ctx = ctx.Str("service", opt.Service)
	}
	if opt.Component != "" {
		ctx = ctx.Str("component", opt.Component)
	}
	for k, v := range opt.StaticFields {
		ctx = ctx.Str(k, v)
	}

	log := ctx.Logger()
	if opt.WithCaller {
		log = log.With().Caller().Logger()
	}
	if opt.SampleEvery > 1 {
		log = log.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return log
}

// writerFor resolves the sink: an explicit Writer, else the named stream,
// wrapped for humans unless json was asked for
func writerFor(opt Options) io.Writer {
	w := opt.Writer
	if w == nil {
		w = os.Stdout
		if opt.Output == OutputStderr {
			w = os.Stderr
		}
	}
	if opt.Format == "json" {
		return w
	}
	return zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: opt.NoColor}
}

// parseLevel maps a level name; empty or unknown names fall back to info
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

type ctxKey struct{ name string }

var (
	keyRequestID = ctxKey{"request_id"}
	keyItemID    = ctxKey{"item_id"}
)

// WithRequest stores the request id for C to pick up
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyRequestID, reqID)
}

// WithItem stores a batch item id for C to pick up
func WithItem(ctx context.Context, itemID string) context.Context {
	if itemID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyItemID, itemID)
}

// C returns a child of the root logger enriched from ctx (request_id, item_id)
func C(ctx context.Context) *Logger { return Enrich(ctx, Get()) }

// Enrich returns a child of base carrying the ids stored on ctx
func Enrich(ctx context.Context, base *Logger) *Logger {
	b := base.With()
	if s, ok := ctx.Value(keyRequestID).(string); ok && s != "" {
		b = b.Str("request_id", s)
	}
	if s, ok := ctx.Value(keyItemID).(string); ok && s != "" {
		b = b.Str("item_id", s)
	}
	ll := b.Logger()
	return &ll
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	ll := Get().With().Str("component", component).Logger()
	return &ll
}
