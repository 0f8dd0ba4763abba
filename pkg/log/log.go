package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	relaycontext "github.com/username-relay/relay-service/pkg/context"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// debugVerbosity is the logr verbosity mapped by zapr onto zap's debug level.
const debugVerbosity = 1

var logger = newLogger("relay-service", os.Stderr)

// Logger is a named, context aware wrapper around a logr.Logger backed by zap.
type Logger struct {
	name   string
	out    io.Writer
	json   bool
	level  zap.AtomicLevel
	tags   []interface{}
	logger logr.Logger
}

func newLogger(name string, out io.Writer) *Logger {
	l := &Logger{
		name:  name,
		out:   out,
		level: zap.NewAtomicLevelAt(zapcore.InfoLevel),
	}
	l.build()
	return l
}

// Init initializes the package logger with the given name, writing to stderr.
func Init(name string) {
	InitializeLogger(name)
}

// InitializeLogger creates a new logger with the given name, makes it the
// package logger and returns it.
func InitializeLogger(name string) *Logger {
	logger = newLogger(name, os.Stderr)
	return logger
}

// GetLogger returns the package logger.
func GetLogger() *Logger {
	return logger
}

func (l *Logger) build() {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	var encoder zapcore.Encoder
	if l.json {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(l.out), l.level)
	l.logger = zapr.NewLogger(zap.New(core)).WithName(l.name).WithValues(l.tags...)
}

// SetOutput redirects the logger to the given writer. In testing mode the
// debug level is enabled as well.
func (l *Logger) SetOutput(out io.Writer, isTestingMode bool) {
	l.out = out
	if isTestingMode {
		l.level.SetLevel(zapcore.DebugLevel)
	}
	l.build()
}

// Configure sets the minimum level ("debug", "info", "error", ...) and the
// encoding of the logger.
func (l *Logger) Configure(level string, json bool) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return errors.Wrapf(err, "invalid log level '%s'", level)
	}
	l.level.SetLevel(lvl)
	l.json = json
	l.build()
	return nil
}

// WithValues returns a copy of the logger carrying the given key/value pairs
// on every entry.
func (l *Logger) WithValues(keysAndValues ...interface{}) *Logger {
	derived := &Logger{
		name:  l.name,
		out:   l.out,
		json:  l.json,
		level: l.level,
		tags:  append(append([]interface{}{}, l.tags...), keysAndValues...),
	}
	derived.build()
	return derived
}

// Info logs a message at info level.
func (l *Logger) Info(ctx context.Context, msg string) {
	l.logger.Info(msg, contextValues(ctx)...)
}

// Infof logs a formatted message at info level.
func (l *Logger) Infof(ctx context.Context, format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...), contextValues(ctx)...)
}

// Debug logs a message at debug level.
func (l *Logger) Debug(ctx context.Context, msg string) {
	l.logger.V(debugVerbosity).Info(msg, contextValues(ctx)...)
}

// Debugf logs a formatted message at debug level.
func (l *Logger) Debugf(ctx context.Context, format string, args ...interface{}) {
	l.logger.V(debugVerbosity).Info(fmt.Sprintf(format, args...), contextValues(ctx)...)
}

// Error logs a message with the given error.
func (l *Logger) Error(ctx context.Context, err error, msg string) {
	l.logger.Error(err, msg, contextValues(ctx)...)
}

// Errorf logs a formatted message with the given error.
func (l *Logger) Errorf(ctx context.Context, err error, format string, args ...interface{}) {
	l.logger.Error(err, fmt.Sprintf(format, args...), contextValues(ctx)...)
}

// contextValues extracts the request details worth logging. Only gin
// contexts carry any.
func contextValues(ctx context.Context) []interface{} {
	gctx, ok := ctx.(*gin.Context)
	if !ok || gctx == nil {
		return nil
	}
	var values []interface{}
	if tokenName := gctx.GetString(relaycontext.TokenNameKey); tokenName != "" {
		values = append(values, "token_name", tokenName)
	}
	if count, exists := gctx.Get(relaycontext.UsernameCountKey); exists {
		values = append(values, "usernames", count)
	}
	if gctx.Request != nil && gctx.Request.URL != nil {
		values = append(values, "req_url", gctx.Request.URL.String())
	}
	return values
}

// Info logs a message at info level with the package logger.
func Info(ctx context.Context, msg string) {
	logger.Info(ctx, msg)
}

// Infof logs a formatted message at info level with the package logger.
func Infof(ctx context.Context, format string, args ...interface{}) {
	logger.Infof(ctx, format, args...)
}

// Debug logs a message at debug level with the package logger.
func Debug(ctx context.Context, msg string) {
	logger.Debug(ctx, msg)
}

// Debugf logs a formatted message at debug level with the package logger.
func Debugf(ctx context.Context, format string, args ...interface{}) {
	logger.Debugf(ctx, format, args...)
}

// Error logs a message with the given error with the package logger.
func Error(ctx context.Context, err error, msg string) {
	logger.Error(ctx, err, msg)
}

// Errorf logs a formatted message with the given error with the package logger.
func Errorf(ctx context.Context, err error, format string, args ...interface{}) {
	logger.Errorf(ctx, err, format, args...)
}

// WithValues returns a copy of the package logger carrying the given key/value pairs.
func WithValues(keysAndValues ...interface{}) *Logger {
	return logger.WithValues(keysAndValues...)
}

// Configure sets the minimum level and the encoding of the package logger.
func Configure(level string, json bool) error {
	return logger.Configure(level, json)
}
