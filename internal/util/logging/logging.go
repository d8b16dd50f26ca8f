/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package logging sets up the process-wide logger. zap is the backend, logr
// is the interface handed to libraries, and log/slog is what the code calls.
package logging

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ErrSetup = errors.New("setting up logger")

type Options struct {
	// Development switches to a human-readable console encoder.
	Development bool
	// Level is the minimum level logged. Defaults to slog.LevelInfo.
	Level slog.Level
}

func DefaultOptions() Options {
	return Options{Level: slog.LevelInfo}
}

// Setup builds a zap logger, wraps it in logr and installs it behind the
// default slog logger. The returned func flushes buffered entries and must be
// called before the process exits.
func Setup(opts Options) (logr.Logger, func(), error) {
	cfg := zap.NewProductionConfig()
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.Level = zap.NewAtomicLevelAt(zapLevel(opts.Level))

	zl, err := cfg.Build()
	if err != nil {
		return logr.Discard(), func() {}, errors.Join(err, ErrSetup)
	}

	logger := zapr.NewLogger(zl)
	slog.SetDefault(slog.New(&levelHandler{Handler: logr.ToSlogHandler(logger), level: opts.Level}))

	return logger, func() { _ = zl.Sync() }, nil
}

// ParseLevel accepts the slog level names ("debug", "info", "warn", "error").
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}

	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.Join(err, ErrSetup)
	}

	return l, nil
}

// levelHandler drops records below level. logr's slog bridge checks warn
// records against V(0), so the zap core alone cannot tell warn from info.
type levelHandler struct {
	slog.Handler
	level slog.Level
}

func (h *levelHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.level && h.Handler.Enabled(ctx, l)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{Handler: h.Handler.WithAttrs(attrs), level: h.level}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{Handler: h.Handler.WithGroup(name), level: h.level}
}

// zapLevel maps a slog level to the zap level that logr's slog bridge ends up
// logging at. slog debug becomes logr V(4), which zapr logs at zap level -4.
// Warn maps to info; levelHandler filters the rest.
func zapLevel(l slog.Level) zapcore.Level {
	switch {
	case l >= slog.LevelError:
		return zapcore.ErrorLevel
	case l >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.Level(int8(l))
	}
}
