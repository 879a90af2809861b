package logger

import (
	"io"
	"log/slog"
)

// Option configures a logger created with New.
type Option func(*settings)

// WithDebug lowers the level to Debug when true.
func WithDebug(debug bool) Option {
	return func(s *settings) {
		if debug {
			s.level = slog.LevelDebug
		} else {
			s.level = slog.LevelInfo
		}
	}
}

// WithFormat selects the output handler.
func WithFormat(f Format) Option {
	return func(s *settings) {
		s.format = f
	}
}

// WithPretty switches to the charmbracelet/log handler.
func WithPretty(pretty bool) Option {
	return func(s *settings) {
		if pretty {
			s.format = FormatPretty
		}
	}
}

// WithJSON switches to slog's JSON handler.
func WithJSON(json bool) Option {
	return func(s *settings) {
		if json {
			s.format = FormatJSON
		}
	}
}

// WithWriter overrides the output writer.
func WithWriter(w io.Writer) Option {
	return func(s *settings) {
		s.writers = []io.Writer{w}
	}
}

// WithWriters writes every record to all of w.
func WithWriters(w ...io.Writer) Option {
	return func(s *settings) {
		s.writers = w
	}
}

// WithSource adds the calling file and line to each record.
func WithSource(source bool) Option {
	return func(s *settings) {
		s.source = source
	}
}
