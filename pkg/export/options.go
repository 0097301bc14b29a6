package export

import (
	"io"

	"github.com/charmbracelet/log"
)

// Option configures an export.
type Option func(*settings)

type settings struct {
	embed    bool
	minimize bool
	override bool
	logger   *log.Logger
}

func newSettings(opts []Option) settings {
	s := settings{minimize: true}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return s
}

// WithEmbeddedData writes the tables inline in the JSON document instead
// of side files.
func WithEmbeddedData() Option { return func(s *settings) { s.embed = true } }

// WithFullData writes every column of each table, not only the columns
// read by layers.
func WithFullData() Option { return func(s *settings) { s.minimize = false } }

// WithOverrideStyle replaces explicit layer colors with automatic ones.
func WithOverrideStyle() Option { return func(s *settings) { s.override = true } }

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option { return func(s *settings) { s.logger = l } }
